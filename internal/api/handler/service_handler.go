package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// ServiceHandler serves the services screen.
type ServiceHandler struct {
	records ports.RecordsService
}

func NewServiceHandler(records ports.RecordsService) *ServiceHandler {
	return &ServiceHandler{records: records}
}

type servicesData struct {
	Services []domain.Service
	Clients  []domain.Client
	Form     serviceForm
	Editing  int64
}

// List handles GET /services. ?edit=<id> preloads the form.
func (h *ServiceHandler) List(c echo.Context) error {
	data, err := h.load(c)
	if err != nil {
		return err
	}
	if id := queryID(c, "edit"); id > 0 {
		for _, s := range data.Services {
			if s.ID == id {
				data.Form = serviceFormFrom(s)
				data.Editing = id
			}
		}
	}
	return c.Render(http.StatusOK, "services", newPage(c, "Services", domain.FeatureServices, data))
}

// Create handles POST /services.
func (h *ServiceHandler) Create(c echo.Context) error {
	var form serviceForm
	if err := bindForm(c, &form); err != nil {
		return h.renderError(c, form, 0, err)
	}
	if _, err := h.records.CreateService(c.Request().Context(), ctxSID(c), form.toService()); err != nil {
		return h.renderError(c, form, 0, err)
	}
	return seeOther(c, "/services", "created")
}

// Update handles POST /services/:id.
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form serviceForm
	if err := bindForm(c, &form); err != nil {
		return h.renderError(c, form, id, err)
	}
	if _, err := h.records.UpdateService(c.Request().Context(), ctxSID(c), id, form.toService()); err != nil {
		return h.renderError(c, form, id, err)
	}
	return seeOther(c, "/services", "updated")
}

// Delete handles POST /services/:id/delete.
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.records.DeleteService(c.Request().Context(), ctxSID(c), id); err != nil {
		return h.renderError(c, serviceForm{}, 0, err)
	}
	return seeOther(c, "/services", "deleted")
}

func (h *ServiceHandler) load(c echo.Context) (*servicesData, error) {
	var data servicesData
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		data.Services, err = h.records.ListServices(ctx, ctxSID(c))
		return err
	})
	g.Go(func() error {
		var err error
		data.Clients, err = h.records.ListClients(ctx, ctxSID(c))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

func (h *ServiceHandler) renderError(c echo.Context, form serviceForm, editing int64, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}
	data, err := h.load(c)
	if err != nil {
		return err
	}
	data.Form = form
	data.Editing = editing

	page := newPage(c, "Services", domain.FeatureServices, data)
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "services", page)
}
