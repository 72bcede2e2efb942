package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// ClientHandler serves client registration, search and the client profile.
type ClientHandler struct {
	records ports.RecordsService
}

func NewClientHandler(records ports.RecordsService) *ClientHandler {
	return &ClientHandler{records: records}
}

type searchData struct {
	Filter   domain.ClientFilter
	Clients  []domain.Client
	Searched bool
}

type profileData struct {
	Client   domain.Client
	Services []domain.Service
}

// Register handles POST /.
func (h *ClientHandler) Register(c echo.Context) error {
	var form clientForm
	if err := bindForm(c, &form); err != nil {
		return h.renderRegister(c, form, err)
	}

	created, err := h.records.CreateClient(c.Request().Context(), ctxSID(c), form.toClient())
	if err != nil {
		return h.renderRegister(c, form, err)
	}

	page := newPage(c, "Register Client", domain.FeatureRegisterClient, registerData{Created: created})
	page.Notice = "Client registered."
	return c.Render(http.StatusCreated, "register", page)
}

func (h *ClientHandler) renderRegister(c echo.Context, form clientForm, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}
	page := newPage(c, "Register Client", domain.FeatureRegisterClient, registerData{Form: form})
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "register", page)
}

// Search handles GET /search. The backend is only called once at least one
// criterion is given.
func (h *ClientHandler) Search(c echo.Context) error {
	var q clientSearchForm
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	data := searchData{Filter: domain.ClientFilter{Name: q.Name, CPF: q.CPF, City: q.City}}
	page := newPage(c, "Search Clients", domain.FeatureSearchClients, &data)

	if data.Filter != (domain.ClientFilter{}) {
		clients, err := h.records.SearchClients(c.Request().Context(), ctxSID(c), data.Filter)
		if err != nil {
			msg, ferr := inlineError(c, err)
			if ferr != nil {
				return ferr
			}
			page.Error = msg
		}
		data.Clients = clients
		data.Searched = err == nil
	}

	return c.Render(http.StatusOK, "search", page)
}

// Profile handles GET /clients/:id.
func (h *ClientHandler) Profile(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	profile, err := h.records.ClientProfile(c.Request().Context(), ctxSID(c), id)
	if err != nil {
		return err
	}

	title := profile.Client.FullName()
	return c.Render(http.StatusOK, "profile", newPage(c, title, domain.FeatureClientProfile, profileData{
		Client:   profile.Client,
		Services: profile.Services,
	}))
}

// Update handles POST /clients/:id.
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var form clientForm
	if err := bindForm(c, &form); err != nil {
		return h.renderProfileError(c, id, form, err)
	}

	if _, err := h.records.UpdateClient(c.Request().Context(), ctxSID(c), id, form.toClient()); err != nil {
		return h.renderProfileError(c, id, form, err)
	}
	return seeOther(c, "/clients/"+c.Param("id"), "updated")
}

// renderProfileError shows the submitted values with the error next to the
// client's current services.
func (h *ClientHandler) renderProfileError(c echo.Context, id int64, form clientForm, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}

	client := form.toClient()
	client.ID = id
	data := profileData{Client: client}
	if profile, perr := h.records.ClientProfile(c.Request().Context(), ctxSID(c), id); perr == nil {
		data.Services = profile.Services
	}

	page := newPage(c, client.FullName(), domain.FeatureClientProfile, data)
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "profile", page)
}
