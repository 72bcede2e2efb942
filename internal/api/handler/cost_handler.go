package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// CostHandler serves the monthly expenses screen.
type CostHandler struct {
	records ports.RecordsService
}

func NewCostHandler(records ports.RecordsService) *CostHandler {
	return &CostHandler{records: records}
}

type costsData struct {
	View       *ports.CostsView
	Categories []string
	Form       expenseForm
	Editing    int64
}

func costsPath(month string) string {
	if month == "" {
		return "/costs"
	}
	return "/costs?month=" + url.QueryEscape(month)
}

// Show handles GET /costs?month=YYYY-MM&edit=<id>. An unreadable month falls
// back to the current one.
func (h *CostHandler) Show(c echo.Context) error {
	month := c.QueryParam("month")
	monthErr := ""
	if _, err := time.Parse("2006-01", month); month != "" && err != nil {
		monthErr = domain.ErrInvalidMonth.Error()
		month = ""
	}

	view, err := h.records.Costs(c.Request().Context(), ctxSID(c), month)
	if err != nil {
		return err
	}

	data := &costsData{View: view, Categories: domain.ExpenseCategories}
	if id := queryID(c, "edit"); id > 0 {
		for _, e := range view.Expenses {
			if e.ID == id {
				data.Form = expenseFormFrom(e)
				data.Editing = id
			}
		}
	}

	page := newPage(c, "Costs", domain.FeatureCosts, data)
	page.Error = monthErr
	return c.Render(http.StatusOK, "costs", page)
}

// Create handles POST /costs.
func (h *CostHandler) Create(c echo.Context) error {
	var form expenseForm
	if err := bindForm(c, &form); err != nil {
		return h.renderError(c, form, 0, err)
	}
	if _, err := h.records.CreateExpense(c.Request().Context(), ctxSID(c), form.toExpense()); err != nil {
		return h.renderError(c, form, 0, err)
	}
	return seeOther(c, costsPath(form.Month), "created")
}

// Update handles POST /costs/:id.
func (h *CostHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form expenseForm
	if err := bindForm(c, &form); err != nil {
		return h.renderError(c, form, id, err)
	}
	if _, err := h.records.UpdateExpense(c.Request().Context(), ctxSID(c), id, form.toExpense()); err != nil {
		return h.renderError(c, form, id, err)
	}
	return seeOther(c, costsPath(form.Month), "updated")
}

// Delete handles POST /costs/:id/delete.
func (h *CostHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	month := c.FormValue("month")
	if err := h.records.DeleteExpense(c.Request().Context(), ctxSID(c), id); err != nil {
		return h.renderError(c, expenseForm{Month: month}, 0, err)
	}
	return seeOther(c, costsPath(month), "deleted")
}

func (h *CostHandler) renderError(c echo.Context, form expenseForm, editing int64, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}
	view, err := h.records.Costs(c.Request().Context(), ctxSID(c), form.Month)
	if err != nil {
		return err
	}

	page := newPage(c, "Costs", domain.FeatureCosts, &costsData{
		View:       view,
		Categories: domain.ExpenseCategories,
		Form:       form,
		Editing:    editing,
	})
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "costs", page)
}
