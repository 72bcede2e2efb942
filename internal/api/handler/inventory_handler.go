package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

// Inventory tabs.
const (
	tabProducts  = "products"
	tabMovements = "movements"
	tabStock     = "stock"
)

// InventoryHandler serves the tabbed inventory screen.
type InventoryHandler struct {
	records ports.RecordsService
}

func NewInventoryHandler(records ports.RecordsService) *InventoryHandler {
	return &InventoryHandler{records: records}
}

type inventoryData struct {
	Tab          string
	Products     []domain.Product
	Movements    []domain.StockMovement
	LowStock     []domain.Product
	Categories   []string
	Filter       domain.ProductFilter
	ProductForm  productForm
	MovementForm movementForm
	Editing      int64
}

func tabOf(c echo.Context) string {
	switch tab := c.QueryParam("tab"); tab {
	case tabMovements, tabStock:
		return tab
	default:
		return tabProducts
	}
}

// Show handles GET /inventory?tab=&q=&category=&edit=.
func (h *InventoryHandler) Show(c echo.Context) error {
	data, err := h.load(c, tabOf(c))
	if err != nil {
		return err
	}
	if id := queryID(c, "edit"); id > 0 {
		for _, p := range data.Products {
			if p.ID == id {
				data.ProductForm = productFormFrom(p)
				data.Editing = id
			}
		}
	}
	return c.Render(http.StatusOK, "inventory", newPage(c, "Inventory", domain.FeatureInventory, data))
}

// CreateProduct handles POST /inventory/products.
func (h *InventoryHandler) CreateProduct(c echo.Context) error {
	var form productForm
	if err := bindForm(c, &form); err != nil {
		return h.renderProductError(c, form, 0, err)
	}
	if _, err := h.records.CreateProduct(c.Request().Context(), ctxSID(c), form.toProduct()); err != nil {
		return h.renderProductError(c, form, 0, err)
	}
	return seeOther(c, "/inventory?tab=products", "created")
}

// UpdateProduct handles POST /inventory/products/:id. The stock quantity is
// kept as the backend has it.
func (h *InventoryHandler) UpdateProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var form productForm
	if err := bindForm(c, &form); err != nil {
		return h.renderProductError(c, form, id, err)
	}

	if _, err := h.records.UpdateProduct(c.Request().Context(), ctxSID(c), id, form.toProduct()); err != nil {
		return h.renderProductError(c, form, id, err)
	}
	return seeOther(c, "/inventory?tab=products", "updated")
}

// DeleteProduct handles POST /inventory/products/:id/delete.
func (h *InventoryHandler) DeleteProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.records.DeleteProduct(c.Request().Context(), ctxSID(c), id); err != nil {
		return h.renderProductError(c, productForm{}, 0, err)
	}
	return seeOther(c, "/inventory?tab=products", "deleted")
}

// RecordMovement handles POST /inventory/movements.
func (h *InventoryHandler) RecordMovement(c echo.Context) error {
	var form movementForm
	if err := bindForm(c, &form); err != nil {
		return h.renderMovementError(c, form, err)
	}
	if _, err := h.records.RecordMovement(c.Request().Context(), ctxSID(c), form.toRequest()); err != nil {
		return h.renderMovementError(c, form, err)
	}
	return seeOther(c, "/inventory?tab=movements", "created")
}

func (h *InventoryHandler) load(c echo.Context, tab string) (*inventoryData, error) {
	view, err := h.records.Inventory(c.Request().Context(), ctxSID(c))
	if err != nil {
		return nil, err
	}

	filter := domain.ProductFilter{Query: c.QueryParam("q"), Category: c.QueryParam("category")}
	data := &inventoryData{
		Tab:          tab,
		Products:     view.Products,
		Movements:    view.Movements,
		LowStock:     view.LowStock,
		Categories:   domain.Categories(view.Products),
		Filter:       filter,
		MovementForm: movementForm{Type: string(domain.MovementIn)},
	}
	if tab == tabProducts {
		data.Products = domain.FilterProducts(view.Products, filter)
	}
	return data, nil
}

func (h *InventoryHandler) renderProductError(c echo.Context, form productForm, editing int64, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}
	data, err := h.load(c, tabProducts)
	if err != nil {
		return err
	}
	data.ProductForm = form
	data.Editing = editing

	page := newPage(c, "Inventory", domain.FeatureInventory, data)
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "inventory", page)
}

func (h *InventoryHandler) renderMovementError(c echo.Context, form movementForm, cause error) error {
	msg, err := inlineError(c, cause)
	if err != nil {
		return err
	}
	data, err := h.load(c, tabMovements)
	if err != nil {
		return err
	}
	data.MovementForm = form

	page := newPage(c, "Inventory", domain.FeatureInventory, data)
	page.Error = msg
	return c.Render(http.StatusUnprocessableEntity, "inventory", page)
}
