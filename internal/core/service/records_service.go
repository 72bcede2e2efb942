package service

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
)

const monthLayout = "2006-01"

// RecordsService implements ports.RecordsService on top of the gateway.
// Records are passed through as the backend shapes them.
type RecordsService struct {
	gateway ports.Gateway
	log     zerolog.Logger
	now     func() time.Time
}

var _ ports.RecordsService = (*RecordsService)(nil)

func NewRecordsService(gateway ports.Gateway, log zerolog.Logger) *RecordsService {
	return &RecordsService{gateway: gateway, log: log, now: time.Now}
}

// call issues one request and decodes a 2xx body into out (when non-nil).
// Non-2xx answers come back as *domain.BackendError.
func (s *RecordsService) call(ctx context.Context, sid, method, path string, query url.Values, body, out any) error {
	resp, err := s.gateway.Do(ctx, sid, path, ports.Request{Method: method, Query: query, Body: body})
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		s.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("backend rejected request")
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := resp.DecodeJSON(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func idPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (s *RecordsService) ListClients(ctx context.Context, sid string) ([]domain.Client, error) {
	var out []domain.Client
	if err := s.call(ctx, sid, http.MethodGet, "/clients", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchClients sends only the criteria that are set.
func (s *RecordsService) SearchClients(ctx context.Context, sid string, f domain.ClientFilter) ([]domain.Client, error) {
	q := url.Values{}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.CPF != "" {
		q.Set("cpf", f.CPF)
	}
	if f.City != "" {
		q.Set("city", f.City)
	}

	var out []domain.Client
	if err := s.call(ctx, sid, http.MethodGet, "/clients/search", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecordsService) GetClient(ctx context.Context, sid string, id int64) (*domain.Client, error) {
	var out domain.Client
	if err := s.call(ctx, sid, http.MethodGet, idPath("/clients", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) CreateClient(ctx context.Context, sid string, c domain.Client) (*domain.Client, error) {
	c.ID = 0
	var out domain.Client
	if err := s.call(ctx, sid, http.MethodPost, "/clients", nil, c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) UpdateClient(ctx context.Context, sid string, id int64, c domain.Client) (*domain.Client, error) {
	c.ID = id
	var out domain.Client
	if err := s.call(ctx, sid, http.MethodPut, idPath("/clients", id), nil, c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClientProfile loads the client and the services that reference it
// concurrently. The backend has no per-client services endpoint, so the full
// list is filtered here.
func (s *RecordsService) ClientProfile(ctx context.Context, sid string, id int64) (*ports.ClientProfile, error) {
	var (
		client   *domain.Client
		services []domain.Service
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		client, err = s.GetClient(gctx, sid, id)
		return err
	})
	g.Go(func() error {
		all, err := s.ListServices(gctx, sid)
		if err != nil {
			return err
		}
		for _, svc := range all {
			if svc.ClientID() == id {
				services = append(services, svc)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ports.ClientProfile{Client: *client, Services: services}, nil
}

// ── Services ──────────────────────────────────────────────────────────────────

func (s *RecordsService) ListServices(ctx context.Context, sid string) ([]domain.Service, error) {
	var out []domain.Service
	if err := s.call(ctx, sid, http.MethodGet, "/services", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecordsService) CreateService(ctx context.Context, sid string, svc domain.Service) (*domain.Service, error) {
	svc.ID = 0
	var out domain.Service
	if err := s.call(ctx, sid, http.MethodPost, "/services", nil, svc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) UpdateService(ctx context.Context, sid string, id int64, svc domain.Service) (*domain.Service, error) {
	svc.ID = id
	var out domain.Service
	if err := s.call(ctx, sid, http.MethodPut, idPath("/services", id), nil, svc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) DeleteService(ctx context.Context, sid string, id int64) error {
	return s.call(ctx, sid, http.MethodDelete, idPath("/services", id), nil, nil, nil)
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *RecordsService) ListProducts(ctx context.Context, sid string) ([]domain.Product, error) {
	var out []domain.Product
	if err := s.call(ctx, sid, http.MethodGet, "/products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecordsService) GetProduct(ctx context.Context, sid string, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := s.call(ctx, sid, http.MethodGet, idPath("/products", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct always starts the product with zero stock; quantities only
// change through movements.
func (s *RecordsService) CreateProduct(ctx context.Context, sid string, p domain.Product) (*domain.Product, error) {
	p.ID = 0
	p.StockQuantity = 0
	var out domain.Product
	if err := s.call(ctx, sid, http.MethodPost, "/products", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct writes the editable fields and keeps the stock quantity the
// backend currently holds.
func (s *RecordsService) UpdateProduct(ctx context.Context, sid string, id int64, p domain.Product) (*domain.Product, error) {
	current, err := s.GetProduct(ctx, sid, id)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.StockQuantity = current.StockQuantity
	var out domain.Product
	if err := s.call(ctx, sid, http.MethodPut, idPath("/products", id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) DeleteProduct(ctx context.Context, sid string, id int64) error {
	return s.call(ctx, sid, http.MethodDelete, idPath("/products", id), nil, nil, nil)
}

// ListMovements returns movements newest first.
func (s *RecordsService) ListMovements(ctx context.Context, sid string) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	if err := s.call(ctx, sid, http.MethodGet, "/stock-movements", nil, nil, &out); err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b domain.StockMovement) int {
		if c := cmp.Compare(b.CreatedDate, a.CreatedDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

// RecordMovement refuses an OUT movement larger than the product's stock
// without posting it.
func (s *RecordsService) RecordMovement(ctx context.Context, sid string, m domain.MovementRequest) (*domain.StockMovement, error) {
	if m.Type == domain.MovementOut {
		product, err := s.GetProduct(ctx, sid, m.ProductID)
		if err != nil {
			return nil, err
		}
		if err := domain.CheckStock(*product, m); err != nil {
			return nil, err
		}
	}

	var out domain.StockMovement
	if err := s.call(ctx, sid, http.MethodPost, "/stock-movements", nil, m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Inventory loads products and movements concurrently for the tabbed screen.
func (s *RecordsService) Inventory(ctx context.Context, sid string) (*ports.InventoryView, error) {
	var view ports.InventoryView

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.Products, err = s.ListProducts(gctx, sid)
		return err
	})
	g.Go(func() error {
		var err error
		view.Movements, err = s.ListMovements(gctx, sid)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view.LowStock = domain.LowStockProducts(view.Products)
	return &view, nil
}

// ── Costs ─────────────────────────────────────────────────────────────────────

// Costs lists the expenses of month (YYYY-MM); empty means the current month.
func (s *RecordsService) Costs(ctx context.Context, sid, month string) (*ports.CostsView, error) {
	if month == "" {
		month = s.now().Format(monthLayout)
	}
	if _, err := time.Parse(monthLayout, month); err != nil {
		return nil, domain.ErrInvalidMonth
	}

	var expenses []domain.Expense
	if err := s.call(ctx, sid, http.MethodGet, "/expenses", url.Values{"month": {month}}, nil, &expenses); err != nil {
		return nil, err
	}
	return &ports.CostsView{
		Month:    month,
		Expenses: expenses,
		Total:    domain.TotalAmount(expenses),
	}, nil
}

func (s *RecordsService) CreateExpense(ctx context.Context, sid string, e domain.Expense) (*domain.Expense, error) {
	e.ID = 0
	var out domain.Expense
	if err := s.call(ctx, sid, http.MethodPost, "/expenses", nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) UpdateExpense(ctx context.Context, sid string, id int64, e domain.Expense) (*domain.Expense, error) {
	e.ID = id
	var out domain.Expense
	if err := s.call(ctx, sid, http.MethodPut, idPath("/expenses", id), nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) DeleteExpense(ctx context.Context, sid string, id int64) error {
	return s.call(ctx, sid, http.MethodDelete, idPath("/expenses", id), nil, nil, nil)
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *RecordsService) ListUsers(ctx context.Context, sid string) ([]domain.StaffUser, error) {
	var out []domain.StaffUser
	if err := s.call(ctx, sid, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecordsService) CreateUser(ctx context.Context, sid string, u domain.StaffUserRequest) (*domain.StaffUser, error) {
	var out domain.StaffUser
	if err := s.call(ctx, sid, http.MethodPost, "/users", nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) UpdateUser(ctx context.Context, sid string, id int64, u domain.StaffUserRequest) (*domain.StaffUser, error) {
	var out domain.StaffUser
	if err := s.call(ctx, sid, http.MethodPut, idPath("/users", id), nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleUser flips the enabled flag of a user.
func (s *RecordsService) ToggleUser(ctx context.Context, sid string, id int64) (*domain.StaffUser, error) {
	var out domain.StaffUser
	if err := s.call(ctx, sid, http.MethodPut, idPath("/users", id)+"/toggle", nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RecordsService) DeleteUser(ctx context.Context, sid string, id int64) error {
	return s.call(ctx, sid, http.MethodDelete, idPath("/users", id), nil, nil, nil)
}
