package ports

import (
	"context"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

// ClientProfile is the client detail screen: the client and its services.
type ClientProfile struct {
	Client   domain.Client
	Services []domain.Service
}

// InventoryView backs the tabbed inventory screen.
type InventoryView struct {
	Products  []domain.Product
	Movements []domain.StockMovement // newest first
	LowStock  []domain.Product
}

// CostsView backs the costs screen for one month (YYYY-MM).
type CostsView struct {
	Month    string
	Expenses []domain.Expense
	Total    float64
}

// RecordsService performs the entity screens' backend calls on behalf of a
// session id. Every method may return domain.ErrSessionExpired.
type RecordsService interface {
	ListClients(ctx context.Context, sid string) ([]domain.Client, error)
	SearchClients(ctx context.Context, sid string, filter domain.ClientFilter) ([]domain.Client, error)
	GetClient(ctx context.Context, sid string, id int64) (*domain.Client, error)
	CreateClient(ctx context.Context, sid string, c domain.Client) (*domain.Client, error)
	UpdateClient(ctx context.Context, sid string, id int64, c domain.Client) (*domain.Client, error)
	ClientProfile(ctx context.Context, sid string, id int64) (*ClientProfile, error)

	ListServices(ctx context.Context, sid string) ([]domain.Service, error)
	CreateService(ctx context.Context, sid string, s domain.Service) (*domain.Service, error)
	UpdateService(ctx context.Context, sid string, id int64, s domain.Service) (*domain.Service, error)
	DeleteService(ctx context.Context, sid string, id int64) error

	ListProducts(ctx context.Context, sid string) ([]domain.Product, error)
	GetProduct(ctx context.Context, sid string, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, sid string, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, sid string, id int64, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, sid string, id int64) error
	ListMovements(ctx context.Context, sid string) ([]domain.StockMovement, error)
	RecordMovement(ctx context.Context, sid string, m domain.MovementRequest) (*domain.StockMovement, error)
	Inventory(ctx context.Context, sid string) (*InventoryView, error)

	Costs(ctx context.Context, sid, month string) (*CostsView, error)
	CreateExpense(ctx context.Context, sid string, e domain.Expense) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, sid string, id int64, e domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, sid string, id int64) error

	ListUsers(ctx context.Context, sid string) ([]domain.StaffUser, error)
	CreateUser(ctx context.Context, sid string, u domain.StaffUserRequest) (*domain.StaffUser, error)
	UpdateUser(ctx context.Context, sid string, id int64, u domain.StaffUserRequest) (*domain.StaffUser, error)
	ToggleUser(ctx context.Context, sid string, id int64) (*domain.StaffUser, error)
	DeleteUser(ctx context.Context, sid string, id int64) error
}
