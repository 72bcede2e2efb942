package domain

import (
	"fmt"
	"strings"
)

// Entity records exchanged with the clinic backend. The front end only
// encodes and decodes them; shape checks belong to the backend. Timestamps are
// kept as the strings the backend emits (ISO local date-times without zone).

// Client is a pet owner registered at the clinic.
type Client struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	CPF          string `json:"cpf"`
	Address      string `json:"address"`
	City         string `json:"city"`
	EmailAddress string `json:"emailAddress"`
	PhoneNumber  string `json:"phoneNumber"`
}

// FullName joins first and last name.
func (c Client) FullName() string {
	if c.Lastname == "" {
		return c.Name
	}
	return c.Name + " " + c.Lastname
}

// ClientFilter holds the optional search criteria for /clients/search.
type ClientFilter struct {
	Name string
	CPF  string
	City string
}

// Service is one attendance record for a client's pet.
type Service struct {
	ID          int64   `json:"id,omitempty"`
	Pet         string  `json:"pet"`
	Client      *Client `json:"client,omitempty"`
	Severity    string  `json:"severity"`
	Amount      float64 `json:"amount"`
	CreatedDate string  `json:"createdDate,omitempty"`
	UpdatedDate string  `json:"updatedDate,omitempty"`
}

// ClientID returns the referenced client id, or zero.
func (s Service) ClientID() int64 {
	if s.Client == nil {
		return 0
	}
	return s.Client.ID
}

// Product is a stock-keeping item.
type Product struct {
	ID            int64   `json:"id,omitempty"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	MinStock      int     `json:"minStock"`
	StockQuantity int     `json:"stockQuantity"`
}

// LowStock reports whether the product is at or under its minimum.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.MinStock
}

// LowStockProducts keeps the products at or under their minimum, in order.
func LowStockProducts(products []Product) []Product {
	var out []Product
	for _, p := range products {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out
}

// ProductFilter narrows the products tab. Query matches name or category,
// case-insensitively; Category must match exactly when set.
type ProductFilter struct {
	Query    string
	Category string
}

// Match reports whether p passes the filter.
func (f ProductFilter) Match(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q)
}

// FilterProducts keeps the products matching f, in order.
func FilterProducts(products []Product, f ProductFilter) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct product categories in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement records a change in a product's quantity.
type StockMovement struct {
	ID          int64        `json:"id,omitempty"`
	Product     *Product     `json:"product,omitempty"`
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"`
	UnitPrice   float64      `json:"unitPrice"`
	Supplier    string       `json:"supplier"`
	Notes       string       `json:"notes"`
	CreatedBy   string       `json:"createdBy,omitempty"`
	CreatedDate string       `json:"createdDate,omitempty"`
}

// MovementRequest is the body accepted by POST /stock-movements.
type MovementRequest struct {
	ProductID int64        `json:"productId"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	UnitPrice float64      `json:"unitPrice"`
	Supplier  string       `json:"supplier"`
	Notes     string       `json:"notes"`
}

// CheckStock reports ErrInsufficientStock when an OUT movement asks for more
// than p currently holds.
func CheckStock(p Product, m MovementRequest) error {
	if m.Type == MovementOut && m.Quantity > p.StockQuantity {
		return fmt.Errorf("%w: current stock is %d", ErrInsufficientStock, p.StockQuantity)
	}
	return nil
}

// Expense is a clinic cost entry.
type Expense struct {
	ID          int64   `json:"id,omitempty"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	ExpenseDate string  `json:"expenseDate"`
	Supplier    string  `json:"supplier"`
	Notes       string  `json:"notes"`
	CreatedBy   string  `json:"createdBy,omitempty"`
}

// ExpenseCategories are the categories offered by the cost form.
var ExpenseCategories = []string{
	"Stock/Products",
	"Fuel",
	"Vehicle Maintenance",
	"Salaries",
	"Veterinary Fees",
	"Other",
}

// TotalAmount sums the amounts of expenses.
func TotalAmount(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// StaffUser is an account managed from the users screen.
type StaffUser struct {
	ID          int64  `json:"id,omitempty"`
	Username    string `json:"username"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Enabled     bool   `json:"enabled"`
	PasswordSet bool   `json:"passwordSet"`
}

// StaffUserRequest is the body accepted by POST/PUT /users.
type StaffUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
