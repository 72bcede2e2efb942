package handler

import "github.com/salvaclients/vet-admin/internal/core/domain"

// errorResponse is the error envelope of the JSON session API.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Forms ---

type loginForm struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type clientForm struct {
	Name         string `form:"name"         validate:"required"`
	Lastname     string `form:"lastname"     validate:"required"`
	CPF          string `form:"cpf"          validate:"required"`
	Address      string `form:"address"`
	City         string `form:"city"         validate:"required"`
	EmailAddress string `form:"emailAddress" validate:"omitempty,email"`
	PhoneNumber  string `form:"phoneNumber"`
}

type clientSearchForm struct {
	Name string `query:"name"`
	CPF  string `query:"cpf"`
	City string `query:"city"`
}

type serviceForm struct {
	ClientID int64   `form:"clientId" validate:"required,gt=0"`
	Pet      string  `form:"pet"      validate:"required"`
	Severity string  `form:"severity" validate:"required"`
	Amount   float64 `form:"amount"   validate:"gte=0"`
}

type productForm struct {
	Name        string  `form:"name"        validate:"required"`
	Category    string  `form:"category"    validate:"required"`
	Description string  `form:"description"`
	Price       float64 `form:"price"       validate:"gte=0"`
	MinStock    int     `form:"minStock"    validate:"gte=0"`
}

type movementForm struct {
	ProductID int64   `form:"productId" validate:"required,gt=0"`
	Type      string  `form:"type"      validate:"required,oneof=IN OUT"`
	Quantity  int     `form:"quantity"  validate:"required,gt=0"`
	UnitPrice float64 `form:"unitPrice" validate:"gte=0"`
	Supplier  string  `form:"supplier"`
	Notes     string  `form:"notes"`
}

type expenseForm struct {
	Category    string  `form:"category"    validate:"required"`
	Description string  `form:"description" validate:"required"`
	Amount      float64 `form:"amount"      validate:"required,gt=0"`
	ExpenseDate string  `form:"expenseDate" validate:"required,datetime=2006-01-02"`
	Supplier    string  `form:"supplier"`
	Notes       string  `form:"notes"`
	Month       string  `form:"month"`
}

type userForm struct {
	Username string `form:"username" validate:"required"`
	FullName string `form:"fullName" validate:"required"`
	Email    string `form:"email"    validate:"required,email"`
	Role     string `form:"role"     validate:"required,oneof=ADMIN VETERINARIAN RECEPTIONIST"`
}

// passwordForm leaves the length and confirmation checks to the session
// service so the mismatch is always reported first.
type passwordForm struct {
	CurrentPassword string `form:"currentPassword" validate:"required"`
	NewPassword     string `form:"newPassword"`
	ConfirmPassword string `form:"confirmPassword"`
}

// --- JSON session API ---

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.User     `json:"user,omitempty"`
	Navigation    []navigationLink `json:"navigation"`
}

type navigationLink struct {
	Feature string `json:"feature"`
	Path    string `json:"path"`
	Label   string `json:"label"`
}

// --- Form → record ---

func (f clientForm) toClient() domain.Client {
	return domain.Client{
		Name:         f.Name,
		Lastname:     f.Lastname,
		CPF:          f.CPF,
		Address:      f.Address,
		City:         f.City,
		EmailAddress: f.EmailAddress,
		PhoneNumber:  f.PhoneNumber,
	}
}

func (f serviceForm) toService() domain.Service {
	return domain.Service{
		Pet:      f.Pet,
		Client:   &domain.Client{ID: f.ClientID},
		Severity: f.Severity,
		Amount:   f.Amount,
	}
}

func serviceFormFrom(s domain.Service) serviceForm {
	return serviceForm{ClientID: s.ClientID(), Pet: s.Pet, Severity: s.Severity, Amount: s.Amount}
}

func (f productForm) toProduct() domain.Product {
	return domain.Product{
		Name:        f.Name,
		Category:    f.Category,
		Description: f.Description,
		Price:       f.Price,
		MinStock:    f.MinStock,
	}
}

func productFormFrom(p domain.Product) productForm {
	return productForm{Name: p.Name, Category: p.Category, Description: p.Description, Price: p.Price, MinStock: p.MinStock}
}

func (f movementForm) toRequest() domain.MovementRequest {
	return domain.MovementRequest{
		ProductID: f.ProductID,
		Type:      domain.MovementType(f.Type),
		Quantity:  f.Quantity,
		UnitPrice: f.UnitPrice,
		Supplier:  f.Supplier,
		Notes:     f.Notes,
	}
}

func (f expenseForm) toExpense() domain.Expense {
	return domain.Expense{
		Category:    f.Category,
		Description: f.Description,
		Amount:      f.Amount,
		ExpenseDate: f.ExpenseDate,
		Supplier:    f.Supplier,
		Notes:       f.Notes,
	}
}

func expenseFormFrom(e domain.Expense) expenseForm {
	return expenseForm{
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		Supplier:    e.Supplier,
		Notes:       e.Notes,
	}
}

func (f userForm) toRequest() domain.StaffUserRequest {
	return domain.StaffUserRequest{
		Username: f.Username,
		FullName: f.FullName,
		Email:    f.Email,
		Role:     domain.Role(f.Role),
	}
}

func userFormFrom(u domain.StaffUser) userForm {
	return userForm{Username: u.Username, FullName: u.FullName, Email: u.Email, Role: string(u.Role)}
}

func navigationFor(session *domain.Session) []navigationLink {
	entries := domain.Navigation(session)
	out := make([]navigationLink, 0, len(entries))
	for _, e := range entries {
		out = append(out, navigationLink{Feature: string(e.Feature), Path: e.Path, Label: e.Label})
	}
	return out
}
