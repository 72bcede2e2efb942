package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

var errNoCriteria = errors.New("give at least one of --name, --cpf, --city")

func parseID(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return v, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func clientsTable(clients []domain.Client) *table {
	tbl := &table{Headers: []string{"ID", "NAME", "CPF", "CITY", "EMAIL", "PHONE"}}
	for _, c := range clients {
		tbl.add(id(c.ID), c.FullName(), c.CPF, c.City, c.EmailAddress, c.PhoneNumber)
	}
	return tbl
}

func servicesTable(services []domain.Service) *table {
	tbl := &table{Headers: []string{"ID", "PET", "CLIENT", "SEVERITY", "AMOUNT", "CREATED"}}
	for _, s := range services {
		client := ""
		if s.Client != nil {
			client = s.Client.FullName()
		}
		tbl.add(id(s.ID), s.Pet, client, s.Severity, money(s.Amount), s.CreatedDate)
	}
	return tbl
}

func newClientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "clients", Short: "Clinic clients"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all clients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients, err := app.Records.ListClients(cmd.Context(), app.profile)
			if err != nil {
				return err
			}
			return app.printer().print(clients, clientsTable(clients))
		},
	}

	var filter domain.ClientFilter
	search := &cobra.Command{
		Use:   "search",
		Short: "Search clients by name, CPF or city",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filter == (domain.ClientFilter{}) {
				return errNoCriteria
			}
			clients, err := app.Records.SearchClients(cmd.Context(), app.profile, filter)
			if err != nil {
				return err
			}
			return app.printer().print(clients, clientsTable(clients))
		},
	}
	search.Flags().StringVar(&filter.Name, "name", "", "name contains")
	search.Flags().StringVar(&filter.CPF, "cpf", "", "CPF")
	search.Flags().StringVar(&filter.City, "city", "", "city")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a client and its services",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := parseID(args[0])
			if err != nil {
				return err
			}
			profile, err := app.Records.ClientProfile(cmd.Context(), app.profile, cid)
			if err != nil {
				return err
			}
			if app.format != FormatTable {
				return app.printer().print(profile, nil)
			}
			if err := app.printer().print(nil, clientsTable([]domain.Client{profile.Client})); err != nil {
				return err
			}
			app.notify("")
			return app.printer().print(nil, servicesTable(profile.Services))
		},
	}

	cmd.AddCommand(list, search, get)
	return cmd
}

func newServicesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "services", Short: "Veterinary services"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List services",
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, err := app.Records.ListServices(cmd.Context(), app.profile)
			if err != nil {
				return err
			}
			return app.printer().print(services, servicesTable(services))
		},
	})
	return cmd
}

func newProductsCmd(app *App) *cobra.Command {
	var filter domain.ProductFilter
	var lowOnly bool

	cmd := &cobra.Command{Use: "products", Short: "Inventory products"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := app.Records.ListProducts(cmd.Context(), app.profile)
			if err != nil {
				return err
			}
			products = domain.FilterProducts(products, filter)
			if lowOnly {
				products = domain.LowStockProducts(products)
			}

			tbl := &table{Headers: []string{"ID", "NAME", "CATEGORY", "PRICE", "STOCK", "MIN", "STATUS"}}
			for _, p := range products {
				status := "OK"
				if p.LowStock() {
					status = "LOW"
				}
				tbl.add(id(p.ID), p.Name, p.Category, money(p.Price), strconv.Itoa(p.StockQuantity), strconv.Itoa(p.MinStock), status)
			}
			return app.printer().print(products, tbl)
		},
	}
	list.Flags().StringVarP(&filter.Query, "query", "q", "", "name or description contains")
	list.Flags().StringVar(&filter.Category, "category", "", "exact category")
	list.Flags().BoolVar(&lowOnly, "low", false, "only products at or below minimum stock")
	cmd.AddCommand(list)
	return cmd
}

func newMovementsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "movements", Short: "Stock movements"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stock movements, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			movements, err := app.Records.ListMovements(cmd.Context(), app.profile)
			if err != nil {
				return err
			}
			tbl := &table{Headers: []string{"ID", "DATE", "PRODUCT", "TYPE", "QTY", "UNIT PRICE", "SUPPLIER", "BY"}}
			for _, m := range movements {
				product := ""
				if m.Product != nil {
					product = m.Product.Name
				}
				tbl.add(id(m.ID), m.CreatedDate, product, string(m.Type), strconv.Itoa(m.Quantity), money(m.UnitPrice), m.Supplier, m.CreatedBy)
			}
			return app.printer().print(movements, tbl)
		},
	})
	return cmd
}

func newExpensesCmd(app *App) *cobra.Command {
	var month string

	cmd := &cobra.Command{Use: "expenses", Short: "Clinic expenses"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List a month's expenses and total",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := app.Records.Costs(cmd.Context(), app.profile, month)
			if err != nil {
				return err
			}
			tbl := &table{Headers: []string{"ID", "DATE", "CATEGORY", "DESCRIPTION", "AMOUNT", "SUPPLIER"}}
			for _, e := range view.Expenses {
				tbl.add(id(e.ID), e.ExpenseDate, e.Category, e.Description, money(e.Amount), e.Supplier)
			}
			if len(tbl.Rows) > 0 {
				tbl.add("", "", "", "TOTAL "+view.Month, money(view.Total), "")
			}
			return app.printer().print(view, tbl)
		},
	}
	list.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default current month)")
	cmd.AddCommand(list)
	return cmd
}

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Staff accounts"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List staff users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := app.Records.ListUsers(cmd.Context(), app.profile)
			if err != nil {
				return err
			}
			tbl := &table{Headers: []string{"ID", "USERNAME", "NAME", "EMAIL", "ROLE", "STATUS"}}
			for _, u := range users {
				status := "active"
				if !u.Enabled {
					status = "disabled"
				}
				tbl.add(id(u.ID), u.Username, u.FullName, u.Email, u.Role.Label(), status)
			}
			return app.printer().print(users, tbl)
		},
	})
	return cmd
}
