// Package cli implements vetctl, a terminal client for the clinic backend
// sharing the front end's session and gateway layers.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/core/ports"
	"github.com/salvaclients/vet-admin/internal/core/service"
	"github.com/salvaclients/vet-admin/internal/infrastructure/filestore"
	"github.com/salvaclients/vet-admin/internal/infrastructure/gateway"
	"github.com/salvaclients/vet-admin/internal/pkg/config"
	"github.com/salvaclients/vet-admin/internal/pkg/seal"
)

// DefaultProfile is the session id used when --profile is not given.
const DefaultProfile = "default"

// App holds what the commands need. Tests build it with stubs.
type App struct {
	Sessions ports.SessionService
	Records  ports.RecordsService
	Out      io.Writer
	Err      io.Writer

	profile string
	format  string
}

// NewApp wires the file store, the gateway and both services from cfg.
func NewApp(cfg *config.CLIConfig, log zerolog.Logger) (*App, error) {
	files, err := filestore.New(cfg.Home)
	if err != nil {
		return nil, err
	}

	var store ports.CredentialStore = files
	if cfg.Secret != "" {
		sealer, err := seal.New(cfg.Secret)
		if err != nil {
			return nil, err
		}
		store = seal.NewStore(files, sealer)
	}

	gw := gateway.New(cfg.Backend.URL, store, log)
	return &App{
		Sessions: service.NewSessionService(store, gw, log),
		Records:  service.NewRecordsService(gw, log),
	}, nil
}

// NewRootCommand builds the vetctl command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "vetctl",
		Short:         "Clinic administration from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if app.Out == nil {
				app.Out = cmd.OutOrStdout()
			}
			if app.Err == nil {
				app.Err = cmd.ErrOrStderr()
			}
			_, err := newPrinter(app.Out, app.format)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&app.format, "output", "o", FormatTable, "output format (table, json, yaml)")
	root.PersistentFlags().StringVar(&app.profile, "profile", DefaultProfile, "stored session to use")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newNavCmd(app),
		newPasswdCmd(app),
		newClientsCmd(app),
		newServicesCmd(app),
		newProductsCmd(app),
		newMovementsCmd(app),
		newExpensesCmd(app),
		newUsersCmd(app),
	)
	return root
}

func (a *App) printer() *printer {
	p, _ := newPrinter(a.Out, a.format)
	return p
}

// Execute runs the root command and turns session errors into the hint the
// user needs.
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return errors.New("session expired, please log in")
	case errors.Is(err, domain.ErrNoSession):
		return errors.New("not logged in, run vetctl login")
	}
	return err
}

// requireSession fails fast for commands that need a logged-in profile.
func (a *App) requireSession(ctx context.Context) (*domain.Session, error) {
	s, err := a.Sessions.Current(ctx, a.profile)
	if err != nil {
		return nil, err
	}
	if !s.Authenticated() {
		return nil, domain.ErrNoSession
	}
	return s, nil
}

func (a *App) notify(format string, args ...any) {
	fmt.Fprintf(a.Out, format+"\n", args...)
}
