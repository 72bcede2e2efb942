package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/salvaclients/vet-admin/internal/core/domain"
	"github.com/salvaclients/vet-admin/internal/pkg/tokeninfo"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("password required: pass --password or pipe it on stdin")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			s, err := app.Sessions.Login(cmd.Context(), app.profile, username, password)
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return errors.New("invalid username or password")
			}
			if err != nil {
				return err
			}
			app.notify("Logged in as %s (%s)", s.User.Username, s.User.Role.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Sessions.Logout(cmd.Context(), app.profile); err != nil {
				return err
			}
			app.notify("Logged out")
			return nil
		},
	}
}

type whoami struct {
	ID        int64       `json:"id" yaml:"id"`
	Username  string      `json:"username" yaml:"username"`
	FullName  string      `json:"fullName" yaml:"fullName"`
	Role      domain.Role `json:"role" yaml:"role"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			out := whoami{ID: s.User.ID, Username: s.User.Username, FullName: s.User.FullName, Role: s.User.Role}
			expires := "unknown"
			if claims, ok := tokeninfo.Parse(s.Token); ok && !claims.ExpiresAt.IsZero() {
				out.ExpiresAt = &claims.ExpiresAt
				expires = claims.ExpiresAt.Format(time.RFC3339)
			}

			tbl := &table{Headers: []string{"USERNAME", "NAME", "ROLE", "EXPIRES"}}
			tbl.add(out.Username, out.FullName, out.Role.Label(), expires)
			return app.printer().print(out, tbl)
		},
	}
}

type navLink struct {
	Path  string `json:"path" yaml:"path"`
	Label string `json:"label" yaml:"label"`
}

func newNavCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "nav",
		Short: "List the screens the logged-in user may open",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Sessions.Current(cmd.Context(), app.profile)
			if err != nil {
				return err
			}

			var links []navLink
			tbl := &table{Headers: []string{"SCREEN", "PATH"}}
			for _, e := range domain.Navigation(s) {
				links = append(links, navLink{Path: e.Path, Label: e.Label})
				tbl.add(e.Label, e.Path)
			}
			return app.printer().print(links, tbl)
		},
	}
}

func newPasswdCmd(app *App) *cobra.Command {
	var current, next, confirm string
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the logged-in user's password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := app.Sessions.ChangePassword(cmd.Context(), app.profile, current, next, confirm)
			if err != nil {
				return err
			}
			if msg == "" {
				msg = "Password changed"
			}
			fmt.Fprintln(app.Out, msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password again")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	_ = cmd.MarkFlagRequired("confirm")
	return cmd
}
