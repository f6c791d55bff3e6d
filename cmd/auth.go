package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ragengine/console/internal/pages"
	"github.com/ragengine/console/internal/pkg/format"
	"github.com/ragengine/console/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	authEmail           string
	authPassword        string
	authFullName        string
	authConfirmPassword string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	Long: `Sign in with email and password. The session is kept in the session file
(session.file in the config) until you run "rag-engine logout".`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var ResetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Send a password reset email",
	Args:  cobra.NoArgs,
	RunE:  runResetPassword,
}

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{LoginCmd, RegisterCmd, ResetPasswordCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	}
	for _, c := range []*cobra.Command{LoginCmd, RegisterCmd} {
		c.Flags().StringVarP(&authPassword, "password", "p", "", "account password (prompted when omitted)")
	}
	RegisterCmd.Flags().StringVar(&authFullName, "name", "", "full name")
	RegisterCmd.Flags().StringVar(&authConfirmPassword, "confirm-password", "", "repeat the password (defaults to --password)")
}

// ask returns v, or prompts for it when empty.
func ask(v, prompt, placeholder string) (string, error) {
	if v != "" {
		return v, nil
	}
	return tui.RunInput(prompt, placeholder, "")
}

func askPassword(v, prompt string) (string, error) {
	if v != "" {
		return v, nil
	}
	return tui.RunPassword(prompt)
}

func runLogin(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page := pages.NewLogin(a.store, a.log)
		var err error
		if page.Email, err = ask(authEmail, "Email", "you@example.com"); err != nil {
			return err
		}
		if page.Password, err = askPassword(authPassword, "Password"); err != nil {
			return err
		}
		if !page.Submit(ctx) {
			return errors.New(page.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess("Signed in as "+displayName(a, page.Email)))
		return nil
	})
}

func runRegister(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page := pages.NewRegister(a.store, a.log)
		var err error
		if page.FullName, err = ask(authFullName, "Full name", "Jane Doe"); err != nil {
			return err
		}
		if page.Email, err = ask(authEmail, "Email", "you@example.com"); err != nil {
			return err
		}
		if page.Password, err = askPassword(authPassword, "Password"); err != nil {
			return err
		}
		page.ConfirmPassword = authConfirmPassword
		if page.ConfirmPassword == "" {
			if authPassword != "" {
				page.ConfirmPassword = page.Password
			} else if page.ConfirmPassword, err = tui.RunPassword("Confirm password"); err != nil {
				return err
			}
		}
		if !page.Submit(ctx) {
			return errors.New(page.Error)
		}
		out := cmd.OutOrStdout()
		if page.Notice != "" {
			fmt.Fprintln(out, tui.RenderInfo(page.Notice))
			return nil
		}
		fmt.Fprintln(out, tui.RenderSuccess("Account created, signed in as "+displayName(a, page.Email)))
		return nil
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if err := a.store.SignOut(ctx); err != nil {
			// The local session is gone either way.
			a.log.Warn("remote sign out failed", zap.Error(err))
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess("Signed out"))
		return nil
	})
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page := pages.NewForgotPassword(a.store, a.log)
		var err error
		if page.Email, err = ask(authEmail, "Email", "you@example.com"); err != nil {
			return err
		}
		if !page.Submit(ctx) {
			return errors.New(page.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderInfo(page.Notice))
		return nil
	})
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.requireUser()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", tui.TitleStyle.Render(format.Initials(u.DisplayName())), u.DisplayName())
		fmt.Fprintf(out, "%s %s\n", tui.MutedStyle.Render("email:"), u.Email)
		fmt.Fprintf(out, "%s %s\n", tui.MutedStyle.Render("id:   "), u.ID)
		return nil
	})
}

func displayName(a *app, fallback string) string {
	if u := a.store.State().User; u != nil {
		return u.DisplayName()
	}
	return fallback
}
