package cli

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"jatrack/internal/api"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}
			pw, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}

			token, err := app.client().Login(cmd.Context(), email, pw)
			if err != nil {
				return authErr(err)
			}
			if err := app.tokenFile().Save(token); err != nil {
				return fmt.Errorf("saving token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" {
				return errors.New("--email is required")
			}
			pw, err := resolvePassword(cmd, password)
			if err != nil {
				return err
			}

			token, err := app.client().Register(cmd.Context(), strings.TrimSpace(name), email, pw)
			if err != nil {
				return authErr(err)
			}
			if err := app.tokenFile().Save(token); err != nil {
				return fmt.Errorf("saving token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created; signed in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.tokenFile().Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

// resolvePassword uses the flag value when given, otherwise prompts without
// echo so the password stays out of shell history and process listings.
func resolvePassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	raw, err := terminal.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	pw := string(raw)
	if pw == "" {
		return "", errors.New("password must not be empty")
	}
	return pw, nil
}

func authErr(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return errors.New("invalid credentials")
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Body != "" {
		return errors.New(reqErr.Body)
	}
	return err
}
