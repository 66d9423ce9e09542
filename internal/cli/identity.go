package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/stakeledger/internal/api/request"
	"github.com/mcoot/stakeledger/internal/api/response"
)

func newIdentityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Identity management commands",
	}

	cmd.AddCommand(newIdentityGuestCmd())
	cmd.AddCommand(newIdentityRegisterCmd())
	cmd.AddCommand(newIdentityLoginCmd())
	cmd.AddCommand(newIdentityMeCmd())
	cmd.AddCommand(newIdentityLogoutCmd())

	return cmd
}

// authenticate posts to an auth endpoint and saves the returned token
func authenticate(ctx context.Context, path string, req any) error {
	var result response.AuthResponse
	if err := client.Post(ctx, path, req, &result); err != nil {
		return err
	}

	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	client.SetToken(result.SessionToken)

	NewOutput(cfg.Output).Print(result)
	return nil
}

func newIdentityGuestCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Create a guest identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd.Context(), "/api/v1/identities/guest", request.CreateGuestRequest{DisplayName: name})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newIdentityRegisterCmd() *cobra.Command {
	var name, user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new identity with credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd.Context(), "/api/v1/identities/register", request.RegisterRequest{
				Username:    user,
				Password:    pass,
				DisplayName: name,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newIdentityLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with existing credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return authenticate(cmd.Context(), "/api/v1/identities/login", request.LoginRequest{
				Username: user,
				Password: pass,
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newIdentityMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Identity

			if err := client.Get(cmd.Context(), "/api/v1/identities/me", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newIdentityLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/identities/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return err
			}
			client.SetToken("")

			NewOutput(cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}
