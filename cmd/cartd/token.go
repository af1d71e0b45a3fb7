package main

import (
	"errors"
	"fmt"
	"github.com/nikolayk812/cart-service/internal/auth"
	"github.com/spf13/cobra"
	"time"
)

var tokenUser string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed identity token for a cart owner",
	Long:  `Prints a token accepted by the server in token auth mode, for local testing.`,
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "owner identity to embed in the token")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "" {
		return errors.New("auth.secret is not configured")
	}

	tokens := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	token, expiresAt, err := tokens.Issue(tokenUser)
	if err != nil {
		return fmt.Errorf("tokens.Issue: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
	return nil
}
