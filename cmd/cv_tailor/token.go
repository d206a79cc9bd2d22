package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-tailor/internal/server"
)

func newTokenCmd(configPath *string) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API server",
		Long:  "Signs a token with the configured jwt_secret. The server accepts it until it expires.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configPath, nil)
			if err != nil {
				return err
			}
			jwtCfg, err := cfg.JWT()
			if err != nil {
				return fmt.Errorf("invalid jwt configuration: %w", err)
			}
			if jwtCfg == nil {
				return errors.New("jwt_secret is not configured (set CV_TAILOR_JWT_SECRET)")
			}
			if subject == "" {
				return errRequired("subject")
			}

			token, err := server.NewJWTService(jwtCfg).GenerateToken(subject)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Client name recorded in the token")
	return cmd
}
