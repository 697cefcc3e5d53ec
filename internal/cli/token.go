package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/config"
	"github.com/oggyb/eventswipe/internal/db"
	"github.com/oggyb/eventswipe/internal/logger"
)

// NewTokenCommand creates the token command, which signs a bearer token
// locally with JWT_SECRET.
func NewTokenCommand(opts *RootOptions, cfg *config.Config) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a bearer token for a user (development)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.New(cfg.Auth.JWTSecret, ttl).IssueToken(args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, map[string]string{"token": token}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, token)
				return err
			})
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", cfg.Auth.TokenTTL, "token lifetime")
	return cmd
}

// NewSeedCommand creates the seed command, which resets the configured
// database to a generated demo dataset.
func NewSeedCommand(cfg *config.Config) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the database to demo users and events around Kraków",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitFromConfig(cfg)

			database, err := db.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := db.SeedTestData(database, seed, time.Now()); err != nil {
				return err
			}
			logger.Info("seeding completed", "seed", seed)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for the generated dataset")
	return cmd
}
