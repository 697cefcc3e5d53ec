// Package cli implements feedctl, a command-line client for the eventswipe API.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Addr    string
	Token   string
	Format  string // "json" | "text"
	Timeout time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for feedctl.
func NewRootCommand() *cobra.Command {
	cfg := config.New()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "feedctl",
		Short: "Command-line client for the eventswipe API",
		Long: `feedctl talks to an eventswipe server over gRPC.

Calls authenticate with a bearer token from --token or $EVENTSWIPE_TOKEN.
"feedctl token <user-id>" mints one with the server's JWT secret.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", cfg.GRPC.Host+":"+cfg.GRPC.Port, "server address")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("EVENTSWIPE_TOKEN"), "bearer token")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "per-call timeout")

	// Add subcommands
	cmd.AddCommand(NewFeedCommand(opts))
	for _, action := range relationActions {
		cmd.AddCommand(NewRelationCommand(opts, action))
	}
	cmd.AddCommand(NewInboxCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts, cfg))
	cmd.AddCommand(NewSeedCommand(cfg))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// connect dials the server and returns a context bounded by --timeout.
func connect(cmd *cobra.Command, opts *RootOptions) (*grpc.ClientConn, context.Context, func(), error) {
	if opts.Token == "" {
		return nil, nil, nil, fmt.Errorf("no token: pass --token or set EVENTSWIPE_TOKEN")
	}
	conn, err := grpc.NewClient(opts.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(auth.BearerCredentials{Token: opts.Token, Insecure: true}),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dial %s: %w", opts.Addr, err)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	return conn, ctx, func() {
		cancel()
		_ = conn.Close()
	}, nil
}
