package cli

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RollCut/internal/server"
)

// addrEnv overrides the configured listen address.
const addrEnv = "ROLLCUT_ADDR"

func (a *app) newServeCmd() *cobra.Command {
	var addr, envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long: `Serve the planner over HTTP.

The listen address comes from --addr, then $ROLLCUT_ADDR (which may be set in
a .env file), then server_addr in the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = a.config.ServerAddr
				if v := os.Getenv(addrEnv); v != "" {
					addr = v
				}
			}

			srv := server.New(logger, time.Duration(a.config.SearchTimeout))
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, e.g. 127.0.0.1:8080")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "environment file to load if present")
	return cmd
}
