package cmd

import (
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"portdash/internal/control"
	"portdash/internal/web"
)

var (
	serveAddr       string
	serveProduction bool
	serveReadOnly   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the service dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr
		}

		scanner := newScanner()
		srv := web.New(web.Config{
			Snapshot: scanner.Snapshot,
			Control:  control.New(),
			External: cfg.ExternalURL,
			ReadOnly: serveReadOnly,
			StopWait: cfg.StopTimeout,
			Logger:   log.Default(),
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err := srv.Run(ctx, addr, serveProduction)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	serveCmd.Flags().BoolVar(&serveProduction, "production", false, "harden the listener for production use")
	serveCmd.Flags().BoolVar(&serveReadOnly, "read-only", false, "disable the stop/restart/add controls")
	rootCmd.AddCommand(serveCmd)
}
