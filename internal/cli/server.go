package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Rewind/internal/capture"
	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/server"
)

func newServerCmd(a *app) *cobra.Command {
	var (
		addr    string
		format  string
		modes   string
		storage storageOptions
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the Rewind record and replay server",
		Long: `Starts an HTTP server that stores timelines and drives remote record
and replay sessions.

Endpoints:
  GET    /                        Server info
  GET    /health                  Health check
  GET    /dashboard               Live session monitor
  GET    /api/timelines           List stored timelines
  GET    /api/timelines/{name}    Download a timeline
  PUT    /api/timelines/{name}    Upload a timeline
  DELETE /api/timelines/{name}    Delete a timeline
  WS     /ws/session              Record or replay session
  WS     /ws/monitor              Live frame events`,
		Example: `  rewind server
  rewind server --addr :9090 --storage sqlite --sqlite-path rewind.db
  rewind server --storage redis --redis-host localhost:6379 --format cbor
  rewind server --modes keyboard,controller`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Codec.Format
			}
			if !cmd.Flags().Changed("modes") {
				modes = a.cfg.Capture.Modes
			}

			f, err := codec.ParseFormat(format)
			if err != nil {
				return err
			}
			m, err := capture.ParseModes(modes)
			if err != nil {
				return err
			}

			store, err := storage.open(cmd, a)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(addr, store,
				server.WithLogger(a.log),
				server.WithFormat(f),
				server.WithModes(m),
			)

			a.log.WithField("url", "http://localhost"+addr+"/dashboard").Info("dashboard available")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				a.log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&format, "format", string(codec.FormatJSON), "encoding for recorded timelines (json, cbor)")
	cmd.Flags().StringVar(&modes, "modes", capture.ModeAll, "captured modalities, comma-separated (keyboard, pointer_buttons, pointer_motion, controller, all, none)")
	storage.addFlags(cmd)

	return cmd
}
