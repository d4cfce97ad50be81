package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablesite/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the layout backend",
	Long: `Run the HTTP layout backend the builder saves to.

Routes:
  GET    /custom-layout/{restaurant}   Saved layout (layout is null when none)
  POST   /custom-layout/{restaurant}   Save a layout
  DELETE /custom-layout/{restaurant}   Remove the saved layout
  GET    /preview/{restaurant}         Rendered page (?mode=edit for builder controls)
  GET    /ws/{restaurant}              Live preview updates
  GET    /health                       Health check

The store is chosen by storage.driver (memory, sqlite, postgres or redis).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	if s.Backend == nil {
		return fmt.Errorf("%w: backend not configured", domain.ErrNotImplemented)
	}

	addr := serveAddr
	if addr == "" && s.Settings != nil {
		if settings, err := s.Settings.Get(); err == nil {
			addr = settings.Server.Addr
		}
	}
	if addr == "" {
		addr = ":4000"
	}

	server, cleanup, err := s.Backend(cmd.Context())
	if err != nil {
		return fmt.Errorf("opening layout store: %w", err)
	}
	defer cleanup()

	return server.Run(cmd.Context(), addr)
}
