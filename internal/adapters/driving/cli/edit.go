package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui"
	"github.com/custodia-labs/tablesite/internal/printer"
)

var editCmd = &cobra.Command{
	Use:     "edit",
	Aliases: []string{"tui"},
	Short:   "Edit the page layout in the terminal",
	Long: `Open the interactive layout builder.

The layout is loaded from the backend, falling back to the local cache and
then the default page. Changes are saved when you press s.

Controls:
  ↑/k, ↓/j  - Move the cursor
  K, J      - Move the component up or down
  Enter     - Edit the component
  a         - Add a component
  d         - Delete the component
  h         - Show or hide the component
  u, r      - Undo, redo
  s         - Save
  ?         - Help
  q         - Quit`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	s, err := services()
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return printer.Error(cmd.ErrOrStderr(), "Not a terminal",
			"the builder needs an interactive terminal",
			[]string{"Use 'tablesite layout apply' to script changes instead"})
	}

	builder, loaded, err := s.Builders.Open(cmd.Context(), restaurantKey())
	if err != nil {
		return fmt.Errorf("opening layout: %w", err)
	}

	app, err := tui.NewApp(&tui.Ports{Builder: builder, Registry: s.Registry})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if loaded.Warning != nil {
		app.SetNotice(fmt.Sprintf("Backend unavailable, using %s layout", loaded.Source))
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
