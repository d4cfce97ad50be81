package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/script"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/printer"
)

var (
	exportOutput string
	applyDryRun  bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect and change the page layout",
	Long: `Inspect, export, reset and script the landing page layout.

The layout is loaded from the backend. When the backend is unreachable the
local cache is used, and when nothing was ever saved the default page is
shown.`,
}

var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the components of the page",
	Args:  cobra.NoArgs,
	RunE:  runLayoutShow,
}

var layoutExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the layout as JSON",
	Args:  cobra.NoArgs,
	RunE:  runLayoutExport,
}

var layoutResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved layout and return to the default page",
	Args:  cobra.NoArgs,
	RunE:  runLayoutReset,
}

var layoutKindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the component kinds that can be added",
	Args:  cobra.NoArgs,
	RunE:  runLayoutKinds,
}

var layoutApplyCmd = &cobra.Command{
	Use:   "apply <script.yaml>",
	Short: "Apply a YAML script of builder operations and save",
	Long: `Apply a YAML script of builder operations to the layout and save it.

Example script:

  restaurant: spice-route
  ops:
    - op: add
      kind: section_header
    - op: edit
      id: $1
      config:
        title: Our Menu
    - op: move
      id: $1
      target: hero-1

$N refers to the id of the Nth component added by the script. Operations
stop at the first failure and nothing is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runLayoutApply,
}

func init() {
	layoutExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
	layoutApplyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Apply without saving")

	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutExportCmd)
	layoutCmd.AddCommand(layoutResetCmd)
	layoutCmd.AddCommand(layoutKindsCmd)
	layoutCmd.AddCommand(layoutApplyCmd)
	rootCmd.AddCommand(layoutCmd)
}

func runLayoutShow(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	key := restaurantKey()

	result, err := s.Layouts.Load(cmd.Context(), key)
	if err != nil {
		return printer.ErrorWithContext(cmd.ErrOrStderr(), "Could not load layout", err.Error(),
			map[string]string{"restaurant": key}, nil)
	}
	reportLoad(cmd, result)

	cmd.Printf("Layout for %s (%s)\n\n", key, result.Source)
	if result.Layout.IsEmpty() {
		cmd.Println("No components.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTYPE\tVISIBLE\tHEADLINE")
	for i, c := range result.Layout.Components() {
		visible := "yes"
		if !c.Visible {
			visible = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, c.ID, c.Kind, visible, oneLine(domain.Headline(c.Config)))
	}
	return w.Flush()
}

func runLayoutExport(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}

	result, err := s.Layouts.Load(cmd.Context(), restaurantKey())
	if err != nil {
		return fmt.Errorf("loading layout: %w", err)
	}
	reportLoad(cmd, result)

	snapshot := domain.NewSnapshot(result.Layout, time.Time{})
	if result.Snapshot != nil {
		snapshot.LastModified = result.Snapshot.LastModified
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}
	data = append(data, '\n')

	if exportOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", exportOutput, err)
	}
	printer.Success(cmd.OutOrStdout(), "Exported %d components to %s\n", result.Layout.Len(), exportOutput)
	return nil
}

func runLayoutReset(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	key := restaurantKey()

	if err := s.Layouts.Reset(cmd.Context(), key); err != nil {
		return printer.Error(cmd.ErrOrStderr(), "Could not reset layout", err.Error(), []string{
			"Check that the backend is running",
			"Run again with --verbose for details",
		})
	}
	printer.Success(cmd.OutOrStdout(), "Layout for %s reset to the default page\n", key)
	return nil
}

func runLayoutKinds(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tLABEL\tDESCRIPTION")
	for _, k := range s.Registry.Kinds() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", k.Kind, k.Label, k.Description)
	}
	return w.Flush()
}

func runLayoutApply(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}

	sc, err := script.ParseFile(args[0])
	if err != nil {
		return printer.Error(cmd.ErrOrStderr(), "Invalid script", err.Error(), nil)
	}

	key := restaurantKey()
	if restaurantFlag == "" && sc.Restaurant != "" {
		key = domain.RestaurantKey(sc.Restaurant)
	}

	builder, loaded, err := s.Builders.Open(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("opening layout: %w", err)
	}
	reportLoad(cmd, loaded)

	result, applyErr := script.Apply(builder, sc)
	for _, step := range result.Steps {
		printer.Step(cmd.OutOrStdout(), "%s\n", step.Detail)
	}
	if applyErr != nil {
		return printer.Error(cmd.ErrOrStderr(), "Script stopped", applyErr.Error(),
			[]string{"Nothing was saved; fix the script and run it again"})
	}

	if applyDryRun {
		cmd.Printf("Dry run: %d components, not saved\n", builder.Layout().Len())
		return nil
	}
	return saveBuilder(cmd, builder)
}

// saveBuilder saves and reports the outcome. A save that only reached the
// local cache is a warning, not a failure.
func saveBuilder(cmd *cobra.Command, b driving.BuilderService) error {
	res, err := b.Save(cmd.Context())
	switch {
	case err == nil:
		printer.Success(cmd.OutOrStdout(), "Saved %d components for %s\n", len(res.Snapshot.Components), b.RestaurantKey())
		return nil
	case res.CachedLocally && errors.Is(err, domain.ErrPersistenceFailure):
		printer.Warning(cmd.ErrOrStderr(), "%s\n", capitalise(res.Status().Message()))
		return nil
	default:
		return printer.Error(cmd.ErrOrStderr(), "Save failed", err.Error(), nil)
	}
}

func reportLoad(cmd *cobra.Command, result *domain.LoadResult) {
	if result.Warning == nil {
		return
	}
	printer.Warning(cmd.ErrOrStderr(), "Backend unavailable, using %s layout: %v\n", result.Source, result.Warning)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
