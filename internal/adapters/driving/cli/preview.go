package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/logger"
	"github.com/custodia-labs/tablesite/internal/printer"
)

var (
	previewFormat string
	previewEdit   bool
	previewOutput string
	previewWatch  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the page",
	Long: `Render the current layout as HTML or Markdown.

Hidden components are left out. With --edit the HTML carries component ids
and builder controls. With --watch the page is rendered again whenever the
local layout cache changes, e.g. after a save from 'tablesite edit'.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewFormat, "format", "f", "html", "Output format: html or markdown")
	previewCmd.Flags().BoolVar(&previewEdit, "edit", false, "Include builder controls (html only)")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Write to file instead of stdout")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "Re-render when the layout changes")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	if previewFormat != "html" && previewFormat != "markdown" {
		return printer.Error(cmd.ErrOrStderr(), "Unknown format", previewFormat,
			[]string{"Use --format html or --format markdown"})
	}
	key := restaurantKey()

	if err := renderPreview(cmd, s, key); err != nil {
		return err
	}
	if !previewWatch {
		return nil
	}

	changes, err := s.Layouts.Watch(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("watching layout: %w", err)
	}
	printer.Info(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", key)
	for range changes {
		logger.Debug("Layout for %s changed, rendering", key)
		if err := renderPreview(cmd, s, key); err != nil {
			printer.Warning(cmd.ErrOrStderr(), "%v\n", err)
		}
	}
	return nil
}

func renderPreview(cmd *cobra.Command, s *Services, key string) error {
	result, err := s.Layouts.Load(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("loading layout: %w", err)
	}
	reportLoad(cmd, result)

	var page string
	if previewFormat == "markdown" {
		page, err = s.Render.RenderMarkdown(result.Layout)
	} else {
		page, err = s.Render.RenderHTML(result.Layout, driving.RenderOptions{EditMode: previewEdit})
	}
	if err != nil {
		return fmt.Errorf("rendering layout: %w", err)
	}

	if previewOutput == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), page)
		return err
	}
	if err := os.WriteFile(previewOutput, []byte(page), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", previewOutput, err)
	}
	printer.Success(cmd.OutOrStdout(), "Rendered %s to %s\n", key, previewOutput)
	return nil
}
