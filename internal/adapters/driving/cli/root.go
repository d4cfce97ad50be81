// Package cli provides the tablesite command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/httpserver"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	verbose        bool
	restaurantFlag string

	svc *Services
)

// BackendOpener builds the HTTP layout backend from the configured store.
// The returned cleanup releases the store.
type BackendOpener func(ctx context.Context) (*httpserver.Server, func(), error)

// Services holds the driving ports the commands run against.
type Services struct {
	Layouts  driving.LayoutService
	Builders driving.BuilderFactory
	Registry driving.ComponentRegistry
	Render   driving.RenderService
	Settings driving.SettingsService

	// Backend is used by `serve`. Optional.
	Backend BackendOpener
}

// SetServices sets the services used by all commands.
func SetServices(s *Services) {
	svc = s
}

// SetVersionInfo sets version information from build flags.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "tablesite",
	Short: "Build and publish restaurant landing pages",
	Long: `tablesite edits the landing page of a restaurant site.

A page is an ordered list of sections (heroes, headers, menu, team and
testimonials). Edit it interactively, script it, preview it and serve it
to the storefront.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&restaurantFlag, "restaurant", "r", "", "Restaurant id (overrides settings)")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.ExecuteContext(ctx)
}

// services returns the configured services or an error when the command
// runs without wiring.
func services() (*Services, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: services not configured", domain.ErrNotImplemented)
	}
	return svc, nil
}

// restaurantKey resolves the restaurant from the flag, then settings.
func restaurantKey() string {
	if restaurantFlag != "" {
		return domain.RestaurantKey(restaurantFlag)
	}
	if svc != nil && svc.Settings != nil {
		if settings, err := svc.Settings.Get(); err == nil {
			return settings.Restaurant.Key()
		}
	}
	return domain.DefaultRestaurantKey
}
