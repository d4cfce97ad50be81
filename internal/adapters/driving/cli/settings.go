package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/printer"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the restaurant, backend, storage and server settings.

Settings are read from ~/.tablesite/config.toml. TABLESITE_* environment
variables (and a .env file in the working directory) override them.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one setting",
	Long: `Set one setting by its dotted key.

Keys:
  restaurant.id        Restaurant whose layout is edited
  backend.url          Layout backend base URL
  backend.timeout      Request timeout, e.g. 10s
  backend.rate_limit   Requests per second to the backend (0 = unlimited)
  storage.driver       Server store: memory, sqlite, postgres or redis
  storage.path         SQLite database file
  storage.dsn          PostgreSQL connection string
  storage.redis_addr   Redis address
  cache.driver         Local cache: file or sqlite
  cache.dir            Local cache directory
  server.addr          Address the layout server listens on`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore one setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	settings, err := s.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Restaurant]")
	cmd.Printf("  ID: %s\n", settings.Restaurant.Key())
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.Backend.URL)
	cmd.Printf("  Timeout: %s\n", settings.Backend.Timeout)
	if settings.Backend.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s\n", settings.Backend.RateLimit)
	} else {
		cmd.Println("  Rate limit: unlimited")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.Storage.Driver.Description())
	switch settings.Storage.Driver {
	case domain.StorageSQLite:
		cmd.Printf("  Path: %s\n", orDefault(settings.Storage.Path))
	case domain.StoragePostgres:
		cmd.Printf("  DSN: %s\n", redactDSN(settings.Storage.DSN))
	case domain.StorageRedis:
		cmd.Printf("  Address: %s\n", settings.Storage.RedisAddr)
	case domain.StorageMemory:
	}
	cmd.Println()

	cmd.Println("[Cache]")
	cmd.Printf("  Driver: %s\n", settings.Cache.Driver)
	cmd.Printf("  Directory: %s\n", orDefault(settings.Cache.Dir))
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	if err := s.Settings.Validate(); err != nil {
		printer.Warning(cmd.OutOrStdout(), "%v\n", err)
		cmd.Println("Run 'tablesite settings wizard' to fix configuration issues.")
	} else {
		printer.Success(cmd.OutOrStdout(), "Configuration is valid\n")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	if err := s.Settings.Set(args[0], args[1]); err != nil {
		return printer.Error(cmd.ErrOrStderr(), "Could not update setting", err.Error(),
			[]string{"Run 'tablesite settings set --help' for the list of keys"})
	}
	printer.Success(cmd.OutOrStdout(), "%s updated\n", args[0])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	if err := s.Settings.Reset(args[0]); err != nil {
		return printer.Error(cmd.ErrOrStderr(), "Could not reset setting", err.Error(),
			[]string{"Run 'tablesite settings set --help' for the list of keys"})
	}
	printer.Success(cmd.OutOrStdout(), "%s reset to default\n", args[0])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	s, err := services()
	if err != nil {
		return err
	}
	settings, err := s.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("tablesite Setup Wizard")
	cmd.Println("======================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())
	for _, key := range s.Settings.Keys() {
		current := settingValue(settings, key)
		if key == "storage.dsn" && settings.Storage.Driver != domain.StoragePostgres {
			continue
		}
		if key == "storage.redis_addr" && settings.Storage.Driver != domain.StorageRedis {
			continue
		}

		shown := current
		if key == "storage.dsn" {
			shown = redactDSN(current)
		}
		cmd.Printf("%s [%s]: ", key, shown)

		var value string
		if key == "storage.dsn" {
			value = readSecret(cmd.InOrStdin(), reader)
			cmd.Println()
		} else {
			value = readLine(reader)
		}
		if value == "" || value == current {
			continue
		}

		if err := s.Settings.Set(key, value); err != nil {
			printer.Warning(cmd.OutOrStdout(), "%v (kept %s)\n", err, orDefault(current))
			continue
		}
		if settings, err = s.Settings.Get(); err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
	}

	cmd.Println()
	printer.Success(cmd.OutOrStdout(), "Settings saved\n")
	return nil
}

// settingValue renders the current value of a dotted key.
func settingValue(s *domain.AppSettings, key string) string {
	switch key {
	case "restaurant.id":
		return s.Restaurant.Key()
	case "backend.url":
		return s.Backend.URL
	case "backend.timeout":
		return s.Backend.Timeout.String()
	case "backend.rate_limit":
		return strconv.FormatFloat(s.Backend.RateLimit, 'g', -1, 64)
	case "storage.driver":
		return s.Storage.Driver.String()
	case "storage.path":
		return s.Storage.Path
	case "storage.dsn":
		return s.Storage.DSN
	case "storage.redis_addr":
		return s.Storage.RedisAddr
	case "cache.driver":
		return s.Cache.Driver.String()
	case "cache.dir":
		return s.Cache.Dir
	case "server.addr":
		return s.Server.Addr
	default:
		return ""
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// readSecret reads without echo when in is a terminal.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(reader)
}

// redactDSN hides the password of a connection URL.
func redactDSN(dsn string) string {
	if dsn == "" {
		return "(not set)"
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "(set)"
	}
	return u.Redacted()
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
