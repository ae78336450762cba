// Package cli provides the cobra command tree for implkit.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/implkit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/implkit/internal/core/ports/driving"
	"github.com/custodia-labs/implkit/internal/logger"
	"github.com/custodia-labs/implkit/internal/metrics"
)

// version is set by main from the build.
var version = "dev"

var (
	configPath string
	verbose    bool
)

// Services are the ports the commands drive.
type Services struct {
	Extraction driving.ExtractionService
	Customers  driving.CustomerService
	Metrics    *metrics.Metrics
}

// Bootstrap builds the services from the loaded configuration.
type Bootstrap func(ctx context.Context, cfg *file.Config) (*Services, error)

var (
	bootstrap Bootstrap
	active    *Services
	config    *file.Config
)

var rootCmd = &cobra.Command{
	Use:   "implkit",
	Short: "Implementation toolkit for MCP assistants",
	Long: `implkit extracts records from PDFs, emails, JSON and YAML, source code,
mailboxes and Dataverse tables, and formats them for the tool that will
consume them. It also tracks customer implementations.

Run "implkit mcp serve" to expose the tools to an MCP client.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.implkit/config.toml)")
}

// SetVersion records the build version reported by "implkit version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap installs the function that builds services on first use.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs ready-made services, skipping the bootstrap.
func SetServices(s *Services) {
	active = s
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads the configuration, applies logging settings and builds the
// services unless they were installed already.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := file.Load(configPath)
	if err != nil {
		return err
	}
	config = cfg

	if err := logger.SetFormat(cfg.Logging.Format); err != nil {
		return err
	}
	logger.SetVerbose(verbose || cfg.Logging.Verbose)

	if active != nil {
		return nil
	}
	if bootstrap == nil {
		return errors.New("services not configured")
	}
	built, err := bootstrap(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initialise services: %w", err)
	}
	active = built
	return nil
}
