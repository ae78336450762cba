package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/format"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "IMPLKIT_"

// Config is the application configuration.
type Config struct {
	Server    ServerConfig      `toml:"server"`
	Logging   LoggingConfig     `toml:"logging"`
	Files     FilesConfig       `toml:"files"`
	Format    format.Heuristics `toml:"format"`
	Azure     AzureConfig       `toml:"azure"`
	Dataverse DataverseConfig   `toml:"dataverse"`
	Graph     GraphConfig       `toml:"graph"`
	Gmail     GmailConfig       `toml:"gmail"`
	Templates TemplatesConfig   `toml:"templates"`
}

// ServerConfig controls the MCP transport.
type ServerConfig struct {
	// Addr serves streamable HTTP when set (e.g. ":8080"); empty means stdio.
	Addr string `toml:"addr"`
	// Metrics exposes /metrics next to the HTTP transport.
	Metrics bool `toml:"metrics"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Format is "console" or "json".
	Format string `toml:"format"`
	// Verbose enables debug output.
	Verbose bool `toml:"verbose"`
}

// FilesConfig bounds local file reads.
type FilesConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
}

// AzureConfig is the app registration used for Dataverse and Graph.
type AzureConfig struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// DataverseConfig locates the Dataverse environment.
type DataverseConfig struct {
	URL        string `toml:"url"`
	APIVersion string `toml:"api_version"`
}

// GraphConfig selects the default mailbox.
type GraphConfig struct {
	Mailbox string `toml:"mailbox"`
}

// GmailConfig holds the installed-app client and refresh token.
type GmailConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	User         string `toml:"user"`
}

// TemplatesConfig locates user-editable templates.
type TemplatesConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Format: "console"},
		Format:  format.DefaultHeuristics(),
		Gmail:   GmailConfig{User: "me"},
	}
}

// DefaultDir returns ~/.implkit.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".implkit"), nil
}

// Load reads the TOML file at path over the defaults and applies
// environment overrides. A missing file is not an error. An empty path
// means ~/.implkit/config.toml.
func Load(path string) (*Config, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file yet - defaults and environment only
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidInput, path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides secrets and endpoints from IMPLKIT_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	overrides := map[string]*string{
		"AZURE_TENANT_ID":     &c.Azure.TenantID,
		"AZURE_CLIENT_ID":     &c.Azure.ClientID,
		"AZURE_CLIENT_SECRET": &c.Azure.ClientSecret,
		"DATAVERSE_URL":       &c.Dataverse.URL,
		"GRAPH_MAILBOX":       &c.Graph.Mailbox,
		"GMAIL_CLIENT_ID":     &c.Gmail.ClientID,
		"GMAIL_CLIENT_SECRET": &c.Gmail.ClientSecret,
		"GMAIL_REFRESH_TOKEN": &c.Gmail.RefreshToken,
		"LOG_FORMAT":          &c.Logging.Format,
		"SERVER_ADDR":         &c.Server.Addr,
	}
	for name, field := range overrides {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	var problems []string
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q (expected console or json)", c.Logging.Format))
	}
	if c.Files.MaxBytes < 0 {
		problems = append(problems, "files.max_bytes must not be negative")
	}
	h := c.Format
	if h.MaxKeyValueDepth < 0 || h.MinCSVRecords < 0 || h.LongTextChars < 0 {
		problems = append(problems, "format thresholds must not be negative")
	}
	if c.Dataverse.URL != "" && !strings.HasPrefix(c.Dataverse.URL, "https://") &&
		!strings.HasPrefix(c.Dataverse.URL, "http://") {
		problems = append(problems, fmt.Sprintf("dataverse.url %q must be an http(s) URL", c.Dataverse.URL))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: config: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
