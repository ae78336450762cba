package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/implkit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/implkit/internal/connectors/filesystem"
	"github.com/custodia-labs/implkit/internal/core/services"
	"github.com/custodia-labs/implkit/internal/format"
	"github.com/custodia-labs/implkit/internal/normalisers"
	"github.com/custodia-labs/implkit/internal/normalisers/code"
	"github.com/custodia-labs/implkit/internal/normalisers/structured"
)

// setupTestServices installs real services over in-memory stores and
// returns a cleanup function restoring the package state.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	templates, err := file.NewTemplateStore(filepath.Join(t.TempDir(), "templates"))
	require.NoError(t, err)

	registry := normalisers.NewRegistry(structured.New(), code.New())
	SetServices(&Services{
		Extraction: services.NewExtractionService(filesystem.NewReader(0), registry,
			format.New(format.DefaultHeuristics())),
		Customers: services.NewCustomerService(memory.NewCustomerStore(), templates),
	})

	return func() {
		active = nil
		config = nil
		extractFormat, extractTarget = "", ""
		extractPath, extractFlatten = "", false
		extractLang, extractMode = "", ""
	}
}

// execute runs the root command with args and a config path that does
// not exist, returning stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
