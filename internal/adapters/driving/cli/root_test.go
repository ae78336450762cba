package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/implkit/internal/adapters/driven/config/file"
)

func TestRootCmd_GlobalFlags(t *testing.T) {
	v := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, v)
	assert.Equal(t, "v", v.Shorthand)

	c := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, c)
	assert.Equal(t, "", c.DefValue)
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestSetup_RunsBootstrapOnce(t *testing.T) {
	defer func() {
		active = nil
		bootstrap = nil
		config = nil
	}()

	active = nil
	calls := 0
	SetBootstrap(func(_ context.Context, cfg *file.Config) (*Services, error) {
		calls++
		assert.NotNil(t, cfg)
		return &Services{}, nil
	})

	require.NoError(t, setup(rootCmd, nil))
	require.NoError(t, setup(rootCmd, nil))
	assert.Equal(t, 1, calls)
}

func TestSetup_BootstrapError(t *testing.T) {
	defer func() {
		active = nil
		bootstrap = nil
		config = nil
	}()

	active = nil
	SetBootstrap(func(context.Context, *file.Config) (*Services, error) {
		return nil, errors.New("dataverse: bad url")
	})

	err := setup(rootCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialise services: dataverse: bad url")
}
