package presets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/profilesync/config"
)

func TestGet(t *testing.T) {
	require.Equal(t, []string{"standalone"}, Options())
	conf, err := Get("standalone")
	require.NoError(t, err)
	require.Equal(t, "http", conf.Fetch.Scheme)
	require.Equal(t, conf.Store.MaxAge, conf.Sync.MaxAge)

	_, err = Get("mainnet")
	require.ErrorContains(t, err, "not registered")
}

func TestRegisterTwicePanics(t *testing.T) {
	require.Panics(t, func() { register("standalone", config.DefaultConfig()) })
}
