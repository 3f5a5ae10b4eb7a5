package engineconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardEnablesEveryRule(t *testing.T) {
	f := Standard()
	assert.True(t, f.VerifyMinimalPush)
	assert.True(t, f.StrictEncoding)
	assert.True(t, f.RequireCleanStack)
	assert.True(t, f.VerifyP2SH)
	assert.True(t, f.DiscourageUpgradableNOPs)
	assert.True(t, f.MinimalIf)
	assert.True(t, f.SigPushOnly)
	assert.True(t, f.NullFail)
}

func TestParseArgsReadsScriptFlag(t *testing.T) {
	cfg, err := ParseArgs([]string{"-s", "51"})
	require.NoError(t, err)
	assert.Equal(t, "51", cfg.ScriptHex)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestToFlagsStrictSelectsStandardSet(t *testing.T) {
	cfg := &ProcessConfig{Strict: true}
	assert.Equal(t, Standard(), cfg.ToFlags())

	cfg = &ProcessConfig{}
	assert.Equal(t, Flags{}, cfg.ToFlags())
}
