package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	helpers "github.com/launchdarkly/go-test-helpers/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/specbasis/specbasis/framework"
)

func lookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestLoadJSONFile(t *testing.T) {
	data := []byte(`{"random": true, "seed": 1234, "stopOnSpecFailure": true, "defaultTimeoutMs": 250, "run": ["^matchers"]}`)
	helpers.WithTempFile(func(path string) {
		require.NoError(t, os.WriteFile(path, data, 0o600))
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.True(t, cfg.Random)
		assert.Equal(t, ldvalue.NewOptionalInt(1234), cfg.Seed)
		assert.True(t, cfg.StopOnSpecFailure)
		assert.False(t, cfg.StopSpecOnExpectationFailure)
		assert.Equal(t, time.Millisecond*250, cfg.DefaultTimeout())
		assert.Equal(t, []string{"^matchers"}, cfg.Run)
		assert.Equal(t, path, cfg.Path)
	})
}

func TestLoadInvalidJSON(t *testing.T) {
	helpers.WithTempFile(func(path string) {
		require.NoError(t, os.WriteFile(path, []byte(`{"random": `), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestLoadExplicitMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte("random: true\nseed: 7\nskip:\n  - slow\nnoColor: true\n"), ".yml")
	require.NoError(t, err)

	assert.True(t, cfg.Random)
	assert.Equal(t, 7, cfg.Seed.IntValue())
	assert.Equal(t, []string{"slow"}, cfg.Skip)
	assert.True(t, cfg.NoColor)
	assert.False(t, cfg.DefaultTimeoutMS.IsDefined())
}

func TestParseEmptyYAML(t *testing.T) {
	cfg, err := Parse(nil, ".yaml")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "specbasis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stopSpecOnExpectationFailure: true\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.StopSpecOnExpectationFailure)
}

func TestApplyEnv(t *testing.T) {
	var cfg Config
	err := cfg.ApplyEnv(lookupFrom(map[string]string{
		EnvRandom:    "true",
		EnvSeed:      "99",
		EnvNoColor:   "1",
		EnvTimeoutMS: "1500",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.Random)
	assert.Equal(t, 99, cfg.Seed.IntValue())
	assert.True(t, cfg.NoColor)
	assert.Equal(t, time.Millisecond*1500, cfg.DefaultTimeout())
}

func TestApplyEnvIgnoresEmptyValues(t *testing.T) {
	cfg := Config{Random: true}
	require.NoError(t, cfg.ApplyEnv(lookupFrom(map[string]string{EnvRandom: ""})))
	assert.True(t, cfg.Random)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	for _, name := range []string{EnvRandom, EnvSeed, EnvNoColor, EnvTimeoutMS} {
		var cfg Config
		err := cfg.ApplyEnv(lookupFrom(map[string]string{name: "not-a-value"}))
		if assert.Error(t, err, name) {
			assert.Contains(t, err.Error(), name)
		}
	}
}

func TestDefaultTimeout(t *testing.T) {
	assert.Equal(t, framework.DefaultTimeout, Config{}.DefaultTimeout())
	assert.Equal(t, framework.DefaultTimeout, Config{DefaultTimeoutMS: ldvalue.NewOptionalInt(0)}.DefaultTimeout())
	assert.Equal(t, time.Second, Config{DefaultTimeoutMS: ldvalue.NewOptionalInt(1000)}.DefaultTimeout())
}

func TestRunConfig(t *testing.T) {
	seedSource := func() int64 { return 555 }

	rc := Config{Random: true}.RunConfig(framework.RegexFilters{}, seedSource)
	assert.True(t, rc.Random)
	assert.Equal(t, int64(555), rc.Seed)
	assert.Nil(t, rc.Filter)

	rc = Config{Random: true, Seed: ldvalue.NewOptionalInt(3)}.RunConfig(framework.RegexFilters{}, seedSource)
	assert.Equal(t, int64(3), rc.Seed)

	rc = Config{Seed: ldvalue.NewOptionalInt(3)}.RunConfig(framework.RegexFilters{}, seedSource)
	assert.False(t, rc.Random)
	assert.Zero(t, rc.Seed)

	rc = Config{StopOnSpecFailure: true, StopSpecOnExpectationFailure: true}.RunConfig(framework.RegexFilters{}, nil)
	assert.True(t, rc.StopOnSpecFailure)
	assert.True(t, rc.StopSpecOnExpectationFailure)
	assert.Equal(t, framework.DefaultTimeout, rc.DefaultTimeout)
}

func TestFilters(t *testing.T) {
	filters, err := Config{Run: []string{"spies"}, Skip: []string{"slow"}}.Filters()
	require.NoError(t, err)

	assert.True(t, filters.AsFilter(framework.TestID{Path: []string{"spies", "track calls"}}))
	assert.False(t, filters.AsFilter(framework.TestID{Path: []string{"spies", "slow one"}}))
	assert.False(t, filters.AsFilter(framework.TestID{Path: []string{"matchers"}}))

	rc := Config{Run: []string{"spies"}}.RunConfig(filters, nil)
	assert.NotNil(t, rc.Filter)

	_, err = Config{Skip: []string{"("}}.Filters()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	const name = "SPECBASIS_DOTENV_TEST"
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(name+"=from-file\n"), 0o600))
	defer os.Unsetenv(name)

	require.NoError(t, LoadDotEnv(path, true))
	assert.Equal(t, "from-file", os.Getenv(name))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	assert.NoError(t, LoadDotEnv(missing, false))

	err := LoadDotEnv(missing, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.env")
}
