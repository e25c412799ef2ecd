package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFile_Missing(t *testing.T) {
	c, err := LoadFile(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"endpoint":"http://localhost:8080","execute_path":"","diagram":{"renderer":"kroki"}}`), 0o600))

	c, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.Endpoint)
	assert.Equal(t, DefaultExecute, c.ExecutePath)
	assert.Equal(t, DefaultVersion, c.VersionPath)
	assert.Equal(t, "kroki", c.Diagram.Renderer)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadFile_Corrupt(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{`), 0o600))
	c, err := LoadFile(p)
	assert.Error(t, err)
	assert.Equal(t, Default(), c)
}

func TestSaveFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	want := Default()
	want.ShareBaseURL = "https://share.example.com/"
	require.NoError(t, SaveFile(p, want))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestApplyEnv(t *testing.T) {
	c := Default().ApplyEnv(env(map[string]string{EnvEndpoint: " http://127.0.0.1:3000 ", EnvVerbose: "1"}))
	assert.Equal(t, "http://127.0.0.1:3000", c.Endpoint)
	assert.Equal(t, "debug", c.LogLevel)

	c = Default().ApplyEnv(env(nil))
	assert.Equal(t, Default(), c)
}

func TestVerbose(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {"on", true},
		{"", false}, {"0", false}, {"false", false},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			assert.Equal(t, tt.want, Verbose(env(map[string]string{EnvVerbose: tt.val})))
		})
	}
}

func TestShareBase(t *testing.T) {
	c := Default()
	c.Endpoint = "http://localhost:8080/"
	assert.Equal(t, "http://localhost:8080/", c.ShareBase())
	c.ShareBaseURL = "https://fiddle.example.com/app"
	assert.Equal(t, "https://fiddle.example.com/app", c.ShareBase())
}
