package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile_Formats(t *testing.T) {
	dir := t.TempDir()
	want := cliConfig{
		Endpoint: "http://db:8529",
		Database: "app",
		Username: "root",
		Password: "secret",
		Timeout:  5 * time.Second,
	}

	files := map[string]string{
		"profile.yaml": "endpoint: http://db:8529\ndatabase: app\nusername: root\npassword: secret\ntimeout: 5s\n",
		"profile.yml":  "endpoint: http://db:8529\ndatabase: app\nusername: root\npassword: secret\ntimeout: 5s\n",
		"profile.toml": "endpoint = \"http://db:8529\"\ndatabase = \"app\"\nusername = \"root\"\npassword = \"secret\"\ntimeout = \"5s\"\n",
		"profile.json": `{"endpoint":"http://db:8529","database":"app","username":"root","password":"secret","timeout":"5s"}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := loadConfigFile(writeFile(t, dir, name, content))
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadConfigFile(writeFile(t, dir, "profile.ini", "endpoint=x"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = loadConfigFile(writeFile(t, dir, "typo.yaml", "endpont: http://db:8529\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = loadConfigFile(writeFile(t, dir, "broken.json", `{"endpoint":`))
	assert.Error(t, err)

	_, err = loadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	path := writeFile(t, t.TempDir(), "profile.yaml", "endpoint: http://db:8529\ndatabase: app\ntimeout: 5s\n")
	require.NoError(t, rootCmd.PersistentFlags().Set("database", "override"))

	cfg, err := resolveConfig(rootCmd, path)
	require.NoError(t, err)
	assert.Equal(t, "http://db:8529", cfg.Endpoint)
	assert.Equal(t, "override", cfg.Database)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestResolveConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetFlags(rootCmd)

	cfg, err := resolveConfig(rootCmd, "")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8529", cfg.Endpoint)
	assert.Equal(t, "_system", cfg.Database)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	_, err = resolveConfig(rootCmd, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestResolveConfig_DefaultFileInHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	resetFlags(rootCmd)
	writeFile(t, home, defaultConfigName, "token: abc\n")

	cfg, err := resolveConfig(rootCmd, "")
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Token)
}

func TestClientOptions(t *testing.T) {
	opts, err := clientOptions(cliConfig{Database: "app", Token: "abc"})
	require.NoError(t, err)
	assert.Len(t, opts, 4)

	opts, err = clientOptions(cliConfig{Database: "app", Username: "root", Password: "pw", UserAgent: "ops"})
	require.NoError(t, err)
	assert.Len(t, opts, 5)
}
