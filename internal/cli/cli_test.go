// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tailchat/internal/config"
)

// execute runs the command tree with args in a fresh HOME.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"TAILCHAT_TRANSCRIPT", "TAILCHAT_WATCH", "TAILCHAT_AUTOPLAY", "TAILCHAT_NEAR_BOTTOM", "TAILCHAT_THEME", "TAILCHAT_LOG_FILE", "TAILCHAT_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("NO_COLOR", "1")
	return home
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["version"])
	assert.True(t, names["config"])

	cfgCmd, _, err := root.Find([]string{"config"})
	require.NoError(t, err)
	var subs []string
	for _, cmd := range cfgCmd.Commands() {
		subs = append(subs, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"init", "show", "path", "get", "set"}, subs)

	for _, flag := range []string{"transcript", "watch", "autoplay", "theme"} {
		assert.NotNil(t, root.Flags().Lookup(flag), flag)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tailchat "+Version))
}

func TestConfigLifecycle(t *testing.T) {
	home := isolate(t)
	want := filepath.Join(home, ".tailchat", "config.toml")

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out))

	out, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, want)
	assert.FileExists(t, want)

	_, err = execute(t, "config", "init")
	assert.Error(t, err, "init refuses to overwrite")
	_, err = execute(t, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, "config", "get", "follow.near_bottom")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))

	_, err = execute(t, "config", "set", "follow.near_bottom", "5")
	require.NoError(t, err)
	out, err = execute(t, "config", "get", "follow.near_bottom")
	require.NoError(t, err)
	assert.Equal(t, "5", strings.TrimSpace(out))

	out, err = execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "near_bottom = 5")

	out, err = execute(t, "config", "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"near_bottom": 5`)
}

func TestConfigSetRejectsInvalid(t *testing.T) {
	isolate(t)
	_, err := execute(t, "config", "set", "ui.theme", "purple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.theme")

	_, err = execute(t, "config", "get", "follow.nope")
	assert.Error(t, err)
}

func TestConfigExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	cfg := config.Default()
	cfg.Follow.AnimationMS = 120
	require.NoError(t, config.SaveTOML(cfg, path))

	out, err := execute(t, "--config", path, "config", "get", "follow.animation_ms")
	require.NoError(t, err)
	assert.Equal(t, "120", strings.TrimSpace(out))

	out, err = execute(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestRunChatValidatesFlags(t *testing.T) {
	isolate(t)
	_, err := execute(t, "--theme", "purple")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.theme")

	_, err = execute(t, "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed.transcript")
}

func TestRunChatRequiresTerminal(t *testing.T) {
	if IsTTY() && IsStdoutTTY() {
		t.Skip("running in a terminal")
	}
	isolate(t)
	_, err := execute(t)
	var ttyErr *TTYRequiredError
	require.True(t, errors.As(err, &ttyErr))
	assert.Contains(t, err.Error(), "not a terminal")
}

func TestApplyFlags(t *testing.T) {
	opts := &rootOptions{}
	cmd := &cobra.Command{Use: "tailchat"}
	cmd.Flags().StringVar(&opts.transcript, "transcript", "", "")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "")
	cmd.Flags().BoolVar(&opts.autoplay, "autoplay", false, "")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "")
	require.NoError(t, cmd.ParseFlags([]string{"--transcript", "demo.toml", "--autoplay"}))

	cfg := config.Default()
	cfg.Feed.Watch = true
	applyFlags(cmd, cfg, opts)

	assert.Equal(t, "demo.toml", cfg.Feed.Transcript)
	assert.True(t, cfg.Feed.Autoplay)
	assert.True(t, cfg.Feed.Watch, "unset flags keep the config value")
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestNewFileLogger(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "logs", "tailchat.log")

	logger, closeLog, err := newFileLogger(config.LogConfig{File: path, Level: "info"})
	require.NoError(t, err)
	logger.Info("hello from test", "n", 1)
	logger.Debug("hidden")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.NotContains(t, string(data), "hidden")

	logger, closeLog, err = newFileLogger(config.LogConfig{File: "-"})
	require.NoError(t, err)
	logger.Info("discarded")
	closeLog()
}
