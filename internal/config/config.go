// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for tailchat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.tailchat/config.toml
//   - ~/.tailchat/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/tailchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tailchat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Follow controls the auto-scroll behaviour of the chat pane.
	Follow FollowConfig `toml:"follow" json:"follow"`

	// Stream controls how assistant replies are paced and flushed.
	Stream StreamConfig `toml:"stream" json:"stream"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`

	// Feed selects where conversation content comes from.
	Feed FeedConfig `toml:"feed" json:"feed"`
}

// FollowConfig contains the auto-follow settings.
type FollowConfig struct {
	// NearBottom is how many rows from the end still count as "at the latest".
	NearBottom int `toml:"near_bottom" json:"near_bottom"`
	// AnimationMS is the length of the animated jump to the latest content.
	AnimationMS int `toml:"animation_ms" json:"animation_ms"`
	// FrameRate is the animation frame rate in frames per second.
	FrameRate int `toml:"frame_rate" json:"frame_rate"`
	// Placeholder marks a user message that is still being composed.
	Placeholder string `toml:"placeholder" json:"placeholder"`
}

// StreamConfig contains token streaming settings.
type StreamConfig struct {
	// BatchSize is the number of buffered tokens that forces a flush.
	BatchSize int `toml:"batch_size" json:"batch_size"`
	// MaxFPS caps how often buffered tokens reach the screen.
	MaxFPS int `toml:"max_fps" json:"max_fps"`
	// TokensPerSecond paces simulated replies.
	TokensPerSecond float64 `toml:"tokens_per_second" json:"tokens_per_second"`
	// Burst is the token bucket size for simulated replies.
	Burst int `toml:"burst" json:"burst"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// ShowTimestamps renders a timestamp next to each message.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// Markdown renders finished assistant messages as markdown.
	Markdown bool `toml:"markdown" json:"markdown"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// File receives log output. Empty means ~/.tailchat/tailchat.log, "-" disables logging.
	File string `toml:"file" json:"file"`
	// Level is one of trace, debug, info, warn, error.
	Level string `toml:"level" json:"level"`
}

// FeedConfig contains the conversation source settings.
type FeedConfig struct {
	// Transcript is a TOML transcript that scripts the assistant's replies.
	Transcript string `toml:"transcript" json:"transcript"`
	// Watch reloads the transcript when it changes on disk.
	Watch bool `toml:"watch" json:"watch"`
	// Autoplay submits the transcript's user turns automatically.
	Autoplay bool `toml:"autoplay" json:"autoplay"`
	// AutoplayDelayMS is the pause between a finished reply and the next autoplayed turn.
	AutoplayDelayMS int `toml:"autoplay_delay_ms" json:"autoplay_delay_ms"`
}

// AnimationDuration returns the animated scroll length.
func (f FollowConfig) AnimationDuration() time.Duration {
	return time.Duration(f.AnimationMS) * time.Millisecond
}

// FrameInterval returns the time between animation frames.
func (f FollowConfig) FrameInterval() time.Duration {
	if f.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(f.FrameRate)
}

// AutoplayDelay returns the autoplay pause.
func (f FeedConfig) AutoplayDelay() time.Duration {
	return time.Duration(f.AutoplayDelayMS) * time.Millisecond
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Version: "1",
		Follow: FollowConfig{
			NearBottom:  2,
			AnimationMS: 300,
			FrameRate:   60,
			Placeholder: "[...]",
		},
		Stream: StreamConfig{
			BatchSize:       15,
			MaxFPS:          30,
			TokensPerSecond: 40,
			Burst:           8,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: false,
			Markdown:       true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Feed: FeedConfig{
			AutoplayDelayMS: 1200,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the tailchat configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tailchat"), nil
}

// ConfigPathTOML returns the path of the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path of the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultLogPath returns the log file used when log.file is empty.
func DefaultLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tailchat.log"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load loads configuration from the default locations.
//
// The TOML file wins over the JSON file. When neither exists the defaults are
// used. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	for _, candidate := range []struct {
		path func() (string, error)
		load func(*Config, string) error
		kind string
	}{
		{ConfigPathTOML, LoadTOML, "TOML"},
		{ConfigPathJSON, LoadJSON, "JSON"},
	} {
		path, err := candidate.path()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if err := candidate.load(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load %s config: %w", candidate.kind, err)
			cfg = Default()
			continue
		}
		return finish(cfg)
	}

	cfg, err := finish(cfg)
	if err != nil {
		return nil, err
	}
	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadFromPath loads configuration from an explicit file. The format is
// chosen by extension; anything but .json is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// SaveTOML writes the configuration to a TOML file with a short header.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tailchat configuration file\n")
	sb.WriteString("# Generated by tailchat - edit with care\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every validation error found in a config.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLevels = []string{"trace", "debug", "info", "warn", "error"}

// Validate checks the configuration and returns ValidateErrors if anything is
// out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Follow.NearBottom < 0 {
		errs = append(errs, ValidationError{"follow.near_bottom", "must not be negative"})
	}
	if c.Follow.AnimationMS < 0 || c.Follow.AnimationMS > 5000 {
		errs = append(errs, ValidationError{"follow.animation_ms", "must be between 0 and 5000"})
	}
	if c.Follow.FrameRate < 1 || c.Follow.FrameRate > 240 {
		errs = append(errs, ValidationError{"follow.frame_rate", "must be between 1 and 240"})
	}
	if c.Stream.BatchSize < 1 {
		errs = append(errs, ValidationError{"stream.batch_size", "must be at least 1"})
	}
	if c.Stream.MaxFPS < 1 || c.Stream.MaxFPS > 240 {
		errs = append(errs, ValidationError{"stream.max_fps", "must be between 1 and 240"})
	}
	if c.Stream.TokensPerSecond <= 0 {
		errs = append(errs, ValidationError{"stream.tokens_per_second", "must be positive"})
	}
	if c.Stream.Burst < 1 {
		errs = append(errs, ValidationError{"stream.burst", "must be at least 1"})
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("unknown theme %q (want auto, dark or light)", c.UI.Theme)})
	}
	if !contains(validLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}
	if c.Feed.AutoplayDelayMS < 0 {
		errs = append(errs, ValidationError{"feed.autoplay_delay_ms", "must not be negative"})
	}
	if (c.Feed.Watch || c.Feed.Autoplay) && c.Feed.Transcript == "" {
		errs = append(errs, ValidationError{"feed.transcript", "required when watch or autoplay is enabled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// SetDefaults fills zero values that have no meaningful zero.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Follow.FrameRate == 0 {
		c.Follow.FrameRate = def.Follow.FrameRate
	}
	if c.Stream.BatchSize == 0 {
		c.Stream.BatchSize = def.Stream.BatchSize
	}
	if c.Stream.MaxFPS == 0 {
		c.Stream.MaxFPS = def.Stream.MaxFPS
	}
	if c.Stream.TokensPerSecond == 0 {
		c.Stream.TokensPerSecond = def.Stream.TokensPerSecond
	}
	if c.Stream.Burst == 0 {
		c.Stream.Burst = def.Stream.Burst
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TAILCHAT_TRANSCRIPT: overrides feed.transcript
//   - TAILCHAT_WATCH: "1" or "true" enables feed.watch
//   - TAILCHAT_AUTOPLAY: "1" or "true" enables feed.autoplay
//   - TAILCHAT_NEAR_BOTTOM: overrides follow.near_bottom
//   - TAILCHAT_THEME: overrides ui.theme
//   - TAILCHAT_LOG_FILE: overrides log.file
//   - TAILCHAT_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if path := os.Getenv("TAILCHAT_TRANSCRIPT"); path != "" {
		c.Feed.Transcript = path
	}
	if watch := os.Getenv("TAILCHAT_WATCH"); watch != "" {
		c.Feed.Watch = parseBool(watch)
	}
	if autoplay := os.Getenv("TAILCHAT_AUTOPLAY"); autoplay != "" {
		c.Feed.Autoplay = parseBool(autoplay)
	}
	if rows := os.Getenv("TAILCHAT_NEAR_BOTTOM"); rows != "" {
		if n, err := strconv.Atoi(rows); err == nil {
			c.Follow.NearBottom = n
		}
	}
	if theme := os.Getenv("TAILCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if file := os.Getenv("TAILCHAT_LOG_FILE"); file != "" {
		c.Log.File = file
	}
	if level := os.Getenv("TAILCHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "1" || s == "true" || s == "yes"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "follow.near_bottom").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "stream.max_fps").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
// Acronym fields such as AnimationMS still match because lookup compares
// case-insensitively.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %w", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Sprintf("config encode error: %v", err)
	}
	return sb.String()
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if cfg == nil {
			cfg = Default()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
