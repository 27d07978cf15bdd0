// Package config loads service settings: built-in defaults, then an optional
// YAML file, then environment variables (a .env file in the working
// directory is loaded first).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/blueprint/core/cost"
)

// DefaultPath is read when no path is given and BLUEPRINT_CONFIG is unset.
// A missing default file is not an error.
const DefaultPath = "blueprint.yaml"

// Providers lists the accepted provider names.
var Providers = []string{"openai", "gemini", "genai", "anthropic"}

type Config struct {
	Provider   ProviderConfig   `yaml:"provider"`
	Generation GenerationConfig `yaml:"generation"`
	Recovery   RecoveryConfig   `yaml:"recovery"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Prompt     PromptConfig     `yaml:"prompt"`
	// Pricing adds to or overrides the built-in model price table.
	Pricing map[string]cost.ModelCost `yaml:"pricing"`
}

type ProviderConfig struct {
	// Name selects the backend: openai, gemini, genai or anthropic.
	Name  string `yaml:"name"`
	Model string `yaml:"model"`
	// APIKey and BaseURL override the provider's own environment variables.
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	// Timeout bounds a single upstream call. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
}

type GenerationConfig struct {
	MaxRetries  int           `yaml:"maxRetries"`
	RetryDelay  time.Duration `yaml:"retryDelay"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	JSONMode    bool          `yaml:"jsonMode"`
}

type RecoveryConfig struct {
	// StrictIntegrity rejects candidates with dangling edges or duplicate ids.
	StrictIntegrity bool `yaml:"strictIntegrity"`
	// LibraryRepair enables the jsonrepair last-resort strategy.
	LibraryRepair bool `yaml:"libraryRepair"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `yaml:"maxBodyBytes"`
	// AllowedOrigins enables CORS for the listed origins ("*" for any).
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type LogConfig struct {
	// Level and Format are passed to slogobs; empty means its env defaults.
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Middleware is the client logging detail: minimal, standard or verbose.
	// Empty disables the logging middleware.
	Middleware string `yaml:"middleware"`
}

type PromptConfig struct {
	// SystemFile replaces the built-in system instruction with a file's
	// contents.
	SystemFile string `yaml:"systemFile"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			Name:    "openai",
			Model:   "gemini-2.5-flash",
			Timeout: 120 * time.Second,
		},
		Generation: GenerationConfig{
			MaxRetries:  3,
			RetryDelay:  1500 * time.Millisecond,
			Temperature: 0.2,
			MaxTokens:   16000,
			JSONMode:    true,
		},
		Recovery: RecoveryConfig{
			LibraryRepair: true,
		},
		Server: ServerConfig{
			Addr:            ":3001",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    10 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    1 << 20,
			AllowedOrigins:  []string{"*"},
		},
	}
}

// Load returns the effective configuration. path may be empty, in which case
// BLUEPRINT_CONFIG and then DefaultPath are tried; only an explicitly named
// file must exist.
func Load(path string) (*Config, error) {
	// .env is optional, but a broken one is reported.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("BLUEPRINT_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath
		}
	}

	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from BLUEPRINT_* variables. PORT is honored for
// platforms that inject it.
func (c *Config) applyEnv() error {
	setString(&c.Provider.Name, "BLUEPRINT_PROVIDER")
	setString(&c.Provider.Model, "BLUEPRINT_MODEL")
	setString(&c.Provider.APIKey, "BLUEPRINT_API_KEY")
	setString(&c.Provider.BaseURL, "BLUEPRINT_BASE_URL")
	setString(&c.Server.Addr, "BLUEPRINT_ADDR")
	setString(&c.Log.Level, "BLUEPRINT_LOG_LEVEL")
	setString(&c.Log.Format, "BLUEPRINT_LOG_FORMAT")
	setString(&c.Log.Middleware, "BLUEPRINT_LOG_MIDDLEWARE")
	setString(&c.Prompt.SystemFile, "BLUEPRINT_SYSTEM_PROMPT_FILE")

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && os.Getenv("BLUEPRINT_ADDR") == "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if origins := os.Getenv("BLUEPRINT_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	var errs []error
	errs = append(errs,
		setDuration(&c.Provider.Timeout, "BLUEPRINT_TIMEOUT"),
		setInt(&c.Generation.MaxRetries, "BLUEPRINT_MAX_RETRIES"),
		setDuration(&c.Generation.RetryDelay, "BLUEPRINT_RETRY_DELAY"),
		setFloat32(&c.Generation.Temperature, "BLUEPRINT_TEMPERATURE"),
		setInt(&c.Generation.MaxTokens, "BLUEPRINT_MAX_TOKENS"),
		setBool(&c.Generation.JSONMode, "BLUEPRINT_JSON_MODE"),
		setBool(&c.Recovery.StrictIntegrity, "BLUEPRINT_STRICT_INTEGRITY"),
		setBool(&c.Recovery.LibraryRepair, "BLUEPRINT_LIBRARY_REPAIR"),
	)
	return errors.Join(errs...)
}

// Validate checks value ranges and the provider name.
func (c *Config) Validate() error {
	var errs []error

	known := false
	for _, name := range Providers {
		if c.Provider.Name == name {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("provider.name %q is not one of %s", c.Provider.Name, strings.Join(Providers, ", ")))
	}
	if c.Provider.Timeout < 0 {
		errs = append(errs, errors.New("provider.timeout must not be negative"))
	}
	if c.Generation.MaxRetries < 0 {
		errs = append(errs, errors.New("generation.maxRetries must not be negative"))
	}
	if c.Generation.RetryDelay < 0 {
		errs = append(errs, errors.New("generation.retryDelay must not be negative"))
	}
	if c.Generation.MaxTokens <= 0 {
		errs = append(errs, errors.New("generation.maxTokens must be greater than 0"))
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		errs = append(errs, errors.New("generation.temperature must be between 0 and 2"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must not be empty"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.maxBodyBytes must be greater than 0"))
	}
	for model, price := range c.Pricing {
		if price.InputCostPerMillion < 0 || price.OutputCostPerMillion < 0 {
			errs = append(errs, fmt.Errorf("pricing.%s must not be negative", model))
		}
	}
	switch c.Log.Middleware {
	case "", "minimal", "standard", "verbose":
	default:
		errs = append(errs, fmt.Errorf("log.middleware %q must be minimal, standard or verbose", c.Log.Middleware))
	}

	return errors.Join(errs...)
}

// SystemPrompt returns the contents of Prompt.SystemFile, or "" when unset.
func (c *Config) SystemPrompt() (string, error) {
	if c.Prompt.SystemFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Prompt.SystemFile)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat32(dst *float32, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = float32(f)
	return nil
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
