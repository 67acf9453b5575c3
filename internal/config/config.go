package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"docaiocr/internal/logger"
)

// Environment keys read by Load.
const (
	KeyCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	KeyProjectID   = "DOC_AI_PROJECT_ID"
	KeyLocation    = "DOC_AI_LOCATION"
	KeyProcessorID = "DOC_AI_PROCESSOR_ID"
	KeyOutputDir   = "OUTPUT_DIR"
	KeyEngine      = "OCR_ENGINE"
	KeyConfigFile  = "DOC_AI_CONFIG"

	KeyLogLevel      = "LOG_LEVEL"
	KeyLogFormat     = "LOG_FORMAT"
	KeyLogTimeFormat = "LOG_TIME_FORMAT"
	KeyLogOutput     = "LOG_OUTPUT"
)

// Supported OCR engines.
const (
	EngineDocumentAI = "documentai"
	EngineVision     = "vision"
)

// ErrUnknownEngine is returned when OCR_ENGINE names an engine that does not exist.
var ErrUnknownEngine = errors.New("unknown OCR engine")

type Config struct {
	// Google Cloud Configuration
	CredentialsFile string
	ProjectID       string
	Location        string
	ProcessorID     string

	// Output Configuration
	OutputDir string
	Engine    string
}

// MissingKeysError reports every required key that was empty or unset.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "missing required environment values:\n  - " + strings.Join(e.Keys, "\n  - ")
}

// fileConfig is the optional YAML defaults file named by DOC_AI_CONFIG.
type fileConfig struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
	OutputDir   string `yaml:"output_dir"`
	Engine      string `yaml:"engine"`
}

// Load builds the configuration from the process environment. Values from the
// YAML file named by DOC_AI_CONFIG act as defaults beneath the environment.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with an explicit lookup function.
func LoadFrom(getenv func(string) string) (*Config, error) {
	var defaults fileConfig
	if path := getenv(KeyConfigFile); path != "" {
		fc, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		defaults = *fc
	}

	env := func(key, fallback string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return fallback
	}

	config := &Config{
		CredentialsFile: env(KeyCredentials, ""),
		ProjectID:       env(KeyProjectID, defaults.ProjectID),
		Location:        env(KeyLocation, or(defaults.Location, "us")),
		ProcessorID:     env(KeyProcessorID, defaults.ProcessorID),
		OutputDir:       env(KeyOutputDir, or(defaults.OutputDir, "output")),
		Engine:          strings.ToLower(env(KeyEngine, or(defaults.Engine, EngineDocumentAI))),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{KeyCredentials, c.CredentialsFile},
		{KeyProjectID, c.ProjectID},
		{KeyLocation, c.Location},
		{KeyProcessorID, c.ProcessorID},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}

	switch c.Engine {
	case EngineDocumentAI, EngineVision:
	default:
		return fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownEngine, c.Engine, EngineDocumentAI, EngineVision)
	}
	return nil
}

// LoggerConfigFromEnv reads only the logging keys, so logging can be set up
// before the rest of the configuration is validated.
func LoggerConfigFromEnv() logger.LogConfig {
	return LoggerConfigFrom(os.Getenv)
}

// LoggerConfigFrom is LoggerConfigFromEnv with an explicit lookup function.
// Unset keys keep the logger defaults.
func LoggerConfigFrom(getenv func(string) string) logger.LogConfig {
	cfg := logger.DefaultConfig()
	cfg.Level = or(getenv(KeyLogLevel), cfg.Level)
	cfg.Format = or(getenv(KeyLogFormat), cfg.Format)
	cfg.TimeFormat = or(getenv(KeyLogTimeFormat), cfg.TimeFormat)
	cfg.Output = or(getenv(KeyLogOutput), cfg.Output)
	return cfg
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
