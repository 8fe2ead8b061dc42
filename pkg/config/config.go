package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nikogura/onepage-tailor/pkg/llm"
	"github.com/pkg/errors"
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".onepage-tailor"

// Config represents the application configuration.
type Config struct {
	Name            string           `json:"name"`
	Provider        string           `json:"provider"`
	AnthropicAPIKey string           `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string           `json:"gemini_api_key,omitempty"`
	MasterResume    string           `json:"master_resume"`
	Models          ModelsConfig     `json:"models,omitempty"`
	Generation      GenerationConfig `json:"generation,omitempty"`
	Pandoc          PandocConfig     `json:"pandoc"`
	Condense        CondenseConfig   `json:"condense,omitempty"`
	Defaults        DefaultConfig    `json:"defaults"`
}

// ModelsConfig holds model selection per provider.
type ModelsConfig struct {
	Claude string `json:"claude,omitempty"`
	Gemini string `json:"gemini,omitempty"`
}

// GenerationConfig tunes calls to the generation service.
type GenerationConfig struct {
	Temperature    float64 `json:"temperature,omitempty"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"`
}

// PandocConfig holds pandoc-related configuration. All paths are optional.
type PandocConfig struct {
	TemplatePath string `json:"template_path,omitempty"`
	ClassFile    string `json:"class_file,omitempty"`
	ReferenceDoc string `json:"reference_doc,omitempty"`
}

// CondenseConfig tunes the one-page fitting.
type CondenseConfig struct {
	SummarySentences int `json:"summary_sentences,omitempty"`
	MaxPages         int `json:"max_pages,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir    string   `json:"output_dir"`
	Formats      []string `json:"formats,omitempty"`
	KeywordLimit int      `json:"keyword_limit,omitempty"`
}

// GetModel returns the model for the configured provider, or that provider's default.
func (c *Config) GetModel() (model string) {
	switch c.Provider {
	case llm.ProviderGemini:
		model = c.Models.Gemini
		if model == "" {
			model = llm.GeminiModel
		}
	default:
		model = c.Models.Claude
		if model == "" {
			model = llm.ClaudeModel
		}
	}
	return model
}

// GetAPIKey returns the key for the configured provider.
func (c *Config) GetAPIKey() (key string) {
	if c.Provider == llm.ProviderGemini {
		key = c.GeminiAPIKey
		return key
	}
	key = c.AnthropicAPIKey
	return key
}

// GetTimeout returns the per-call generation timeout.
func (c *Config) GetTimeout() (timeout time.Duration) {
	if c.Generation.TimeoutSeconds > 0 {
		timeout = time.Duration(c.Generation.TimeoutSeconds) * time.Second
		return timeout
	}
	timeout = llm.DefaultTimeout
	return timeout
}

// GeneratorSettings returns the settings for llm.NewGenerator.
func (c *Config) GeneratorSettings() (settings llm.Settings) {
	settings = llm.Settings{
		Provider:    c.Provider,
		APIKey:      c.GetAPIKey(),
		Model:       c.GetModel(),
		Temperature: c.Generation.Temperature,
		Timeout:     c.GetTimeout(),
	}
	return settings
}

// DefaultPath returns ~/.onepage-tailor/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, DirName, "config.json")
	return path, err
}

// LoadDotEnv loads variables from an env file without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) (err error) {
	err = godotenv.Load(path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			err = nil
			return err
		}
		err = errors.Wrapf(err, "failed to load env file: %s", path)
		return err
	}
	return err
}

// Load reads configuration from file with .env and environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	err = LoadDotEnv(".env")
	if err != nil {
		return cfg, err
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'onepage-tailor init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		c.GeminiAPIKey = apiKey
	}
	if provider := os.Getenv("TAILOR_PROVIDER"); provider != "" {
		c.Provider = provider
	}
}

// Validate checks that all required configuration is present and fills defaults.
func (c *Config) Validate() (err error) {
	if c.Name == "" {
		err = errors.New("name is required in config")
		return err
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case "", "anthropic":
		c.Provider = llm.ProviderClaude
	case "google":
		c.Provider = llm.ProviderGemini
	case llm.ProviderClaude, llm.ProviderGemini:
	default:
		err = errors.Errorf("unknown provider %q (expected claude or gemini)", c.Provider)
		return err
	}

	if c.GetAPIKey() == "" {
		if c.Provider == llm.ProviderGemini {
			err = errors.New("gemini_api_key is required (set in config or GEMINI_API_KEY env var)")
			return err
		}
		err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
		return err
	}

	if c.MasterResume == "" {
		err = errors.New("master_resume is required in config")
		return err
	}

	_, err = os.Stat(c.MasterResume)
	if os.IsNotExist(err) {
		err = errors.Errorf("master resume not found: %s", c.MasterResume)
		return err
	}

	for _, path := range []string{c.Pandoc.TemplatePath, c.Pandoc.ClassFile, c.Pandoc.ReferenceDoc} {
		if path == "" {
			continue
		}
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("pandoc file not found: %s", path)
			return err
		}
	}
	err = nil

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./applications"
	}

	if len(c.Defaults.Formats) == 0 {
		c.Defaults.Formats = []string{"pdf", "docx"}
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Name:            "your-name",
		Provider:        llm.ProviderClaude,
		AnthropicAPIKey: "sk-ant-api03-...",
		MasterResume:    filepath.Join(homeDir, DirName, "master-resume.yaml"),
		Generation: GenerationConfig{
			Temperature:    llm.DefaultTemperature,
			TimeoutSeconds: int(llm.DefaultTimeout / time.Second),
		},
		Condense: CondenseConfig{
			SummarySentences: 2,
			MaxPages:         1,
		},
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Applications"),
			Formats:   []string{"pdf", "docx"},
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
