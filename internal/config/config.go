package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	BackendHTTP   = "http"
	BackendOpenAI = "openai"

	DefaultProfile        = "default"
	DefaultEndpoint       = "http://localhost:8001/ask"
	DefaultModel          = "gpt-4o-mini"
	DefaultRequestTimeout = 60 * time.Second
)

var ErrProfileNotFound = errors.New("profile not found")

type Profile struct {
	Backend        string `json:"backend"`
	Endpoint       string `json:"endpoint,omitempty"`
	Schema         string `json:"schema,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	APIKey         string `json:"api_key,omitempty"`
	BaseURL        string `json:"base_url,omitempty"`
	Model          string `json:"model,omitempty"`
	SystemPrompt   string `json:"system_prompt,omitempty"`
	RequestTimeout int    `json:"request_timeout,omitempty"` // Seconds; 0 means default, negative disables
}

// BackendName returns the backend, defaulting to http.
func (p Profile) BackendName() string {
	if b := strings.ToLower(strings.TrimSpace(p.Backend)); b != "" {
		return b
	}
	return BackendHTTP
}

func (p Profile) IsValid() bool {
	switch p.BackendName() {
	case BackendHTTP:
		return p.Endpoint != ""
	case BackendOpenAI:
		return p.APIKey != ""
	default:
		return false
	}
}

// Target describes where questions go, for display.
func (p Profile) Target() string {
	if p.BackendName() == BackendOpenAI {
		if p.BaseURL != "" {
			return p.BaseURL + " (" + p.Model + ")"
		}
		return "OpenAI (" + p.Model + ")"
	}
	return p.Endpoint
}

// Env holds overrides read from the process environment.
type Env struct {
	Home           string `env:"ECOCHAT_HOME"`
	Profile        string `env:"ECOCHAT_PROFILE"`
	Endpoint       string `env:"ECOCHAT_ENDPOINT"`
	APIKey         string `env:"ECOCHAT_API_KEY"`
	Model          string `env:"ECOCHAT_MODEL"`
	RequestTimeout string `env:"ECOCHAT_REQUEST_TIMEOUT"`
	LogLevel       string `env:"ECOCHAT_LOG_LEVEL" envDefault:"info"`
}

type Config struct {
	Profiles      map[string]Profile `json:"profiles"`
	ActiveProfile string             `json:"active_profile"`

	currentName    string
	currentProfile *Profile
	requestTimeout time.Duration
	env            Env
	path           string
}

// LoadEnvFiles loads .env style files that exist. Variables already set in
// the environment win.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

func LoadConfig() (*Config, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	configPath, err := getConfigPath(e.Home)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load existing config or create default
	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.env = e
	config.path = configPath

	// Validate and set current profile
	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// Current returns the active profile with environment overrides applied.
func (c *Config) Current() Profile {
	if c.currentProfile == nil {
		return Profile{Backend: BackendHTTP}
	}
	return *c.currentProfile
}

func (c *Config) CurrentName() string {
	return c.currentName
}

func (c *Config) IsValid() bool {
	return c.currentProfile != nil && c.currentProfile.IsValid()
}

// RequestTimeout is the watchdog applied to each request. Zero disables it.
func (c *Config) RequestTimeout() time.Duration {
	return c.requestTimeout
}

func (c *Config) LogLevel() string {
	return c.env.LogLevel
}

// Dir is the directory holding config.json and the log file.
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

func (c *Config) Path() string {
	return c.path
}

// HasProfile reports whether name exists in the file.
func (c *Config) HasProfile(name string) bool {
	_, ok := c.Profiles[name]
	return ok
}

// Use makes name the active profile in memory. Call Save to persist it.
func (c *Config) Use(name string) error {
	if !c.HasProfile(name) {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.ActiveProfile = name
	c.env.Profile = ""
	return c.setCurrentProfile()
}

func getConfigPath(home string) (string, error) {
	configDir := home

	// Use ECOCHAT_HOME if set, otherwise use user's home directory
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".ecochat", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func NewDefaultProfile() Profile {
	return Profile{
		Backend:  BackendHTTP,
		Endpoint: DefaultEndpoint,
		Schema:   "ask",
		Model:    DefaultModel,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			DefaultProfile: NewDefaultProfile(),
		},
		ActiveProfile: DefaultProfile,
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Save writes profiles and the active profile name. Environment overrides are
// never written back.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	return saveConfig(c, c.path)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	name := c.ActiveProfile
	if c.env.Profile != "" {
		if !c.HasProfile(c.env.Profile) {
			return fmt.Errorf("%w: %s (from ECOCHAT_PROFILE)", ErrProfileNotFound, c.env.Profile)
		}
		name = c.env.Profile
	}

	profile, exists := c.Profiles[name]
	if !exists {
		// If active profile doesn't exist, fall back to the first one by name
		name = firstProfileName(c.Profiles)
		profile = c.Profiles[name]
		c.ActiveProfile = name
	}

	c.applyOverrides(&profile)

	timeout, err := c.resolveTimeout(profile)
	if err != nil {
		return err
	}

	c.currentName = name
	c.currentProfile = &profile
	c.requestTimeout = timeout
	return nil
}

func (c *Config) applyOverrides(p *Profile) {
	if c.env.Endpoint != "" {
		p.Endpoint = c.env.Endpoint
	}
	if c.env.APIKey != "" {
		p.APIKey = c.env.APIKey
	}
	if c.env.Model != "" {
		p.Model = c.env.Model
	}
	if p.Model == "" {
		p.Model = DefaultModel
	}
}

func (c *Config) resolveTimeout(p Profile) (time.Duration, error) {
	if raw := strings.TrimSpace(c.env.RequestTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid ECOCHAT_REQUEST_TIMEOUT %q: %w", raw, err)
		}
		if d < 0 {
			return 0, nil
		}
		return d, nil
	}

	switch {
	case p.RequestTimeout < 0:
		return 0, nil
	case p.RequestTimeout == 0:
		return DefaultRequestTimeout, nil
	default:
		return time.Duration(p.RequestTimeout) * time.Second, nil
	}
}

func firstProfileName(profiles map[string]Profile) string {
	first := ""
	for name := range profiles {
		if first == "" || name < first {
			first = name
		}
	}
	return first
}
