package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	From     string `yaml:"from" validate:"required,email"`
}

// TwilioConfig holds the SMS provider credentials.
type TwilioConfig struct {
	AccountSID string `yaml:"accountSID" validate:"required"`
	AuthToken  string `yaml:"authToken" validate:"required"`
	FromNumber string `yaml:"fromNumber" validate:"required"`
}

// CRMConfig holds the bulk-campaign CRM settings.
type CRMConfig struct {
	APIKey string `yaml:"apiKey" validate:"required"`
}

// CalendarConfig holds the calendar forwarding settings. CalendarID
// empty targets the account's primary calendar.
type CalendarConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CalendarID string `yaml:"calendarID,omitempty"`
}

// Config represents the application configuration. The channel
// sections (smtp, twilio, crm, calendar) are optional; a missing
// section disables that channel.
type Config struct {
	DatabaseURL   string          `yaml:"databaseURL" validate:"required"`
	SystemActorID string          `yaml:"systemActorID" validate:"required,uuid4"`
	PortalLink    string          `yaml:"portalLink,omitempty" validate:"omitempty,url"`
	ShiftStart    string          `yaml:"shiftStart,omitempty" validate:"omitempty,datetime=15:04"`
	ShiftEnd      string          `yaml:"shiftEnd,omitempty" validate:"omitempty,datetime=15:04"`
	SMTP          *SMTPConfig     `yaml:"smtp,omitempty"`
	Twilio        *TwilioConfig   `yaml:"twilio,omitempty"`
	CRM           *CRMConfig      `yaml:"crm,omitempty"`
	Calendar      *CalendarConfig `yaml:"calendar,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an
// environment suffix. For example, env="test" looks for
// "portal_config.test.yaml". The file is searched for in the current
// directory first, then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// findConfigFile searches for the config file in the current directory
// and the home directory. env, when set, is added as an extension
// before .yaml.
func findConfigFile(env string) (string, error) {
	configFileName := "portal_config.yaml"
	if env != "" {
		configFileName = "portal_config." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
