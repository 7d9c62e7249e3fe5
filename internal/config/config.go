// Package config loads and validates service configuration.
//
// Precedence is ENV > file > defaults, matching the deployment model: a YAML
// file carries the stable install-time settings, environment variables
// override per container, and the runtime settings file (see runtime.go)
// carries the few values an operator may flip while calls are in flight.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the effective service configuration after merging all sources.
type AppConfig struct {
	Listen  string `yaml:"listen"`
	BaseURL string `yaml:"base_url"` // public base URL the carrier calls back on

	DefaultLanguage string `yaml:"default_language"`

	RuntimePath string `yaml:"runtime_path"` // runtime settings file, empty disables hot-swap
	Provider    string `yaml:"provider"`     // default call provider when runtime file is absent

	RateLimitRPS   int     `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
	DispatchRPS    float64 `yaml:"dispatch_rps"` // outbound carrier courtesy limit

	CollaboratorTimeout time.Duration `yaml:"collaborator_timeout"`
	NotifyTimeout       time.Duration `yaml:"notify_timeout"`

	LogLevel string `yaml:"log_level"`

	AWS     AWSConfig     `yaml:"aws"`
	Twilio  TwilioConfig  `yaml:"twilio"`
	Connect ConnectConfig `yaml:"connect"`
	Explain ExplainConfig `yaml:"explain"`

	CatalogSource string `yaml:"catalog_source"` // "dynamodb" or "static"
	NotifySender  string `yaml:"notify_sender"`  // "sns" or "log"
}

// AWSConfig groups settings shared by the AWS-backed collaborators.
type AWSConfig struct {
	Region       string `yaml:"region"`
	SchemesTable string `yaml:"schemes_table"`
	AudioBucket  string `yaml:"audio_bucket"`
	SMSSenderID  string `yaml:"sms_sender_id"`
}

// TwilioConfig holds credentials for the Twilio call provider.
type TwilioConfig struct {
	AccountSID         string `yaml:"account_sid"`
	AuthToken          string `yaml:"auth_token"`
	FromNumber         string `yaml:"from_number"`
	ValidateSignatures bool   `yaml:"validate_signatures"`
}

// ConnectConfig holds settings for the Amazon Connect call provider.
type ConnectConfig struct {
	InstanceID    string `yaml:"instance_id"`
	ContactFlowID string `yaml:"contact_flow_id"`
	QueueARN      string `yaml:"queue_arn"`
}

// ExplainConfig holds settings for the LLM-backed explanation generator.
// An empty APIKey disables the model and the deterministic template is used.
type ExplainConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Defaults returns the built-in configuration baseline.
func Defaults() AppConfig {
	return AppConfig{
		Listen:              ":8080",
		BaseURL:             "http://localhost:8080",
		DefaultLanguage:     "hi-IN",
		Provider:            "mock",
		RateLimitRPS:        30,
		RateLimitBurst:      60,
		DispatchRPS:         1,
		CollaboratorTimeout: 3 * time.Second,
		NotifyTimeout:       10 * time.Second,
		LogLevel:            "info",
		AWS: AWSConfig{
			Region:       "ap-southeast-1",
			SchemesTable: "welfare_schemes",
			AudioBucket:  "voicebridge-audio",
			SMSSenderID:  "Sahaya",
		},
		Explain: ExplainConfig{
			Model: "gpt-4o-mini",
		},
		CatalogSource: "static",
		NotifySender:  "log",
	}
}

// Loader merges defaults, an optional YAML file and environment variables.
type Loader struct {
	path string
}

// NewLoader creates a configuration loader for the given file path.
// An empty path means ENV-only configuration.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load produces the effective configuration. A missing file is not an error;
// a malformed file is.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.path != "" {
		data, err := os.ReadFile(l.path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to ENV
		case err != nil:
			return cfg, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config file %s: %w", l.path, err)
			}
		}
	}

	mergeEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func mergeEnv(cfg *AppConfig) {
	cfg.Listen = ParseString("SAHAYA_LISTEN", cfg.Listen)
	cfg.BaseURL = ParseString("SAHAYA_BASE_URL", cfg.BaseURL)
	cfg.DefaultLanguage = ParseString("SAHAYA_DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.RuntimePath = ParseString("SAHAYA_RUNTIME_PATH", cfg.RuntimePath)
	cfg.Provider = ParseString("SAHAYA_CALL_PROVIDER", cfg.Provider)
	cfg.RateLimitRPS = ParseInt("SAHAYA_RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = ParseInt("SAHAYA_RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.CollaboratorTimeout = ParseDuration("SAHAYA_COLLABORATOR_TIMEOUT", cfg.CollaboratorTimeout)
	cfg.NotifyTimeout = ParseDuration("SAHAYA_NOTIFY_TIMEOUT", cfg.NotifyTimeout)
	cfg.LogLevel = ParseString("SAHAYA_LOG_LEVEL", cfg.LogLevel)
	cfg.CatalogSource = ParseString("SAHAYA_CATALOG_SOURCE", cfg.CatalogSource)
	cfg.NotifySender = ParseString("SAHAYA_NOTIFY_SENDER", cfg.NotifySender)

	cfg.AWS.Region = ParseString("AWS_REGION", cfg.AWS.Region)
	cfg.AWS.SchemesTable = ParseString("SAHAYA_SCHEMES_TABLE", cfg.AWS.SchemesTable)
	cfg.AWS.AudioBucket = ParseString("SAHAYA_AUDIO_BUCKET", cfg.AWS.AudioBucket)
	cfg.AWS.SMSSenderID = ParseString("SAHAYA_SMS_SENDER_ID", cfg.AWS.SMSSenderID)

	cfg.Twilio.AccountSID = ParseString("TWILIO_ACCOUNT_SID", cfg.Twilio.AccountSID)
	cfg.Twilio.AuthToken = ParseString("TWILIO_AUTH_TOKEN", cfg.Twilio.AuthToken)
	cfg.Twilio.FromNumber = ParseString("TWILIO_PHONE_NUMBER", cfg.Twilio.FromNumber)
	cfg.Twilio.ValidateSignatures = ParseBool("SAHAYA_VALIDATE_SIGNATURES", cfg.Twilio.ValidateSignatures)

	cfg.Connect.InstanceID = ParseString("CONNECT_INSTANCE_ID", cfg.Connect.InstanceID)
	cfg.Connect.ContactFlowID = ParseString("CONNECT_CONTACT_FLOW_ID", cfg.Connect.ContactFlowID)
	cfg.Connect.QueueARN = ParseString("CONNECT_QUEUE_ARN", cfg.Connect.QueueARN)

	cfg.Explain.APIKey = ParseString("SAHAYA_EXPLAIN_API_KEY", cfg.Explain.APIKey)
	cfg.Explain.Model = ParseString("SAHAYA_EXPLAIN_MODEL", cfg.Explain.Model)
	cfg.Explain.BaseURL = ParseString("SAHAYA_EXPLAIN_BASE_URL", cfg.Explain.BaseURL)
}

// Validate checks the configuration for values that would break the webhook
// round-trips at runtime.
func Validate(cfg AppConfig) error {
	if cfg.Listen == "" {
		return errors.New("listen address must not be empty")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", cfg.BaseURL)
	}
	if strings.HasSuffix(cfg.BaseURL, "/") {
		return fmt.Errorf("base_url %q must not end with a slash", cfg.BaseURL)
	}
	if cfg.CollaboratorTimeout <= 0 {
		return errors.New("collaborator_timeout must be positive")
	}
	if cfg.NotifyTimeout <= 0 {
		return errors.New("notify_timeout must be positive")
	}
	switch cfg.CatalogSource {
	case "dynamodb", "static":
	default:
		return fmt.Errorf("catalog_source %q is not supported", cfg.CatalogSource)
	}
	switch cfg.NotifySender {
	case "sns", "log":
	default:
		return fmt.Errorf("notify_sender %q is not supported", cfg.NotifySender)
	}
	return nil
}
