package config

import (
	"flag"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/Brownie44l1/cxr-api/internal/model"
)

// DefaultAPIURL is the prediction endpoint base URL baked into the front ends.
// Override at build time with
// -ldflags "-X github.com/Brownie44l1/cxr-api/internal/config.DefaultAPIURL=https://..."
var DefaultAPIURL = "http://localhost:8080"

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"`

	// Prediction endpoint
	Port            string `env:"PORT"`
	MaxUploadSizeMB int    `env:"MAX_UPLOAD_SIZE_MB"`
	Mock            MockConfig

	// Front ends
	WebPort    string        `env:"WEB_PORT"`
	APIURL     string        `env:"API_URL"`
	APITimeout time.Duration `env:"API_TIMEOUT"` // 0 waits forever
	SessionTTL time.Duration `env:"SESSION_TTL"`

	// Args holds the command-line arguments left after flags.
	Args []string
}

// MockConfig is the fixed result served by the mock predictor.
type MockConfig struct {
	Label          string  `env:"MOCK_LABEL"`
	Confidence     float64 `env:"MOCK_CONFIDENCE"`
	ExplanationURL string  `env:"MOCK_EXPLANATION_URL"`
}

func Defaults() *Config {
	return &Config{
		Port:            "8080",
		MaxUploadSizeMB: 10,
		Mock: MockConfig{
			Label:          model.DefaultMockLabel,
			Confidence:     model.DefaultMockConfidence,
			ExplanationURL: model.DefaultMockExplanationURL,
		},
		WebPort:    "3000",
		APIURL:     DefaultAPIURL,
		SessionTTL: 30 * time.Minute,
	}
}

// Load builds the configuration from defaults, then .env and the process
// environment, then command-line flags.
func Load(name string, args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "enable debug logging")
	fs.StringVar(&cfg.Port, "port", cfg.Port, "prediction endpoint port")
	fs.IntVar(&cfg.MaxUploadSizeMB, "max-upload-size-mb", cfg.MaxUploadSizeMB, "maximum multipart upload size in MB")
	fs.StringVar(&cfg.Mock.Label, "mock-label", cfg.Mock.Label, "label returned by the mock predictor")
	fs.Float64Var(&cfg.Mock.Confidence, "mock-confidence", cfg.Mock.Confidence, "confidence returned by the mock predictor")
	fs.StringVar(&cfg.Mock.ExplanationURL, "mock-explanation-url", cfg.Mock.ExplanationURL, "explanation image URL returned by the mock predictor")
	fs.StringVar(&cfg.WebPort, "web-port", cfg.WebPort, "web front end port")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "prediction endpoint base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "prediction request timeout, 0 for none")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle time before a web session is dropped")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Args = fs.Args()
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE_MB must be positive, got %d", c.MaxUploadSizeMB)
	}
	if c.Mock.Confidence < 0 || c.Mock.Confidence > 1 {
		return fmt.Errorf("MOCK_CONFIDENCE must be within [0,1], got %v", c.Mock.Confidence)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute URL, got %q", c.APIURL)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// MaxUploadBytes is the multipart limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// MockResult is the result the mock predictor serves.
func (c *Config) MockResult() model.PredictionResult {
	return model.PredictionResult{
		Label:          c.Mock.Label,
		Confidence:     c.Mock.Confidence,
		ExplanationURL: c.Mock.ExplanationURL,
	}
}
