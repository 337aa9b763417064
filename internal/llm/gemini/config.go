package gemini

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Config for the Gemini client. APIKey has no fallback: callers must supply it.
type Config struct {
	APIKey           string
	BaseURL          string        // default https://generativelanguage.googleapis.com/v1beta
	Model            string        // e.g., "gemini-1.5-flash"
	Temperature      float32       // 0..2
	MaxOutputTokens  int           // 0 leaves the provider default
	Timeout          time.Duration // http client timeout
	StructuredOutput bool          // send responseSchema when the request carries one
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// Model reports the configured model name.
func (c *Client) Model() string { return c.cfg.Model }
