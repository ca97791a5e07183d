package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/storepilot/storepilot/agent/contract"
	openrouterx "github.com/storepilot/storepilot/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	// ExtractorModel optionally overrides the model used by the sub-agent
	// extraction call; the default is the main model.
	ExtractorModel string `envconfig:"EXTRACTOR_MODEL" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: llm model is required", contractx.ErrValidation)
	}
	return nil
}

// ForExtractor returns the config the sub-agent client is built from.
func (c Config) ForExtractor() Config {
	out := c
	if v := strings.TrimSpace(c.ExtractorModel); v != "" {
		out.Model = v
	}
	return out
}

func (c Config) openRouter() openrouterx.Config {
	return openrouterx.Config{
		BaseURL:  strings.TrimSpace(c.BaseURL),
		APIKey:   strings.TrimSpace(c.APIKey),
		Timeout:  c.Timeout,
		SiteURL:  strings.TrimSpace(c.SiteURL),
		SiteName: strings.TrimSpace(c.SiteName),
	}
}
