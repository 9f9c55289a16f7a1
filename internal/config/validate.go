package config

import (
	"errors"
	"fmt"
	"net/url"
)

var knownProviders = map[string]struct{}{
	"google":       {},
	"local_bridge": {},
	"openrouter":   {},
}

var knownTargetServices = map[string]struct{}{
	"":                 {},
	"perplexity":       {},
	"google_ai_studio": {},
}

var knownLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBackend() error {
	if c.Backend.URL == "" {
		return errors.New("backend.url must be set")
	}
	parsed, err := url.Parse(c.Backend.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("backend.url %q is not a valid HTTP URL", c.Backend.URL)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if _, ok := knownProviders[c.Translation.Provider]; !ok {
		return fmt.Errorf("translation.provider %q is not one of google, local_bridge, openrouter", c.Translation.Provider)
	}
	if _, ok := knownTargetServices[c.Translation.TargetService]; !ok {
		return fmt.Errorf("translation.target_service %q is not one of perplexity, google_ai_studio", c.Translation.TargetService)
	}
	if c.Translation.BatchSize < 1 {
		return errors.New("translation.batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.CompletedPollInterval < 1 {
		return errors.New("workflow.completed_poll_interval must be at least 1 second")
	}
	if c.Workflow.LogsPollInterval < 1 {
		return errors.New("workflow.logs_poll_interval must be at least 1 second")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := knownLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	return nil
}
