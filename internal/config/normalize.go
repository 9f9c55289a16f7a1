package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackend()
	c.normalizeTranslation()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InboxDir) == "" {
		c.Paths.InboxDir = defaultInboxDir
	}
	if c.Paths.InboxDir, err = expandPath(c.Paths.InboxDir); err != nil {
		return fmt.Errorf("paths.inbox_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBackend() {
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	if c.Backend.URL == "" {
		c.Backend.URL = defaultBackendURL
	}
	if value, ok := os.LookupEnv(backendTokenEnv); ok {
		c.Backend.Token = value
	}
	c.Backend.Token = strings.TrimSpace(c.Backend.Token)
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = defaultBackendTimeoutSeconds
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	if c.Translation.Provider == "" {
		c.Translation.Provider = defaultProvider
	}
	c.Translation.TargetService = strings.ToLower(strings.TrimSpace(c.Translation.TargetService))
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.BatchSize == 0 {
		c.Translation.BatchSize = defaultBatchSize
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.CompletedPollInterval <= 0 {
		c.Workflow.CompletedPollInterval = defaultCompletedPollSeconds
	}
	if c.Workflow.LogsPollInterval <= 0 {
		c.Workflow.LogsPollInterval = defaultLogsPollSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
