package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"hanru/internal/config"
	"hanru/internal/logging"
	"hanru/internal/queue"
	"hanru/internal/scheduler"
	"hanru/internal/services/backend"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) openStore() (*queue.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return queue.Open(cfg)
}

func (c *commandContext) withStore(fn func(*queue.Store) error) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) backendClient() (*backend.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return backend.NewConfiguredClient(cfg), nil
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

func (c *commandContext) newScheduler(store *queue.Store) (*scheduler.Scheduler, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := c.backendClient()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	return scheduler.New(client, store, logger, cfg.Paths.DataDir), nil
}

func (c *commandContext) completedPollInterval() time.Duration {
	cfg := c.configValue()
	if cfg == nil {
		return 10 * time.Second
	}
	return time.Duration(cfg.Workflow.CompletedPollInterval) * time.Second
}
