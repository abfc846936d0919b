package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"bindery/internal/config"
	"bindery/internal/logging"
	"bindery/internal/processor"
	"bindery/internal/queue"
	"bindery/internal/workbook"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withQueueStore opens the queue store for the duration of fn.
func (c *commandContext) withQueueStore(fn func(*queue.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withProcessor opens both stores, builds a processor over them, and runs fn.
// The workbook lock is held for the duration.
func (c *commandContext) withProcessor(mode workbook.Mode, opts []processor.Option, fn func(*processor.Processor, *workbook.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	queueStore, err := queue.Open(cfg)
	if err != nil {
		return err
	}
	defer queueStore.Close()

	workbookStore, err := workbook.Open(cfg, mode, logger)
	if err != nil {
		return err
	}
	defer workbookStore.Close()

	return fn(processor.New(cfg, queueStore, workbookStore, logger, opts...), workbookStore)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func appendMode(appendFlag bool) workbook.Mode {
	if appendFlag {
		return workbook.ModeLatest
	}
	return workbook.ModeFresh
}

// conflictOptions turns a --conflict flag value into processor options,
// leaving the configured policy in place when the flag is unset.
func conflictOptions(flag string) ([]processor.Option, error) {
	trimmed := strings.TrimSpace(flag)
	if trimmed == "" {
		return nil, nil
	}
	policy, ok := processor.ParseConflictPolicy(trimmed)
	if !ok {
		return nil, errInvalidConflictPolicy(trimmed)
	}
	return []processor.Option{processor.WithConflictPolicy(policy)}, nil
}
