package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Missing API credentials are
// not an error here: they surface per video as an unavailable backend.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Engine {
	case "auto", "local", "api":
	default:
		return fmt.Errorf("transcription.engine: unsupported value %q (want auto, local, or api)", c.Transcription.Engine)
	}
	if c.Transcription.MaxUploadMB < 0 {
		return errors.New("transcription.max_upload_mb must be positive")
	}
	if c.Transcription.TimeoutSeconds < 0 {
		return errors.New("transcription.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens < 0 {
		return errors.New("llm.max_tokens must be positive")
	}
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.YTDLP.TimeoutSeconds < 0 {
		return errors.New("ytdlp.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.YouTubeDefaultMax < 0 {
		return errors.New("batch.youtube_default_max must be zero (unbounded) or positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero (keep forever) or positive")
	}
	return nil
}
