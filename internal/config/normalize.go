package config

import (
	"fmt"
	"os"
	"strings"

	"vidnotes/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeLLM()
	c.normalizeTools()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Metrics.TextfilePath, err = expandPath(strings.TrimSpace(c.Metrics.TextfilePath)); err != nil {
		return fmt.Errorf("metrics.textfile_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Engine = strings.ToLower(strings.TrimSpace(c.Transcription.Engine))
	if c.Transcription.Engine == "" {
		c.Transcription.Engine = defaultTranscriptionEngine
	}
	c.Transcription.LocalCommand = strings.TrimSpace(c.Transcription.LocalCommand)
	if c.Transcription.LocalCommand == "" {
		c.Transcription.LocalCommand = defaultLocalCommand
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultWhisperModel
	}
	// Accept "English", "eng", or "en"; unknown hints pass through untouched.
	if lang := strings.TrimSpace(c.Transcription.Language); lang != "" {
		if iso := language.ToISO2(lang); iso != "" {
			lang = iso
		}
		c.Transcription.Language = lang
	}
	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	if c.Transcription.APIKey == "" {
		if value, ok := os.LookupEnv(OpenAIKeyEnv); ok {
			c.Transcription.APIKey = strings.TrimSpace(value)
		}
	}
	c.Transcription.APIBaseURL = strings.TrimSpace(c.Transcription.APIBaseURL)
	if c.Transcription.APIBaseURL == "" {
		c.Transcription.APIBaseURL = defaultTranscriptionAPIURL
	}
	c.Transcription.APIModel = strings.TrimSpace(c.Transcription.APIModel)
	if c.Transcription.APIModel == "" {
		c.Transcription.APIModel = defaultTranscriptionAPIModel
	}
	if c.Transcription.MaxUploadMB == 0 {
		c.Transcription.MaxUploadMB = defaultMaxUploadMB
	}
	if c.Transcription.TimeoutSeconds == 0 {
		c.Transcription.TimeoutSeconds = defaultTranscriptionTimeout
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv(OpenAIKeyEnv); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = defaultLLMMaxTokens
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeTools() {
	c.YTDLP.Binary = strings.TrimSpace(c.YTDLP.Binary)
	if c.YTDLP.Binary == "" {
		c.YTDLP.Binary = defaultYTDLPBinary
	}
	c.YTDLP.Format = strings.TrimSpace(c.YTDLP.Format)
	if c.YTDLP.Format == "" {
		c.YTDLP.Format = defaultYTDLPFormat
	}
	if c.YTDLP.TimeoutSeconds == 0 {
		c.YTDLP.TimeoutSeconds = defaultYTDLPTimeoutSeconds
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
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
