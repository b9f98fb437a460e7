package config

const (
	defaultConfigPath            = "~/.config/vidnotes/config.toml"
	defaultOutputDir             = "output"
	defaultLogDir                = "~/.local/share/vidnotes/logs"
	defaultLogRetentionDays      = 30
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultHistoryPath           = "~/.local/share/vidnotes/history.db"
	defaultTranscriptionEngine   = "auto"
	defaultLocalCommand          = "whisper"
	defaultWhisperModel          = "base"
	defaultTranscriptionLanguage = "en"
	defaultTranscriptionAPIURL   = "https://api.openai.com/v1/audio/transcriptions"
	defaultTranscriptionAPIModel = "whisper-1"
	defaultMaxUploadMB           = 25
	defaultTranscriptionTimeout  = 900
	defaultLLMBaseURL            = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel              = "gpt-4o-mini"
	defaultLLMTemperature        = 0.3
	defaultLLMMaxTokens          = 2000
	defaultLLMTimeoutSeconds     = 120
	defaultLLMTitle              = "vidnotes"
	defaultYTDLPBinary           = "yt-dlp"
	defaultYTDLPFormat           = "best[ext=mp4]/best[height<=720]/best"
	defaultYTDLPTimeoutSeconds   = 600
	defaultFFmpegBinary          = "ffmpeg"
	defaultYouTubeMax            = 10
	defaultNotifyRequestTimeout  = 10

	// OpenAIKeyEnv is the environment variable consulted for API credentials.
	OpenAIKeyEnv = "OPENAI_API_KEY"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Transcription: Transcription{
			Engine:         defaultTranscriptionEngine,
			LocalCommand:   defaultLocalCommand,
			Model:          defaultWhisperModel,
			Language:       defaultTranscriptionLanguage,
			APIBaseURL:     defaultTranscriptionAPIURL,
			APIModel:       defaultTranscriptionAPIModel,
			MaxUploadMB:    defaultMaxUploadMB,
			TimeoutSeconds: defaultTranscriptionTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Temperature:    defaultLLMTemperature,
			MaxTokens:      defaultLLMMaxTokens,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			GenerateTitles: true,
		},
		YTDLP: YTDLP{
			Binary:         defaultYTDLPBinary,
			Format:         defaultYTDLPFormat,
			TimeoutSeconds: defaultYTDLPTimeoutSeconds,
		},
		FFmpeg: FFmpeg{
			Binary: defaultFFmpegBinary,
		},
		Batch: Batch{
			SkipExisting:      true,
			Resume:            true,
			YouTubeDefaultMax: defaultYouTubeMax,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			BatchComplete:  true,
			Errors:         true,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
