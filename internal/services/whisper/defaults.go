package whisper

const stage = "transcribe"

// Defaults shared by both engines.
const (
	DefaultLocalCommand = "whisper"
	DefaultModel        = "base"
	DefaultAPIURL       = "https://api.openai.com/v1/audio/transcriptions"
	DefaultAPIModel     = "whisper-1"
	DefaultMaxUpload    = 25 * 1024 * 1024
	uvxCommand          = "uvx"
	uvxPackage          = "openai-whisper"
)
