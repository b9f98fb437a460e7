// Package whisper provides the two speech-to-text backends used by the
// pipeline: a LocalEngine that shells out to the openai-whisper CLI and an
// APIEngine that uploads audio to an OpenAI-compatible
// /audio/transcriptions endpoint.
//
// Both engines report Available so the pipeline can choose one per run
// without attempting a transcription first.
package whisper
