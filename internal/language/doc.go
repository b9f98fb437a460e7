// Package language normalizes transcription language hints.
//
// Whisper and the transcription API both expect ISO 639-1 codes, while
// users write "English", "eng" or "en" in config files.
package language
