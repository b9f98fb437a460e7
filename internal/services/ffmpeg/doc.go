// Package ffmpeg extracts transcription-ready audio from downloaded videos.
//
// Output is always mono 16 kHz signed 16-bit PCM WAV, the format both the
// local whisper CLI and the hosted transcription API accept without
// resampling.
package ffmpeg
