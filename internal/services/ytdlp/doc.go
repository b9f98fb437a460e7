// Package ytdlp wraps the yt-dlp binary for channel discovery and single
// video downloads.
package ytdlp
