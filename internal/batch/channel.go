package batch

import (
	"vidnotes/internal/textutil"
	"vidnotes/internal/videoid"
)

// ChannelNames derives the display name used in notes filenames and the
// normalized directory name used for storage paths.
func ChannelNames(channelURL string) (display, dir string) {
	handle, ok := videoid.ChannelHandle(channelURL)
	dir = textutil.ChannelDirName(handle)
	if !ok || handle == "" {
		return dir, dir
	}
	return handle, dir
}
