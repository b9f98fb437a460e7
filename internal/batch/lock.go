package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock held inside a channel directory for
// the duration of a run.
const LockFileName = ".vidnotes.lock"

// ErrChannelLocked is returned when another run holds the channel lock.
var ErrChannelLocked = errors.New("another vidnotes run is processing this channel")

// LockChannel takes the channel's advisory lock without blocking. Callers
// must Unlock the returned lock.
func LockChannel(channelDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(channelDir, 0o755); err != nil {
		return nil, fmt.Errorf("create channel dir: %w", err)
	}
	lock := flock.New(filepath.Join(channelDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire channel lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelLocked, channelDir)
	}
	return lock, nil
}
