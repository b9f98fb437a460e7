package pipeline

import (
	"log/slog"

	"vidnotes/internal/fileutil"
	"vidnotes/internal/logging"
)

// artifacts tracks intermediate files to delete when a run ends.
type artifacts struct {
	logger *slog.Logger
	keep   bool
	paths  []string
}

func newArtifacts(logger *slog.Logger, keep bool) *artifacts {
	return &artifacts{logger: logger, keep: keep}
}

func (a *artifacts) register(path string) {
	if path == "" {
		return
	}
	for _, p := range a.paths {
		if p == path {
			return
		}
	}
	a.paths = append(a.paths, path)
}

// release deletes every registered path independently. Failures are logged
// and never surface to the caller.
func (a *artifacts) release() (removed int) {
	if a.keep {
		if len(a.paths) > 0 {
			a.logger.Debug("keeping intermediate artifacts",
				logging.Int("count", len(a.paths)),
				logging.String(logging.FieldEventType, "artifacts_kept"),
			)
		}
		return 0
	}
	for _, path := range a.paths {
		ok, err := fileutil.RemoveIfExists(path)
		if err != nil {
			logging.WarnWithContext(a.logger, "failed to delete intermediate artifact", "artifact_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the file manually"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		if ok {
			removed++
			a.logger.Debug("deleted intermediate artifact", logging.String("path", path))
		}
	}
	return removed
}
