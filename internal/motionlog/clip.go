package motionlog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ClipID extracts the clip UUID from a log filename of the form
// <uuid>.egomotion.parquet (or .csv). Datasets name every per-clip
// artifact after the same UUID.
func ClipID(path string) (uuid.UUID, error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, ".egomotion")

	id, err := uuid.Parse(base)
	if err != nil {
		return uuid.Nil, fmt.Errorf("no clip UUID in filename %q: %w", filepath.Base(path), err)
	}
	return id, nil
}

// CameraFilename returns the name of the front wide camera video that
// accompanies a clip, for cueing up detected events.
func CameraFilename(id uuid.UUID) string {
	return id.String() + ".camera_front_wide_120fov.mp4"
}
