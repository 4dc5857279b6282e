package subtitle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// zipMagic is the fixed leading signature of the container format the
// origins serve. Content-type headers are untrustworthy, so detection is
// by these two bytes alone.
var zipMagic = []byte("PK")

// subtitleExtensions is the selection priority inside a container: the
// standard timed format first, then the legacy frame-indexed format,
// then plain text.
var subtitleExtensions = []string{".srt", ".sub", ".txt"}

// isContainer reports whether payload starts with the container magic.
func isContainer(payload []byte) bool {
	return bytes.HasPrefix(payload, zipMagic)
}

// extractFromContainer opens a container and returns the bytes of the
// first entry matching the extension priority, scanning names
// case-insensitively. An unreadable container yields
// errMalformedContainer so the caller can degrade to raw-text handling;
// a readable container with no recognized entry yields
// ErrArtifactNotFound.
func extractFromContainer(payload []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedContainer, err)
	}

	for _, ext := range subtitleExtensions {
		for _, entry := range reader.File {
			if entry.FileInfo().IsDir() {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(entry.Name), ext) {
				continue
			}
			rc, err := entry.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errMalformedContainer, err)
			}
			content, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", errMalformedContainer, err)
			}
			return content, nil
		}
	}

	return nil, ErrArtifactNotFound
}
