package execute

import (
	"fmt"
	"io"
	"os"
)

const truncationMarker = "..."

// lastLines returns at most maxLength bytes of the file's trailing content.
// When the file exceeds the limit the result is prefixed with "..." and the
// marker consumes part of the budget. The seek offset is computed in bytes:
// a cut landing inside a multi-byte UTF-8 sequence leaves the partial
// leading bytes in place, matching the truncation behavior cron-sentry has
// always had.
func lastLines(f *os.File, maxLength int) (string, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return "", fmt.Errorf("Error seeking the capture file: %w", err)
	}

	if size < int64(maxLength) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("Error seeking the capture file: %w", err)
		}

		data, err := io.ReadAll(f)
		if err != nil {
			return "", fmt.Errorf("Error reading the capture file: %w", err)
		}
		return string(data), nil
	}

	if _, err := f.Seek(-int64(maxLength-len(truncationMarker)), io.SeekEnd); err != nil {
		return "", fmt.Errorf("Error seeking the capture file: %w", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("Error reading the capture file: %w", err)
	}
	return truncationMarker + string(data), nil
}
