package telemetry

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// SaveFrame writes img as frame_<tick>.png in dir and returns the path.
func SaveFrame(img image.Image, dir string, tick int32) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating frame directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("frame_%08d.png", tick))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating frame file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding frame: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing frame file: %w", err)
	}
	return path, nil
}
