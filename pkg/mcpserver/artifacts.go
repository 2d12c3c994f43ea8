package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// saveFrame writes a JPEG frame under <dir>/camera_frames with a
// timestamped name and returns the full path.
func saveFrame(dir string, frame []byte) (string, error) {
	framesDir := filepath.Join(dir, "camera_frames")
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return "", fmt.Errorf("create frames dir: %w", err)
	}
	name := fmt.Sprintf("sumo_frame_%s.jpg", time.Now().Format("20060102_150405"))
	path := filepath.Join(framesDir, name)
	if err := os.WriteFile(path, frame, 0644); err != nil {
		return "", fmt.Errorf("write frame: %w", err)
	}
	return path, nil
}
