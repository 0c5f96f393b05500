package crop

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// SaveTemp spills a frame to a PNG file under dir so an external selection
// UI can load it. The caller is responsible for DeleteTemp once the attempt
// finishes, whether it succeeded or was cancelled.
func SaveTemp(frame *Frame, dir string) (string, error) {
	data, err := frame.EncodePNG()
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("answer_frame_%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to save frame: %w", err)
	}
	return path, nil
}

// LoadTemp reads a spilled frame back.
func LoadTemp(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load frame from %s: %w", path, err)
	}
	defer f.Close()
	return DecodePNG(f)
}

// DeleteTemp removes a spilled frame. Failures are logged, not returned: a
// leftover temp file never blocks the answer flow.
func DeleteTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("crop: could not remove temp frame %s: %v", path, err)
	}
}
