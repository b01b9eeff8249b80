package browser

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
	"github.com/google/uuid"
)

// ScreenshotSink captures error screenshots into a run-scoped folder. It is
// a side-effect-only collaborator: capture failures are logged, never
// propagated.
type ScreenshotSink struct {
	driver Driver
	dir    string
}

// NewScreenshotSink creates the screenshots directory under the run folder.
func NewScreenshotSink(driver Driver, runFolder string) *ScreenshotSink {
	dir := filepath.Join(runFolder, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Log.Errorf("Could not create screenshots directory %s: %v", dir, err)
	}
	return &ScreenshotSink{driver: driver, dir: dir}
}

// CaptureError saves a full-page screenshot named after the failure context.
// Returns the saved path, or "" when capture failed.
func (s *ScreenshotSink) CaptureError(context string) string {
	name := sanitize(context)
	if name == "" {
		name = "error"
	}
	filename := time.Now().Format("20060102_150405") + "_" + name + "_" + uuid.NewString()[:8] + ".png"
	path := filepath.Join(s.dir, filename)

	if err := s.driver.Screenshot(path); err != nil {
		logger.Log.Errorf("Failed to capture error screenshot (%s): %v", context, err)
		return ""
	}
	logger.Log.Infof("Screenshot captured: %s | context: %s", filename, context)
	return path
}

// sanitize keeps a filesystem-safe slice of the context description.
func sanitize(context string) string {
	replaced := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '/', r == '\\':
			return '_'
		case r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, context)
	if len(replaced) > 50 {
		replaced = replaced[:50]
	}
	return replaced
}
