package layout

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

// Composer builds text-plus-image blocks for both output targets.
type Composer struct {
	log *logger.Logger
}

func NewComposer(baseLog *logger.Logger) *Composer {
	return &Composer{log: baseLog.With("component", "layout")}
}

// PrepareImage copies the attachment into outputDir under a deterministic
// name, so re-generating a document overwrites rather than accumulates.
// A missing source file is logged and skipped: the returned path is empty
// and the error is nil.
func (c *Composer) PrepareImage(taskID uuid.UUID, img *types.TaskImage, outputDir string) (string, error) {
	if img == nil || img.FilePath == "" {
		return "", nil
	}

	src, err := os.Open(img.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			c.log.Warn("image file missing, skipping", "task_id", taskID, "path", img.FilePath)
			return "", nil
		}
		return "", fmt.Errorf("open image %s: %w", img.FilePath, err)
	}
	defer src.Close()

	name := fmt.Sprintf("image_%s_%s%s", taskID, img.ID, filepath.Ext(img.FilePath))
	destPath := filepath.Join(outputDir, name)

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create image copy %s: %w", destPath, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		return "", fmt.Errorf("copy image to %s: %w", destPath, err)
	}
	return name, nil
}

// Dimensions reads just enough of the file to report pixel width and
// height. PNG, JPEG, GIF, BMP and WebP are recognized.
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}
