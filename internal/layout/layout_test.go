package layout

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/types"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

func TestGeometryFor(t *testing.T) {
	tests := []struct {
		position    string
		arrangement Arrangement
		imageWidth  string
		percent     int
	}{
		{types.PositionRight40, SideBySide, `0.4\textwidth`, 40},
		{types.PositionRight20, SideBySide, `0.2\textwidth`, 20},
		{types.PositionBottom100, Vertical, `\textwidth`, 100},
		{types.PositionBottom70, Vertical, `0.7\textwidth`, 70},
		{"corner_15", Vertical, `0.7\textwidth`, 70},
		{"", Vertical, `0.7\textwidth`, 70},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			g := GeometryFor(tt.position)
			if g.Arrangement != tt.arrangement || g.ImageWidth != tt.imageWidth || g.Percent != tt.percent {
				t.Fatalf("GeometryFor(%q) = %+v", tt.position, g)
			}
		})
	}
}

func TestComposeLaTeXSideBySide(t *testing.T) {
	c := NewComposer(logger.Nop())
	img := &types.TaskImage{Position: types.PositionRight40, Caption: "50% off"}

	out := c.ComposeLaTeX("task text", img, "image_a_b.png")

	for _, want := range []string{
		`\begin{minipage}[t]{0.55\textwidth}`,
		`\begin{minipage}[t]{0.4\textwidth}`,
		`\hfill`,
		`\vspace*{-3em}`,
		`\includegraphics[width=\linewidth]{image_a_b.png}`,
		`\small\textit{50\% off}`,
		"task text",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestComposeLaTeXVertical(t *testing.T) {
	c := NewComposer(logger.Nop())
	img := &types.TaskImage{Position: types.PositionBottom100}

	out := c.ComposeLaTeX("task text", img, "pic.png")

	for _, want := range []string{
		`\vspace{0.5cm}`,
		`\begin{center}`,
		`\includegraphics[width=\textwidth]{pic.png}`,
		`\end{center}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `\textit`) {
		t.Errorf("caption emitted for captionless image:\n%s", out)
	}
}

func TestComposeLaTeXWithoutImage(t *testing.T) {
	c := NewComposer(logger.Nop())
	if out := c.ComposeLaTeX("just text", nil, ""); out != "just text" {
		t.Fatalf("got %q, want passthrough", out)
	}
}

func TestComposeHTML(t *testing.T) {
	c := NewComposer(logger.Nop())
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "fig.png", 2, 2)

	img := &types.TaskImage{FilePath: path, Position: types.PositionRight20, Caption: `a "quoted" caption`}
	out := c.ComposeHTML("<p>body</p>", img)

	for _, want := range []string{
		`task-with-image_layout_horizontal`,
		`task-with-image_image-position_right`,
		`task-with-image_image-size_20`,
		`class="task-with-image__text"`,
		`src="data:image/png;base64,`,
		`class="task-with-image__caption">a &quot;quoted&quot; caption</div>`,
		"<p>body</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestComposeHTMLMissingFile(t *testing.T) {
	c := NewComposer(logger.Nop())
	img := &types.TaskImage{FilePath: "/nonexistent/fig.png", Position: types.PositionBottom70}

	if out := c.ComposeHTML("body", img); out != "body" {
		t.Fatalf("got %q, want text-only fallback", out)
	}
}

func TestPrepareImage(t *testing.T) {
	c := NewComposer(logger.Nop())
	srcDir, outDir := t.TempDir(), t.TempDir()
	path := writeTestPNG(t, srcDir, "orig.png", 1, 1)

	taskID := uuid.New()
	img := &types.TaskImage{FilePath: path}
	img.ID = uuid.New()

	name, err := c.PrepareImage(taskID, img, outDir)
	if err != nil {
		t.Fatalf("PrepareImage: %v", err)
	}
	want := "image_" + taskID.String() + "_" + img.ID.String() + ".png"
	if name != want {
		t.Fatalf("name = %q, want %q", name, want)
	}
	if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
		t.Fatalf("copy not written: %v", err)
	}

	// Re-preparing must land on the same name, not a new file.
	again, err := c.PrepareImage(taskID, img, outDir)
	if err != nil || again != name {
		t.Fatalf("second PrepareImage = %q, %v", again, err)
	}
}

func TestPrepareImageMissingSource(t *testing.T) {
	c := NewComposer(logger.Nop())
	img := &types.TaskImage{FilePath: "/nonexistent/orig.png"}
	img.ID = uuid.New()

	name, err := c.PrepareImage(uuid.New(), img, t.TempDir())
	if err != nil {
		t.Fatalf("missing source should not error, got %v", err)
	}
	if name != "" {
		t.Fatalf("name = %q, want empty", name)
	}
}

func TestDimensions(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "dim.png", 3, 2)

	w, h, err := Dimensions(path)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 3 || h != 2 {
		t.Fatalf("got %dx%d, want 3x2", w, h)
	}

	if _, _, err := Dimensions(filepath.Join(dir, "absent.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
