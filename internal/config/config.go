package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/taskbank-backend/internal/logger"
	"github.com/yungbote/taskbank-backend/internal/utils"
)

// Duration parses yaml values like "30s" or "5m"; a bare number is taken
// as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		dur, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(dur)
		return nil
	}

	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration node: %w", err)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Settings holds everything the document generators need that is not an
// entity-store concern: output locations, the latex toolchain and the
// headless-browser rasterizer knobs.
type Settings struct {
	LatexOutputDir string `yaml:"latex_output_dir"`
	HTMLOutputDir  string `yaml:"html_output_dir"`
	PDFOutputDir   string `yaml:"pdf_output_dir"`

	Latex LatexSettings `yaml:"latex"`
	PDF   PDFSettings   `yaml:"pdf"`
}

type LatexSettings struct {
	Command        string   `yaml:"command"`
	CompileTimeout Duration `yaml:"compile_timeout"`
}

type PDFSettings struct {
	Format          string        `yaml:"format"`
	MarginTop       string        `yaml:"margin_top"`
	MarginRight     string        `yaml:"margin_right"`
	MarginBottom    string        `yaml:"margin_bottom"`
	MarginLeft      string        `yaml:"margin_left"`
	PrintBackground bool          `yaml:"print_background"`
	WaitForMathJax  bool          `yaml:"wait_for_mathjax"`

	// MathJaxProbeTimeout bounds the check that the typesetter loaded at
	// all; MathJaxReadyTimeout bounds the wait for its readiness signal.
	// Both waits degrade to "proceed anyway" on expiry.
	MathJaxProbeTimeout Duration `yaml:"mathjax_probe_timeout"`
	MathJaxReadyTimeout Duration `yaml:"mathjax_ready_timeout"`
	BrowserTimeout      Duration `yaml:"browser_timeout"`

	MaxParallel int `yaml:"max_parallel"`
}

func Default() Settings {
	return Settings{
		LatexOutputDir: "latex_output",
		HTMLOutputDir:  "html_output",
		PDFOutputDir:   "web_pdf_output",
		Latex: LatexSettings{
			Command:        "pdflatex",
			CompileTimeout: Duration(5 * time.Minute),
		},
		PDF: PDFSettings{
			Format:              "A4",
			MarginTop:           "1cm",
			MarginRight:         "1cm",
			MarginBottom:        "1cm",
			MarginLeft:          "1cm",
			PrintBackground:     true,
			WaitForMathJax:      true,
			MathJaxProbeTimeout: Duration(3 * time.Second),
			MathJaxReadyTimeout: Duration(8 * time.Second),
			BrowserTimeout:      Duration(30 * time.Second),
			MaxParallel:         2,
		},
	}
}

// Load reads the settings file named by TASKBANK_SETTINGS (or the given
// path) over the defaults, then applies env overrides for the output
// directories. A missing file is not an error.
func Load(path string, log *logger.Logger) (Settings, error) {
	s := Default()

	if path == "" {
		path = utils.GetEnv("TASKBANK_SETTINGS", "", log)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return s, fmt.Errorf("read settings file: %w", err)
			}
			if log != nil {
				log.Warn("Settings file not found, using defaults", "path", path)
			}
		} else if err := yaml.Unmarshal(raw, &s); err != nil {
			return s, fmt.Errorf("parse settings file: %w", err)
		}
	}

	s.LatexOutputDir = utils.GetEnv("LATEX_OUTPUT_DIR", s.LatexOutputDir, log)
	s.HTMLOutputDir = utils.GetEnv("HTML_OUTPUT_DIR", s.HTMLOutputDir, log)
	s.PDFOutputDir = utils.GetEnv("PDF_OUTPUT_DIR", s.PDFOutputDir, log)
	s.Latex.Command = utils.GetEnv("LATEX_COMMAND", s.Latex.Command, log)

	if s.PDF.MaxParallel < 1 {
		s.PDF.MaxParallel = 1
	}
	return s, nil
}
