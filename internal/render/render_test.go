package render

import (
	"strings"
	"testing"

	"github.com/yungbote/taskbank-backend/internal/logger"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"percent ampersand", "50% & more", `50\% \& more`},
		{"underscore hash", "a_b #1", `a\_b \#1`},
		{"braces", "{x}", `\{x\}`},
		{"dollar", "costs $5", `costs \$5`},
		{"backslash", `a\b`, `a\textbackslash{}b`},
		{"caret tilde", "x^2 ~y", `x\textasciicircum{}2 \textasciitilde{}y`},
		{"angle brackets", "a<b>c", `a\textless{}b\textgreater{}c`},
		{"newline", "a\nb", `a\\ b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeLaTeX(tt.in); got != tt.want {
				t.Fatalf("EscapeLaTeX(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<b>"a" & 'b'</b>`)
	want := "&lt;b&gt;&quot;a&quot; &amp; &#x27;b&#x27;&lt;/b&gt;"
	if got != want {
		t.Fatalf("EscapeHTML = %q, want %q", got, want)
	}
}

func TestLaTeXRendererValidFormulas(t *testing.T) {
	r := NewLaTeXRenderer(logger.Nop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no math", "just 100% text", `just 100\% text`},
		{"inline", "solve $x^2+1=0$ now", `solve \(x^2+1=0\) now`},
		{"display", "given $$a=b$$ done", `given \[a=b\] done`},
		{"mixed", "$a$ and $$b$$", `\(a\) and \[b\]`},
		{"specials around math", "50% of $x_1$", `50\% of \(x_1\)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.RenderText(tt.in)
			if res.Output != tt.want {
				t.Fatalf("RenderText(%q) = %q, want %q", tt.in, res.Output, tt.want)
			}
		})
	}
}

func TestLaTeXRendererBlocksDangerous(t *testing.T) {
	r := NewLaTeXRenderer(logger.Nop())

	t.Run("dangerous formula", func(t *testing.T) {
		res := r.RenderText(`see $\input{/etc/passwd}$ here`)
		want := `see \textbf{[BLOCKED COMMAND]} here`
		if res.Output != want {
			t.Fatalf("got %q, want %q", res.Output, want)
		}
		if res.BlockedFormulas != 1 {
			t.Fatalf("BlockedFormulas = %d, want 1", res.BlockedFormulas)
		}
	})

	t.Run("structural error formula", func(t *testing.T) {
		res := r.RenderText(`see $(a+b$ here`)
		want := `see \textbf{[ERROR: 1 problems]} here`
		if res.Output != want {
			t.Fatalf("got %q, want %q", res.Output, want)
		}
	})

	t.Run("dangerous command outside math", func(t *testing.T) {
		res := r.RenderText(`Solve $x^2+1=0$ and cite \input{/etc/passwd}`)
		want := `Solve \(x^2+1=0\) and cite \textbf{[BLOCKED]}`
		if res.Output != want {
			t.Fatalf("got %q, want %q", res.Output, want)
		}
	})

	t.Run("dangerous command no math", func(t *testing.T) {
		res := r.RenderText(`run \write18{ls} please`)
		want := `run \textbf{[BLOCKED]} please`
		if res.Output != want {
			t.Fatalf("got %q, want %q", res.Output, want)
		}
	})
}

func TestHTMLRendererValidFormulas(t *testing.T) {
	r := NewHTMLRenderer(logger.Nop())

	t.Run("formulas stay byte identical", func(t *testing.T) {
		res := r.RenderText("solve $x^2 < 4$ and $$a > b$$")
		if !strings.Contains(res.Output, "$x^2 < 4$") {
			t.Fatalf("inline formula mangled: %q", res.Output)
		}
		if !strings.Contains(res.Output, "$$a > b$$") {
			t.Fatalf("display formula mangled: %q", res.Output)
		}
	})

	t.Run("text outside math escaped", func(t *testing.T) {
		res := r.RenderText(`a < b, see $x<y$ & more`)
		if !strings.Contains(res.Output, "a &lt; b") {
			t.Fatalf("plain text not escaped: %q", res.Output)
		}
		if !strings.Contains(res.Output, "&amp; more") {
			t.Fatalf("ampersand not escaped: %q", res.Output)
		}
		if !strings.Contains(res.Output, "$x<y$") {
			t.Fatalf("formula interior escaped: %q", res.Output)
		}
	})

	t.Run("no math escapes everything", func(t *testing.T) {
		res := r.RenderText("a < b & c")
		if res.Output != "a &lt; b &amp; c" {
			t.Fatalf("got %q", res.Output)
		}
	})

	t.Run("placeholder never leaks", func(t *testing.T) {
		res := r.RenderText("$a$ mid $b$ end $c$")
		if strings.Contains(res.Output, "FORMULAPLACEHOLDER") {
			t.Fatalf("placeholder leaked: %q", res.Output)
		}
	})
}

func TestHTMLRendererBlocksDangerous(t *testing.T) {
	r := NewHTMLRenderer(logger.Nop())

	t.Run("dangerous formula", func(t *testing.T) {
		res := r.RenderText(`see $\input{/etc/passwd}$ here`)
		if !strings.Contains(res.Output, `class="blocked-formula"`) {
			t.Fatalf("missing blocked span: %q", res.Output)
		}
		if !strings.Contains(res.Output, "[BLOCKED COMMAND]") {
			t.Fatalf("missing marker: %q", res.Output)
		}
		if strings.Contains(res.Output, "/etc/passwd") {
			t.Fatalf("dangerous content survived: %q", res.Output)
		}
		if res.BlockedFormulas != 1 {
			t.Fatalf("BlockedFormulas = %d, want 1", res.BlockedFormulas)
		}
	})

	t.Run("structural error formula", func(t *testing.T) {
		res := r.RenderText(`see $(a+b$ here`)
		if !strings.Contains(res.Output, `class="formula-error"`) {
			t.Fatalf("missing error span: %q", res.Output)
		}
		if !strings.Contains(res.Output, "[ERROR: 1 problems]") {
			t.Fatalf("missing marker: %q", res.Output)
		}
		if !strings.Contains(res.Output, `title="unbalanced brackets: ()"`) {
			t.Fatalf("missing title: %q", res.Output)
		}
	})

	t.Run("span markup survives escaping", func(t *testing.T) {
		res := r.RenderText(`$\input{x}$`)
		if strings.Contains(res.Output, "&lt;span") {
			t.Fatalf("replacement span was escaped: %q", res.Output)
		}
	})
}

func TestRenderersAgreeOnDiagnostics(t *testing.T) {
	text := `ok $x+1$ bad $\include{y}$ worse $(z$`
	lt := NewLaTeXRenderer(logger.Nop()).RenderText(text)
	ht := NewHTMLRenderer(logger.Nop()).RenderText(text)

	if lt.TotalFormulas != ht.TotalFormulas {
		t.Fatalf("formula counts differ: %d vs %d", lt.TotalFormulas, ht.TotalFormulas)
	}
	if lt.BlockedFormulas != ht.BlockedFormulas {
		t.Fatalf("blocked counts differ: %d vs %d", lt.BlockedFormulas, ht.BlockedFormulas)
	}
	if len(lt.Errors) != len(ht.Errors) {
		t.Fatalf("error counts differ: %v vs %v", lt.Errors, ht.Errors)
	}
	if lt.TotalFormulas != 3 || lt.BlockedFormulas != 2 {
		t.Fatalf("unexpected diagnostics: total %d blocked %d", lt.TotalFormulas, lt.BlockedFormulas)
	}
}
