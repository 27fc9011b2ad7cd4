package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Syntax styles used for fenced code, keyed by the application theme.
const (
	SyntaxStyleLight = "github"
	SyntaxStyleDark  = "monokai"
)

// SyntaxStyle picks the chroma style matching the application theme.
func SyntaxStyle(dark bool) string {
	if dark {
		return SyntaxStyleDark
	}
	return SyntaxStyleLight
}

const (
	minWrapWidth = 20
	breakChars   = " ,.;-+|"
)

// WrapWidth derives the text width in columns for a terminal of termWidth
// columns: larger font sizes fit fewer characters per line.
func WrapWidth(termWidth, fontSize int) int {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	w := termWidth * MinFontSize / fontSize
	return max(minWrapWidth, w)
}

// MarkdownOptions controls RenderMarkdown.
type MarkdownOptions struct {
	Width       int
	Palette     Palette
	SyntaxStyle string
	// Profile is the terminal color profile; the zero value is TrueColor.
	Profile termenv.Profile
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderMarkdown renders the whole document to styled terminal text.
func RenderMarkdown(content string, opts MarkdownOptions) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.SyntaxStyle == "" {
		opts.SyntaxStyle = SyntaxStyleLight
	}

	// The profile is forced so output does not depend on the attached TTY.
	re := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(opts.Profile))
	re.SetColorProfile(opts.Profile)

	src := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(src))

	w := &mdWriter{src: src, opts: opts, re: re}
	_ = ast.Walk(doc, w.walk)
	return strings.TrimRight(w.out.String(), "\n")
}

type mdList struct {
	ordered bool
	next    int
	tight   bool
}

// mdWriter walks the goldmark AST. Inline content of a block is collected
// first and word-wrapped when the block closes.
type mdWriter struct {
	src  []byte
	opts MarkdownOptions
	re   *lipgloss.Renderer

	out      strings.Builder
	inline   strings.Builder
	newlines int

	prefixes []string
	bullet   string
	lists    []mdList

	bold, italic, strike int
}

func (w *mdWriter) style() lipgloss.Style {
	return w.re.NewStyle().Foreground(lipgloss.Color(w.opts.Palette.Text))
}

func (w *mdWriter) faint() lipgloss.Style {
	return w.re.NewStyle().Faint(true)
}

func (w *mdWriter) prefix() string {
	return strings.Join(w.prefixes, "")
}

func (w *mdWriter) width() int {
	return max(10, w.opts.Width-ansi.StringWidth(w.prefix()))
}

func (w *mdWriter) write(s string) {
	if s == "" {
		return
	}
	w.out.WriteString(s)
	trimmed := strings.TrimRight(s, "\n")
	n := len(s) - len(trimmed)
	if trimmed == "" {
		w.newlines += n
	} else {
		w.newlines = n
	}
}

func (w *mdWriter) newline() {
	if w.newlines < 1 {
		w.write("\n")
	}
}

func (w *mdWriter) blank() {
	if w.out.Len() == 0 {
		return
	}
	for w.newlines < 2 {
		w.write("\n")
	}
}

func (w *mdWriter) tight() bool {
	return len(w.lists) > 0 && w.lists[len(w.lists)-1].tight
}

// lines prefixes every line of s; the first line takes a pending bullet.
func (w *mdWriter) lines(s string) string {
	p := w.prefix()
	parts := strings.Split(s, "\n")
	for i := range parts {
		lead := p
		if i == 0 && w.bullet != "" {
			lead = w.bullet
			w.bullet = ""
		}
		parts[i] = lead + parts[i]
	}
	return strings.Join(parts, "\n")
}

func (w *mdWriter) flush() string {
	s := w.inline.String()
	w.inline.Reset()
	if s == "" {
		return ""
	}
	return w.lines(ansi.Wrap(s, w.width(), breakChars))
}

func (w *mdWriter) styled(s string) string {
	st := w.style()
	if w.bold > 0 {
		st = st.Bold(true)
	}
	if w.italic > 0 {
		st = st.Italic(true)
	}
	if w.strike > 0 {
		st = st.Strikethrough(true)
	}
	return st.Render(s)
}

func (w *mdWriter) segments(n ast.Node) string {
	var b strings.Builder
	l := n.Lines()
	for i := 0; i < l.Len(); i++ {
		seg := l.At(i)
		b.Write(seg.Value(w.src))
	}
	return b.String()
}

// inlineOf renders the children of n into a string without disturbing the
// current inline buffer.
func (w *mdWriter) inlineOf(n ast.Node) string {
	saved := w.inline.String()
	w.inline.Reset()
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		_ = ast.Walk(c, w.walk)
	}
	got := w.inline.String()
	w.inline.Reset()
	w.inline.WriteString(saved)
	return got
}

func (w *mdWriter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.inline.Reset()
			break
		}
		if s := w.flush(); s != "" {
			w.write(s)
			w.newline()
			if !w.tight() {
				w.blank()
			}
		}

	case ast.KindHeading:
		if entering {
			w.inline.Reset()
			break
		}
		w.heading(n.(*ast.Heading))

	case ast.KindFencedCodeBlock:
		if !entering {
			break
		}
		fc := n.(*ast.FencedCodeBlock)
		w.code(w.segments(fc), string(fc.Language(w.src)))
		return ast.WalkSkipChildren, nil

	case ast.KindCodeBlock:
		if !entering {
			break
		}
		w.code(w.segments(n), "")
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			w.prefixes = append(w.prefixes, "│ ")
		} else {
			w.prefixes = w.prefixes[:len(w.prefixes)-1]
			w.blank()
		}

	case ast.KindList:
		if entering {
			l := n.(*ast.List)
			w.lists = append(w.lists, mdList{ordered: l.IsOrdered(), next: l.Start, tight: l.IsTight})
		} else {
			w.lists = w.lists[:len(w.lists)-1]
			if !w.tight() {
				w.blank()
			}
		}

	case ast.KindListItem:
		w.listItem(entering)

	case ast.KindThematicBreak:
		if entering {
			w.blank()
			w.write(w.lines(w.faint().Render(strings.Repeat("─", w.width()))))
			w.newline()
			w.blank()
		}

	case ast.KindHTMLBlock:
		if !entering {
			break
		}
		if s := strings.TrimSpace(stripTags(w.segments(n))); s != "" {
			w.write(w.lines(w.faint().Render(s)))
			w.newline()
			w.blank()
		}
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			t := n.(*ast.Text)
			w.inline.WriteString(w.styled(string(t.Segment.Value(w.src))))
			if t.SoftLineBreak() {
				w.inline.WriteString(" ")
			}
			if t.HardLineBreak() {
				w.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			w.inline.WriteString(w.styled(string(n.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		d := 1
		if !entering {
			d = -1
		}
		if n.(*ast.Emphasis).Level >= 2 {
			w.bold += d
		} else {
			w.italic += d
		}

	case ast.KindCodeSpan:
		if !entering {
			break
		}
		var b strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch v := c.(type) {
			case *ast.Text:
				b.Write(v.Segment.Value(w.src))
			case *ast.String:
				b.Write(v.Value)
			}
		}
		w.inline.WriteString(w.style().Reverse(true).Render(b.String()))
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if !entering {
			break
		}
		l := n.(*ast.Link)
		w.inline.WriteString(w.inlineOf(l))
		if dest := string(l.Destination); dest != "" {
			w.inline.WriteString(" " + w.faint().Render("("+dest+")"))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindAutoLink:
		if entering {
			w.inline.WriteString(w.style().Underline(true).Render(string(n.(*ast.AutoLink).URL(w.src))))
		}

	case ast.KindImage:
		if !entering {
			break
		}
		img := n.(*ast.Image)
		w.inline.WriteString(w.faint().Render("[image: " + ansi.Strip(w.inlineOf(img)) + "]"))
		return ast.WalkSkipChildren, nil

	case ast.KindRawHTML:
		if entering {
			raw := n.(*ast.RawHTML)
			var b strings.Builder
			for i := 0; i < raw.Segments.Len(); i++ {
				seg := raw.Segments.At(i)
				b.Write(seg.Value(w.src))
			}
			if s := stripTags(b.String()); s != "" {
				w.inline.WriteString(w.faint().Render(s))
			}
		}

	case extast.KindStrikethrough:
		if entering {
			w.strike++
		} else {
			w.strike--
		}

	case extast.KindTaskCheckBox:
		if entering {
			box := "[ ] "
			if n.(*extast.TaskCheckBox).IsChecked {
				box = "[x] "
			}
			w.inline.WriteString(w.styled(box))
		}

	case extast.KindTable:
		if !entering {
			break
		}
		w.table(n.(*extast.Table))
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (w *mdWriter) heading(h *ast.Heading) {
	s := ansi.Strip(w.inline.String())
	w.inline.Reset()
	if s == "" {
		return
	}
	st := w.style().Bold(true)
	if h.Level == 1 {
		s = strings.ToUpper(s)
	}
	if h.Level <= 2 {
		st = st.Underline(true)
	}
	w.blank()
	w.write(w.lines(ansi.Wrap(st.Render(s), w.width(), breakChars)))
	w.newline()
	w.blank()
}

func (w *mdWriter) code(src, lang string) {
	var body string
	var b strings.Builder
	if lang != "" && quick.Highlight(&b, src, lang, "terminal256", w.opts.SyntaxStyle) == nil {
		body = b.String()
	} else {
		body = w.faint().Render(strings.TrimRight(src, "\n"))
	}

	w.blank()
	for _, line := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
		w.write(w.lines("    " + line))
		w.newline()
	}
	w.blank()
}

func (w *mdWriter) listItem(entering bool) {
	if len(w.lists) == 0 {
		return
	}
	if !entering {
		w.prefixes = w.prefixes[:len(w.prefixes)-1]
		if w.tight() {
			w.newline()
		} else {
			w.blank()
		}
		return
	}

	top := &w.lists[len(w.lists)-1]
	mark := "• "
	if top.ordered {
		mark = fmt.Sprintf("%d. ", top.next)
		top.next++
	}
	w.bullet = w.prefix() + mark
	w.prefixes = append(w.prefixes, strings.Repeat(" ", ansi.StringWidth(mark)))
}

func (w *mdWriter) table(t *extast.Table) {
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, w.inlineOf(c))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], ansi.StringWidth(c))
		}
	}

	w.blank()
	for ri, r := range rows {
		parts := make([]string, cols)
		for i := range parts {
			var c string
			if i < len(r) {
				c = r[i]
			}
			pad := strings.Repeat(" ", widths[i]-ansi.StringWidth(c))
			if i < len(t.Alignments) && t.Alignments[i] == extast.AlignRight {
				parts[i] = pad + c
			} else {
				parts[i] = c + pad
			}
		}
		line := strings.Join(parts, " │ ")
		if ri == 0 {
			line = w.re.NewStyle().Bold(true).Render(ansi.Strip(line))
		}
		w.write(w.lines(ansi.Truncate(line, w.width(), "…")))
		w.newline()
		if ri == 0 {
			seps := make([]string, cols)
			for i, wd := range widths {
				seps[i] = strings.Repeat("─", wd)
			}
			w.write(w.lines(w.faint().Render(strings.Join(seps, "─┼─"))))
			w.newline()
		}
	}
	w.blank()
}

func stripTags(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return b.String()
}
