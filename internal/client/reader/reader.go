package reader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/logging"
)

// ErrStale is returned for work that belongs to a closed or replaced session.
var ErrStale = errors.New("reader session is no longer active")

// Fetcher loads a single document.
type Fetcher interface {
	GetDocument(ctx context.Context, token string, id int64) (models.Document, error)
}

// Reader owns at most one live Session. Opening a document replaces the
// previous session; results that arrive for a replaced session are dropped.
type Reader struct {
	fetcher  Fetcher
	measurer Measurer
	renderer PageRenderer
	logger   logging.Logger

	mu      sync.Mutex
	gen     uint64
	current *Session
}

type Option func(*Reader)

func WithMeasurer(m Measurer) Option     { return func(r *Reader) { r.measurer = m } }
func WithRenderer(p PageRenderer) Option { return func(r *Reader) { r.renderer = p } }
func WithLogger(l logging.Logger) Option { return func(r *Reader) { r.logger = l } }

func New(f Fetcher, opts ...Option) *Reader {
	r := &Reader{fetcher: f, logger: logging.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.measurer == nil {
		r.measurer = NewPDFCPUMeasurer()
	}
	if r.renderer == nil {
		r.renderer = FrameRenderer{}
	}
	return r
}

// Begin starts a new session for document id and cancels the previous one.
// The document is not fetched yet; see Session.Load.
func (r *Reader) Begin(parent context.Context, id int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.current.cancel()
	}
	r.gen++
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		reader: r,
		id:     id,
		gen:    r.gen,
		ctx:    ctx,
		cancel: cancel,
		pres:   DefaultPresentation(),
		state:  StateLoading,
	}
	r.current = s
	return s
}

// Open begins a session and loads the document into it.
func (r *Reader) Open(ctx context.Context, token string, id int64) (*Session, error) {
	s := r.Begin(ctx, id)
	if err := s.Load(token); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the live session, if any.
func (r *Reader) Current() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Close ends the live session. Pending renders are cancelled and any of
// their late results are discarded.
func (r *Reader) Close() {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()

	if s != nil {
		s.close()
	}
}

func (r *Reader) isCurrent(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current == s
}

// State is the lifecycle stage of a session.
type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
	StateClosed
)

// Session is one open of one document.
type Session struct {
	reader *Reader
	id     int64
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  State
	doc    models.Document
	pres   Presentation
	pdf    []byte
	pages  []PageSize
	pdfErr string
	pager  *Pager
	layout uint64
}

func (s *Session) ID() int64                { return s.id }
func (s *Session) Generation() uint64       { return s.gen }
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Live reports whether the session is still the reader's current one.
func (s *Session) Live() bool {
	return s.reader.isCurrent(s) && s.ctx.Err() == nil
}

// Load fetches the document from the API. When the session was replaced or
// closed while waiting, the result is discarded and ErrStale returned. A
// fetch failure closes the session.
func (s *Session) Load(token string) error {
	doc, err := s.reader.fetcher.GetDocument(s.ctx, token, s.id)
	if !s.Live() {
		s.reader.logger.Debug(s.ctx, "dropping stale document", "id", s.id, "generation", s.gen)
		return ErrStale
	}
	if err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		s.reader.closeIf(s)
		return fmt.Errorf("get document %d: %w", s.id, err)
	}

	s.mu.Lock()
	s.doc = doc
	s.state = StateReady
	s.mu.Unlock()

	if doc.Type == models.DocTypePDF {
		s.preparePDF()
	}
	return nil
}

func (r *Reader) closeIf(s *Session) {
	r.mu.Lock()
	if r.current == s {
		r.current = nil
	}
	r.mu.Unlock()
	s.close()
}

func (s *Session) close() {
	s.cancel()
	s.mu.Lock()
	s.state = StateClosed
	s.pager = nil
	s.mu.Unlock()
}

// preparePDF decodes and measures the document. Failures are kept as a
// message for the view instead of closing the reader.
func (s *Session) preparePDF() {
	raw, err := DecodePDF(s.doc.Content)
	if err != nil {
		msg := MsgPDFLoad
		if errors.Is(err, ErrNoContent) {
			msg = MsgNoPDFContent
		}
		s.reader.logger.Warn(s.ctx, "cannot decode pdf", "id", s.id, "error", err)
		s.setPDFError(msg)
		return
	}

	pages, err := s.reader.measurer.Measure(s.ctx, raw)
	if err != nil {
		s.reader.logger.Warn(s.ctx, "cannot measure pdf", "id", s.id, "error", err)
		s.setPDFError(MsgPDFLoad)
		return
	}

	s.mu.Lock()
	s.pdf = raw
	s.pages = pages
	s.rebuildLocked()
	s.mu.Unlock()
}

func (s *Session) setPDFError(msg string) {
	s.mu.Lock()
	s.pdfErr = msg
	s.mu.Unlock()
}

func (s *Session) rebuildLocked() {
	if s.pages == nil || s.state == StateClosed {
		return
	}
	s.layout++
	s.pager = NewPager(s.layout, s.pages, s.pres.Zoom, s.pres.Layout)
}

func (s *Session) Document() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

func (s *Session) IsPDF() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Type == models.DocTypePDF
}

// PDFError is the message to show instead of the PDF, or "".
func (s *Session) PDFError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pdfErr
}

func (s *Session) Presentation() Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pres
}

// Pager returns the current PDF layout, or nil.
func (s *Session) Pager() *Pager {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pager
}

// Update applies a presentation change. A change of zoom or page layout
// builds a new PDF layout, so every page may render again.
func (s *Session) Update(fn func(Presentation) Presentation) Presentation {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.pres
	s.pres = fn(s.pres)
	if s.pres.Zoom != prev.Zoom || s.pres.Layout != prev.Layout {
		s.rebuildLocked()
	}
	return s.pres
}

// Visible schedules the pages near the window [top, top+height].
func (s *Session) Visible(top, height float64) []PageJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pager == nil || s.state != StateReady {
		return nil
	}
	return s.pager.Visible(top, height)
}

// RenderPage runs job on the renderer under the session context. It is safe
// to call from another goroutine.
func (s *Session) RenderPage(job PageJob) PageResult {
	s.mu.Lock()
	pdf := s.pdf
	s.mu.Unlock()

	body, err := s.reader.renderer.RenderPage(s.ctx, pdf, job)
	return PageResult{Layout: job.Layout, Page: job.Page, Body: body, Err: err}
}

// ApplyPage stores a render result if the session is still live and the
// result belongs to the current layout.
func (s *Session) ApplyPage(r PageResult) bool {
	if !s.Live() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pager == nil {
		return false
	}
	return s.pager.Apply(r)
}

// RenderMarkdown renders a Markdown document for a terminal termWidth
// columns wide. dark selects the syntax style.
func (s *Session) RenderMarkdown(termWidth int, dark bool, opts MarkdownOptions) string {
	s.mu.Lock()
	content, pres := s.doc.Content, s.pres
	s.mu.Unlock()

	opts.Width = WrapWidth(termWidth, pres.FontSize)
	opts.Palette = pres.Theme.Palette()
	opts.SyntaxStyle = SyntaxStyle(dark)
	return RenderMarkdown(content, opts)
}
