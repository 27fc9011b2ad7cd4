package reader

import "slices"

const (
	// LookaheadPx is how far outside the visible window a placeholder may
	// be and still trigger its page render.
	LookaheadPx = 200.0
	// PageGapPx separates pages vertically and horizontally.
	PageGapPx = 24.0
)

// Slot is a page placeholder positioned in the scroll space.
type Slot struct {
	Page int // 1-based
	Row  int
	X, Y float64
	Size PageSize // scaled
}

func (s Slot) Bottom() float64 { return s.Y + s.Size.Height }

// PageJob asks for page Page to be rendered at Size for layout Layout.
type PageJob struct {
	Layout uint64
	Page   int
	Size   PageSize
}

// PageResult is the outcome of a PageJob.
type PageResult struct {
	Layout uint64
	Page   int
	Body   string
	Err    error
}

// Pager places the pages of a PDF and decides which of them are close
// enough to the visible window to be rendered. Every layout triggers each
// page at most once; changing zoom or arrangement means a new Pager.
type Pager struct {
	id     uint64
	layout Layout
	slots  []Slot
	rows   int
	width  float64
	height float64

	triggered []bool
	bodies    map[int]string
	failed    map[int]error
}

// NewPager lays out pages (unscaled) at zoom. id identifies the layout in
// jobs and results.
func NewPager(id uint64, pages []PageSize, zoom float64, layout Layout) *Pager {
	p := &Pager{
		id:        id,
		layout:    layout,
		slots:     make([]Slot, len(pages)),
		triggered: make([]bool, len(pages)),
		bodies:    make(map[int]string),
		failed:    make(map[int]error),
	}

	perRow := 1
	if layout == LayoutDouble {
		perRow = 2
	}

	y := 0.0
	for start := 0; start < len(pages); start += perRow {
		end := min(start+perRow, len(pages))
		row := start / perRow
		x, rowH := 0.0, 0.0
		for i := start; i < end; i++ {
			sz := pages[i].Scale(zoom)
			p.slots[i] = Slot{Page: i + 1, Row: row, X: x, Y: y, Size: sz}
			x += sz.Width + PageGapPx
			rowH = max(rowH, sz.Height)
		}
		p.width = max(p.width, x-PageGapPx)
		y += rowH + PageGapPx
		p.rows++
	}
	if p.rows > 0 {
		y -= PageGapPx
	}
	p.height = y
	return p
}

func (p *Pager) ID() uint64      { return p.id }
func (p *Pager) Layout() Layout  { return p.layout }
func (p *Pager) Pages() int      { return len(p.slots) }
func (p *Pager) Rows() int       { return p.rows }
func (p *Pager) Height() float64 { return p.height }
func (p *Pager) Width() float64  { return p.width }

// Slots returns the placeholders in page order.
func (p *Pager) Slots() []Slot { return slices.Clone(p.slots) }

// RowSlots returns the placeholders of one row.
func (p *Pager) RowSlots(row int) []Slot {
	var out []Slot
	for _, s := range p.slots {
		if s.Row == row {
			out = append(out, s)
		}
	}
	return out
}

// Visible returns jobs for pages whose placeholder intersects the window
// [top, top+height] widened by LookaheadPx on both sides, skipping pages
// already triggered in this layout.
func (p *Pager) Visible(top, height float64) []PageJob {
	lo, hi := top-LookaheadPx, top+height+LookaheadPx
	var jobs []PageJob
	for i, s := range p.slots {
		if p.triggered[i] || s.Bottom() < lo || s.Y > hi {
			continue
		}
		p.triggered[i] = true
		jobs = append(jobs, PageJob{Layout: p.id, Page: s.Page, Size: s.Size})
	}
	return jobs
}

// Triggered reports whether page has been scheduled in this layout.
func (p *Pager) Triggered(page int) bool {
	return page >= 1 && page <= len(p.triggered) && p.triggered[page-1]
}

// Apply stores a render result. Results of another layout are dropped and
// Apply reports false.
func (p *Pager) Apply(r PageResult) bool {
	if r.Layout != p.id || r.Page < 1 || r.Page > len(p.slots) {
		return false
	}
	if r.Err != nil {
		p.failed[r.Page] = r.Err
		return true
	}
	p.bodies[r.Page] = r.Body
	return true
}

// Body returns the rendered content of page, if any.
func (p *Pager) Body(page int) (string, bool) {
	b, ok := p.bodies[page]
	return b, ok
}

// Failed returns the render error of page, if any.
func (p *Pager) Failed(page int) error {
	return p.failed[page]
}

// Rendered counts pages that have a body.
func (p *Pager) Rendered() int {
	return len(p.bodies)
}
