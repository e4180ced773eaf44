// Package editing holds the grid editing model: selection, paint strokes,
// clipboard and undo history. It turns user gestures into changesets and
// leaves applying them to the assignment service.
package editing

// Pos addresses a grid cell by row (assignee) and column (week).
type Pos struct {
	Row int
	Col int
}

// Rect is an inclusive block of cells.
type Rect struct {
	Top, Left, Bottom, Right int
}

func (r Rect) Contains(p Pos) bool {
	return p.Row >= r.Top && p.Row <= r.Bottom && p.Col >= r.Left && p.Col <= r.Right
}

func (r Rect) Height() int { return r.Bottom - r.Top + 1 }
func (r Rect) Width() int  { return r.Right - r.Left + 1 }

// Positions lists the cells of r in row-major order.
func (r Rect) Positions() []Pos {
	if r.Height() <= 0 || r.Width() <= 0 {
		return nil
	}
	out := make([]Pos, 0, r.Height()*r.Width())
	for row := r.Top; row <= r.Bottom; row++ {
		for col := r.Left; col <= r.Right; col++ {
			out = append(out, Pos{Row: row, Col: col})
		}
	}
	return out
}

// Selection is an anchor and a cursor within a rows x cols grid. The
// selected block spans both corners.
type Selection struct {
	Anchor Pos
	Cursor Pos
	rows   int
	cols   int
}

func NewSelection(rows, cols int) *Selection {
	return &Selection{rows: rows, cols: cols}
}

// Resize changes the grid bounds, pulling both corners back inside.
func (s *Selection) Resize(rows, cols int) {
	s.rows, s.cols = rows, cols
	s.Anchor = s.clamp(s.Anchor)
	s.Cursor = s.clamp(s.Cursor)
}

// Empty reports whether the grid has no cells to select.
func (s *Selection) Empty() bool {
	return s.rows <= 0 || s.cols <= 0
}

func (s *Selection) Rect() Rect {
	if s.Empty() {
		return Rect{Top: 0, Left: 0, Bottom: -1, Right: -1}
	}
	return Rect{
		Top:    min(s.Anchor.Row, s.Cursor.Row),
		Left:   min(s.Anchor.Col, s.Cursor.Col),
		Bottom: max(s.Anchor.Row, s.Cursor.Row),
		Right:  max(s.Anchor.Col, s.Cursor.Col),
	}
}

// IsSingle reports whether exactly one cell is selected.
func (s *Selection) IsSingle() bool {
	return s.Anchor == s.Cursor
}

// Move shifts the cursor and collapses the selection onto it.
func (s *Selection) Move(dRow, dCol int) {
	s.MoveTo(Pos{Row: s.Cursor.Row + dRow, Col: s.Cursor.Col + dCol})
}

func (s *Selection) MoveTo(p Pos) {
	s.Cursor = s.clamp(p)
	s.Anchor = s.Cursor
}

// Extend shifts the cursor and keeps the anchor, growing the block.
func (s *Selection) Extend(dRow, dCol int) {
	s.ExtendTo(Pos{Row: s.Cursor.Row + dRow, Col: s.Cursor.Col + dCol})
}

// ExtendTo moves the cursor to p keeping the anchor, as a mouse drag does.
func (s *Selection) ExtendTo(p Pos) {
	s.Cursor = s.clamp(p)
}

func (s *Selection) SelectAll() {
	s.Anchor = Pos{}
	s.Cursor = s.clamp(Pos{Row: s.rows - 1, Col: s.cols - 1})
}

// Collapse drops the block, keeping only the cursor cell.
func (s *Selection) Collapse() {
	s.Anchor = s.Cursor
}

func (s *Selection) clamp(p Pos) Pos {
	p.Row = max(0, min(p.Row, s.rows-1))
	p.Col = max(0, min(p.Col, s.cols-1))
	return p
}
