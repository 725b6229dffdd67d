package layout

import "io"

// Advance says where the cursor goes after a cell is placed.
type Advance int

const (
	// SameLine leaves the cursor to the right of the cell.
	SameLine Advance = iota
	// NextLine moves the cursor to the left margin, one cell height down.
	NextLine
)

// Align is a horizontal text alignment inside a cell.
type Align string

const (
	AlignLeft    Align = "L"
	AlignCenter  Align = "C"
	AlignRight   Align = "R"
	AlignJustify Align = "J"
)

// TextStyle carries the font weight, size (pt) and alignment of a cell.
type TextStyle struct {
	Bold  bool
	Size  float64
	Align Align
}

// Canvas is the drawing surface the engine writes to. Lengths are millimetres.
// A width of 0 means the cell extends to the right margin. Implementations own
// the cursor, the page breaks and the output encoding; errors raised while
// drawing are kept and returned by Finish.
type Canvas interface {
	BeginPage()
	PageWidth() float64
	PlaceText(w, h float64, text string, adv Advance, style TextStyle)
	PlaceWrappedText(w, h float64, text string, adv Advance, style TextStyle)
	DrawHorizontalRule(length float64)
	AdvanceVertical(amount float64)
	SetHorizontalMargins(margin float64)
	Finish(out io.Writer) error
}

// DocumentInfo is implemented by canvases whose output carries metadata.
type DocumentInfo interface {
	SetDocumentInfo(title, author, creator string)
}
