package infrastructure

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/layout"
	"resume-renderer/pkg/fonts"
)

// A4 in millimetres.
const (
	a4Width  = 210.0
	a4Height = 297.0

	ruleWidth = 0.2
)

// VectorCanvas lays pages out in memory with tdewolff/canvas and encodes
// them as PDF on Finish. Cursor and page-break behaviour follow fpdf: cells
// that would cross the bottom margin start a new page at the same x.
type VectorCanvas struct {
	family  *canvas.FontFamily
	fontErr error

	pages []*canvas.Canvas
	ctx   *canvas.Context

	x, y          float64
	left, right   float64
	top, breakAt  float64
	title, author string
	creator       string
}

func NewVectorCanvas(fam fonts.Family) *VectorCanvas {
	c := &VectorCanvas{
		left:    layout.Margin,
		right:   layout.Margin,
		top:     layout.Margin,
		breakAt: a4Height - layout.Margin,
	}
	family := canvas.NewFontFamily(fam.Name)
	if err := family.LoadFont(fam.Regular, 0, canvas.FontRegular); err != nil {
		c.fontErr = fmt.Errorf("load %s regular face: %w", fam.Name, err)
	} else if err := family.LoadFont(fam.Bold, 0, canvas.FontBold); err != nil {
		c.fontErr = fmt.Errorf("load %s bold face: %w", fam.Name, err)
	}
	c.family = family
	return c
}

func (c *VectorCanvas) SetDocumentInfo(title, author, creator string) {
	c.title, c.author, c.creator = title, author, creator
}

func (c *VectorCanvas) BeginPage() {
	page := canvas.New(a4Width, a4Height)
	ctx := canvas.NewContext(page)
	ctx.SetCoordSystem(canvas.CartesianIV)
	c.pages = append(c.pages, page)
	c.ctx = ctx
	c.x, c.y = c.left, c.top
}

func (c *VectorCanvas) PageCount() int {
	return len(c.pages)
}

func (c *VectorCanvas) PageWidth() float64 {
	return a4Width
}

// ensure starts a new page when a cell of height h would cross the bottom
// margin. The current x survives the break.
func (c *VectorCanvas) ensure(h float64) {
	if c.ctx == nil {
		c.BeginPage()
		return
	}
	if c.y+h > c.breakAt {
		x := c.x
		c.BeginPage()
		c.x = x
	}
}

func (c *VectorCanvas) face(style layout.TextStyle) *canvas.FontFace {
	fs := canvas.FontRegular
	if style.Bold {
		fs = canvas.FontBold
	}
	return c.family.Face(style.Size, canvas.Black, fs, canvas.FontNormal)
}

func (c *VectorCanvas) cellWidth(w float64) float64 {
	if w == 0 {
		return a4Width - c.right - c.x
	}
	return w
}

func (c *VectorCanvas) advance(w, h float64, adv layout.Advance) {
	if adv == layout.NextLine {
		c.x = c.left
		c.y += h
		return
	}
	c.x += w
}

// baseline centres the face vertically in a cell of height h, as fpdf does.
func baseline(top, h float64, face *canvas.FontFace) float64 {
	m := face.Metrics()
	return top + h/2 + (m.Ascent-m.Descent)/2
}

func (c *VectorCanvas) drawLine(x, w, h float64, text string, face *canvas.FontFace, align layout.Align) {
	if c.fontErr != nil || text == "" {
		return
	}
	ta, anchor := textAnchor(x, w, align)
	c.ctx.DrawText(anchor, baseline(c.y, h, face), canvas.NewTextLine(face, text, ta))
}

// textAnchor places text inside a cell of width w at x, inset by cellPadding
// on the aligned side.
func textAnchor(x, w float64, align layout.Align) (canvas.TextAlign, float64) {
	switch align {
	case layout.AlignCenter:
		return canvas.Center, x + w/2
	case layout.AlignRight:
		return canvas.Right, x + w - cellPadding
	default:
		return canvas.Left, x + cellPadding
	}
}

func (c *VectorCanvas) PlaceText(w, h float64, text string, adv layout.Advance, style layout.TextStyle) {
	c.ensure(h)
	w = c.cellWidth(w)
	if c.fontErr == nil {
		c.drawLine(c.x, w, h, text, c.face(style), style.Align)
	}
	c.advance(w, h, adv)
}

func (c *VectorCanvas) PlaceWrappedText(w, h float64, text string, adv layout.Advance, style layout.TextStyle) {
	c.ensure(h)
	x0, y0 := c.x, c.y
	w = c.cellWidth(w)
	if c.fontErr != nil {
		c.advance(w, h, adv)
		return
	}

	face := c.face(style)
	lines := wrapText(text, w-2*cellPadding, face)
	for i, line := range lines {
		c.ensure(h)
		last := i == len(lines)-1
		if style.Align == layout.AlignJustify && !last && !line.hardBreak {
			c.drawJustified(x0, w, h, line.words, face)
		} else {
			align := style.Align
			if align == layout.AlignJustify {
				align = layout.AlignLeft
			}
			c.drawLine(x0, w, h, strings.Join(line.words, " "), face, align)
		}
		c.y += h
	}

	if adv == layout.SameLine {
		c.x, c.y = x0+w, y0
		return
	}
	c.x = c.left
}

func (c *VectorCanvas) drawJustified(x, w, h float64, words []string, face *canvas.FontFace) {
	if len(words) < 2 {
		c.drawLine(x, w, h, strings.Join(words, " "), face, layout.AlignLeft)
		return
	}
	total := 0.0
	for _, word := range words {
		total += face.TextWidth(word)
	}
	gap := (w - 2*cellPadding - total) / float64(len(words)-1)
	base := baseline(c.y, h, face)
	x += cellPadding
	for _, word := range words {
		c.ctx.DrawText(x, base, canvas.NewTextLine(face, word, canvas.Left))
		x += face.TextWidth(word) + gap
	}
}

func (c *VectorCanvas) DrawHorizontalRule(length float64) {
	if c.ctx == nil {
		c.BeginPage()
	}
	c.ctx.SetStrokeColor(canvas.Black)
	c.ctx.SetStrokeWidth(ruleWidth)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(length, 0)
	c.ctx.DrawPath(c.x, c.y, p)
}

func (c *VectorCanvas) AdvanceVertical(amount float64) {
	c.ensure(amount)
	c.x = c.left
	c.y += amount
}

func (c *VectorCanvas) SetHorizontalMargins(margin float64) {
	c.left, c.right = margin, margin
	if c.x < margin {
		c.x = margin
	}
}

func (c *VectorCanvas) Finish(out io.Writer) error {
	if c.fontErr != nil {
		return domain.NewRenderError(domain.ErrCodeFontLoad, "register fonts", c.fontErr)
	}
	if len(c.pages) == 0 {
		return domain.NewRenderError(domain.ErrCodeCanvas, "document has no pages", nil)
	}

	writer := pdf.New(out, a4Width, a4Height, nil)
	writer.SetInfo(c.title, "", "", c.author, c.creator)
	for i, page := range c.pages {
		if i > 0 {
			writer.NewPage(a4Width, a4Height)
		}
		page.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return domain.NewRenderError(domain.ErrCodeOutput, "write document", err)
	}
	return nil
}

type wrappedLine struct {
	words     []string
	hardBreak bool
}

// wrapText fills lines greedily word by word. Words wider than limit are
// split by rune; explicit newlines end a line without justification.
func wrapText(text string, limit float64, face *canvas.FontFace) []wrappedLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	space := face.TextWidth(" ")

	var lines []wrappedLine
	var cur []string
	width := 0.0
	emit := func(hard bool) {
		lines = append(lines, wrappedLine{words: cur, hardBreak: hard})
		cur, width = nil, 0
	}
	add := func(word string) {
		ww := face.TextWidth(word)
		if len(cur) > 0 && width+space+ww > limit {
			emit(false)
		}
		if len(cur) > 0 {
			width += space
		}
		cur = append(cur, word)
		width += ww
	}

	for i, para := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		if i > 0 {
			emit(true)
		}
		for _, word := range strings.FieldsFunc(para, unicode.IsSpace) {
			if face.TextWidth(word) <= limit {
				add(word)
				continue
			}
			for _, chunk := range splitByWidth(word, limit, face) {
				add(chunk)
			}
		}
	}
	emit(true)
	return lines
}

func splitByWidth(word string, limit float64, face *canvas.FontFace) []string {
	var parts []string
	var b strings.Builder
	for _, r := range word {
		b.WriteRune(r)
		if face.TextWidth(b.String()) > limit && b.Len() > 1 {
			runes := []rune(b.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			b.Reset()
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}
