package infrastructure

import (
	"fmt"
	"io"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/layout"
	"resume-renderer/pkg/fonts"
)

const (
	fpdfRegular = ""
	fpdfBold    = "B"

	// cellPadding is the horizontal inset of text inside every cell, mm.
	cellPadding = 1.0
)

// PDFCanvas draws straight into an A4 fpdf document.
type PDFCanvas struct {
	pdf     *fpdf.Fpdf
	family  string
	fontErr error
}

// NewPDFCanvas prepares an A4 portrait document with both faces of fam
// registered. A face that fails to parse is reported by Finish.
func NewPDFCanvas(fam fonts.Family) *PDFCanvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(layout.Margin, layout.Margin, layout.Margin)
	pdf.SetAutoPageBreak(true, layout.Margin)
	pdf.SetCellMargin(cellPadding)
	pdf.SetCatalogSort(true)

	c := &PDFCanvas{pdf: pdf, family: fam.Name}
	c.fontErr = c.register(fpdfRegular, fam.Regular)
	if c.fontErr == nil {
		c.fontErr = c.register(fpdfBold, fam.Bold)
	}
	return c
}

func (c *PDFCanvas) register(style string, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse %s %q face: %v", c.family, style, r)
		}
	}()
	if len(data) == 0 {
		return fmt.Errorf("%s %q face is empty", c.family, style)
	}
	c.pdf.AddUTF8FontFromBytes(c.family, style, data)
	if c.pdf.GetFontDesc(c.family, style).Ascent == 0 {
		return fmt.Errorf("%s %q face could not be parsed", c.family, style)
	}
	return nil
}

// SetTimestamp fixes the creation and modification dates written to the
// document. Unset, fpdf uses the time of output.
func (c *PDFCanvas) SetTimestamp(t time.Time) {
	c.pdf.SetCreationDate(t)
	c.pdf.SetModificationDate(t)
}

func (c *PDFCanvas) SetDocumentInfo(title, author, creator string) {
	c.pdf.SetTitle(title, true)
	c.pdf.SetAuthor(author, true)
	c.pdf.SetCreator(creator, true)
}

func (c *PDFCanvas) BeginPage() {
	c.pdf.AddPage()
}

// PageCount is the number of pages started so far.
func (c *PDFCanvas) PageCount() int {
	return c.pdf.PageNo()
}

func (c *PDFCanvas) PageWidth() float64 {
	w, _ := c.pdf.GetPageSize()
	return w
}

func (c *PDFCanvas) setStyle(style layout.TextStyle) {
	if c.fontErr != nil {
		return
	}
	s := fpdfRegular
	if style.Bold {
		s = fpdfBold
	}
	c.pdf.SetFont(c.family, s, style.Size)
}

func (c *PDFCanvas) PlaceText(w, h float64, text string, adv layout.Advance, style layout.TextStyle) {
	c.setStyle(style)
	c.pdf.CellFormat(w, h, text, "", lnFor(adv), string(style.Align), false, 0, "")
}

// PlaceWrappedText flows text over as many lines as it needs. fpdf always
// leaves a multi-line cell at the left margin, so SameLine moves the cursor
// back up to the right of the block's first line.
func (c *PDFCanvas) PlaceWrappedText(w, h float64, text string, adv layout.Advance, style layout.TextStyle) {
	c.setStyle(style)
	x, y := c.pdf.GetX(), c.pdf.GetY()
	if w == 0 {
		pw, _ := c.pdf.GetPageSize()
		_, _, right, _ := c.pdf.GetMargins()
		w = pw - right - x
	}
	c.pdf.MultiCell(w, h, text, "", string(style.Align), false)
	if adv == layout.SameLine {
		c.pdf.SetXY(x+w, y)
	}
}

func (c *PDFCanvas) DrawHorizontalRule(length float64) {
	x, y := c.pdf.GetX(), c.pdf.GetY()
	c.pdf.Line(x, y, x+length, y)
}

func (c *PDFCanvas) AdvanceVertical(amount float64) {
	c.pdf.CellFormat(0, amount, "", "", 1, "", false, 0, "")
}

func (c *PDFCanvas) SetHorizontalMargins(margin float64) {
	c.pdf.SetLeftMargin(margin)
	c.pdf.SetRightMargin(margin)
}

func (c *PDFCanvas) Finish(out io.Writer) error {
	if c.fontErr != nil {
		return domain.NewRenderError(domain.ErrCodeFontLoad, "register fonts", c.fontErr)
	}
	if err := c.pdf.Error(); err != nil {
		return domain.NewRenderError(domain.ErrCodeCanvas, "draw document", err)
	}
	if err := c.pdf.Output(out); err != nil {
		return domain.NewRenderError(domain.ErrCodeOutput, "write document", err)
	}
	return nil
}

func lnFor(adv layout.Advance) int {
	if adv == layout.NextLine {
		return 1
	}
	return 0
}
