package infrastructure

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"strings"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/layout"
	"resume-renderer/pkg/fonts"
)

//go:embed templates/document.html
var documentTemplate string

var documentTpl = template.Must(template.New("document").Parse(documentTemplate))

// HTMLPrinter turns a complete HTML document into PDF bytes.
type HTMLPrinter interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type htmlCell struct {
	Class string
	Style template.CSS
	Text  string
}

type htmlBlock struct {
	Kind  string
	Style template.CSS
	Cells []htmlCell
}

// HTMLCanvas records the layout as flowing HTML rows and has a browser print
// it. Page breaks are left to the browser.
type HTMLCanvas struct {
	ctx     context.Context
	printer HTMLPrinter
	family  fonts.Family

	blocks      []htmlBlock
	row         *htmlBlock
	left, right float64

	title, author, creator string
}

func NewHTMLCanvas(ctx context.Context, printer HTMLPrinter, fam fonts.Family) *HTMLCanvas {
	return &HTMLCanvas{
		ctx:     ctx,
		printer: printer,
		family:  fam,
		left:    layout.Margin,
		right:   layout.Margin,
	}
}

func (c *HTMLCanvas) SetDocumentInfo(title, author, creator string) {
	c.title, c.author, c.creator = title, author, creator
}

func (c *HTMLCanvas) BeginPage() {}

func (c *HTMLCanvas) PageWidth() float64 {
	return a4Width
}

func (c *HTMLCanvas) margins() string {
	return fmt.Sprintf("margin-left:%.2fmm;margin-right:%.2fmm;", c.left, c.right)
}

func (c *HTMLCanvas) place(w, h float64, text string, adv layout.Advance, style layout.TextStyle, wrap bool) {
	if c.row == nil {
		c.row = &htmlBlock{Kind: "row", Style: template.CSS(c.margins())}
	}

	class := []string{"cell", string(style.Align)}
	var css strings.Builder
	if w == 0 {
		class = append(class, "fill")
	} else {
		fmt.Fprintf(&css, "width:%.2fmm;", w)
	}
	if wrap {
		class = append(class, "wrap")
		fmt.Fprintf(&css, "min-height:%.2fmm;", h)
	} else {
		fmt.Fprintf(&css, "height:%.2fmm;", h)
	}
	fmt.Fprintf(&css, "line-height:%.2fmm;font-size:%.1fpt;", h, style.Size)
	if style.Bold {
		css.WriteString("font-weight:700;")
	}

	c.row.Cells = append(c.row.Cells, htmlCell{
		Class: strings.Join(class, " "),
		Style: template.CSS(css.String()),
		Text:  text,
	})
	if adv == layout.NextLine {
		c.closeRow()
	}
}

func (c *HTMLCanvas) closeRow() {
	if c.row == nil {
		return
	}
	c.blocks = append(c.blocks, *c.row)
	c.row = nil
}

func (c *HTMLCanvas) PlaceText(w, h float64, text string, adv layout.Advance, style layout.TextStyle) {
	c.place(w, h, text, adv, style, false)
}

func (c *HTMLCanvas) PlaceWrappedText(w, h float64, text string, adv layout.Advance, style layout.TextStyle) {
	c.place(w, h, text, adv, style, true)
}

func (c *HTMLCanvas) DrawHorizontalRule(length float64) {
	c.closeRow()
	c.blocks = append(c.blocks, htmlBlock{
		Kind:  "rule",
		Style: template.CSS(fmt.Sprintf("margin-left:%.2fmm;width:%.2fmm;", c.left, length)),
	})
}

func (c *HTMLCanvas) AdvanceVertical(amount float64) {
	c.closeRow()
	c.blocks = append(c.blocks, htmlBlock{
		Kind:  "space",
		Style: template.CSS(fmt.Sprintf("height:%.2fmm;", amount)),
	})
}

func (c *HTMLCanvas) SetHorizontalMargins(margin float64) {
	c.left, c.right = margin, margin
}

func fontFace(family string, weight int, data []byte) string {
	return fmt.Sprintf("@font-face { font-family: '%s'; font-weight: %d; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
		family, weight, base64.StdEncoding.EncodeToString(data))
}

// HTML returns the document recorded so far.
func (c *HTMLCanvas) HTML() (string, error) {
	if len(c.family.Regular) == 0 || len(c.family.Bold) == 0 {
		return "", domain.NewRenderError(domain.ErrCodeFontLoad, "font family "+c.family.Name+" is incomplete", nil)
	}
	c.closeRow()

	faces := fontFace(c.family.Name, 400, c.family.Regular) + fontFace(c.family.Name, 700, c.family.Bold)
	data := map[string]interface{}{
		"Title":       c.title,
		"Author":      c.author,
		"Creator":     c.creator,
		"Family":      c.family.Name,
		"FontFaces":   template.CSS(faces),
		"PageMargin":  template.CSS(fmt.Sprintf("%.2fmm", layout.Margin)),
		"CellPadding": template.CSS(fmt.Sprintf("%.2fmm", cellPadding)),
		"Blocks":      c.blocks,
	}
	var buf bytes.Buffer
	if err := documentTpl.Execute(&buf, data); err != nil {
		return "", domain.NewRenderError(domain.ErrCodeCanvas, "execute document template", err)
	}
	return buf.String(), nil
}

func (c *HTMLCanvas) Finish(out io.Writer) error {
	html, err := c.HTML()
	if err != nil {
		return err
	}
	if c.printer == nil {
		return domain.NewRenderError(domain.ErrCodeCanvas, "no html printer configured", nil)
	}
	doc, err := c.printer.RenderHTMLToPDF(c.ctx, html)
	if err != nil {
		return domain.NewRenderError(domain.ErrCodeCanvas, "print html", err)
	}
	if _, err := out.Write(doc); err != nil {
		return domain.NewRenderError(domain.ErrCodeOutput, "write document", err)
	}
	return nil
}
