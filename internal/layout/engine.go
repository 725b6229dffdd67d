package layout

import (
	"fmt"
	"io"
	"strings"

	"resume-renderer/internal/domain"
)

// Fixed template metrics, millimetres.
const (
	Margin      = 12.7
	LineHeight  = 6.0
	Bullet      = "•"
	Indent      = 2.0
	Gap         = 0.5
	BulletWidth = 5.0
)

// Font sizes, points.
const (
	nameSize    = 16
	infoSize    = 9
	titleSize   = 10
	rowSize     = 11
	bodySize    = 10
	bulletSize  = 14
	skillsInRow = 4
)

// Engine lays a resume out on a Canvas in one top-to-bottom pass.
// It keeps no state between renders and may be shared.
type Engine struct {
	creator string
}

func NewEngine(creator string) *Engine {
	return &Engine{creator: creator}
}

// Render draws r on c and writes the finished document to out.
// Canvas failures come back from Finish unchanged.
func (e *Engine) Render(r *domain.Resume, c Canvas, out io.Writer) error {
	if r == nil {
		return fmt.Errorf("%w: resume is nil", domain.ErrInvalidResume)
	}
	if info, ok := c.(DocumentInfo); ok {
		info.SetDocumentInfo(r.FullName+" Resume", r.FullName, e.creator)
	}

	p := &pass{c: c, width: c.PageWidth() - 2*Margin}
	c.BeginPage()
	p.header(r)
	p.education(r.Education)
	p.experience(r.Experience)
	p.skills(r.Skills)
	return c.Finish(out)
}

// pass holds what one render needs: the canvas and the usable width.
type pass struct {
	c     Canvas
	width float64
}

func (p *pass) text(w float64, s string, adv Advance, bold bool, size float64, align Align) {
	p.c.PlaceText(w, LineHeight, s, adv, TextStyle{Bold: bold, Size: size, Align: align})
}

func (p *pass) header(r *domain.Resume) {
	p.text(0, r.FullName, NextLine, true, nameSize, AlignCenter)
	p.text(0, InfoLine(r), NextLine, false, infoSize, AlignCenter)
}

// InfoLine joins the contact fields with bullets. Empty fields keep their slot.
func InfoLine(r *domain.Resume) string {
	sep := " " + Bullet + " "
	return strings.Join([]string{r.Location, r.PhoneNumber, r.Email, r.LinkedInURL}, sep)
}

func (p *pass) sectionTitle(title string) {
	p.text(0, strings.ToUpper(title), NextLine, true, titleSize, AlignCenter)
	p.c.DrawHorizontalRule(p.width)
	p.c.AdvanceVertical(Gap)
}

func (p *pass) education(entries []domain.Education) {
	p.sectionTitle("education")
	for _, ed := range entries {
		p.text(p.width/2, ed.Institution+", "+ed.Location, SameLine, false, rowSize, AlignLeft)
		p.text(p.width/2, EducationLabel(ed), NextLine, false, rowSize, AlignRight)
		p.text(0, ed.ProgramName, NextLine, true, bodySize, AlignLeft)
	}
}

func (p *pass) experience(entries []domain.Experience) {
	p.sectionTitle("Professional Experience")
	for _, ex := range entries {
		p.text(p.width/2, ex.Company+", "+ex.Location, SameLine, false, rowSize, AlignLeft)
		p.text(p.width/2, AggregateTimeline(ex.Positions).Label(), NextLine, false, bodySize, AlignRight)
		for _, pos := range ex.Positions {
			p.text(0, pos.Title, NextLine, true, bodySize, AlignLeft)
			p.indented(func() {
				for _, a := range pos.Achievements {
					p.bulletPoint(a.Description)
				}
				p.c.AdvanceVertical(Gap)
			})
		}
	}
}

// indented tightens both margins for the duration of fn and restores them on
// every exit path, panics included.
func (p *pass) indented(fn func()) {
	p.c.SetHorizontalMargins(Margin + Indent)
	defer p.c.SetHorizontalMargins(Margin)
	fn()
}

func (p *pass) bullet() {
	p.text(BulletWidth, Bullet, SameLine, true, bulletSize, AlignLeft)
}

func (p *pass) bulletPoint(s string) {
	p.bullet()
	p.c.PlaceWrappedText(0, LineHeight, s, NextLine, TextStyle{Size: bodySize, Align: AlignJustify})
}

func (p *pass) skills(skills []domain.Skill) {
	p.sectionTitle("skills")
	p.c.AdvanceVertical(Gap)
	for i, s := range skills {
		p.bullet()
		p.text(p.width/skillsInRow, s.Name, SkillAdvance(i), false, bodySize, AlignLeft)
	}
}

// SkillAdvance breaks the grid after every fourth skill. Index 0 never breaks.
func SkillAdvance(i int) Advance {
	if i == 0 || i%skillsInRow != skillsInRow-1 {
		return SameLine
	}
	return NextLine
}
