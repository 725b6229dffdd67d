package layout

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-renderer/internal/domain"
)

const a4Width = 210.0

type op struct {
	Kind   string
	W, H   float64
	Text   string
	Adv    Advance
	Style  TextStyle
	Amount float64
}

// recorder is a Canvas double that keeps every call in order.
type recorder struct {
	ops       []op
	finishErr error
	title     string
	author    string
}

func (r *recorder) BeginPage()         { r.ops = append(r.ops, op{Kind: "page"}) }
func (r *recorder) PageWidth() float64 { return a4Width }
func (r *recorder) PlaceText(w, h float64, text string, adv Advance, style TextStyle) {
	r.ops = append(r.ops, op{Kind: "text", W: w, H: h, Text: text, Adv: adv, Style: style})
}
func (r *recorder) PlaceWrappedText(w, h float64, text string, adv Advance, style TextStyle) {
	r.ops = append(r.ops, op{Kind: "wrapped", W: w, H: h, Text: text, Adv: adv, Style: style})
}
func (r *recorder) DrawHorizontalRule(length float64) {
	r.ops = append(r.ops, op{Kind: "rule", Amount: length})
}
func (r *recorder) AdvanceVertical(amount float64) {
	r.ops = append(r.ops, op{Kind: "gap", Amount: amount})
}
func (r *recorder) SetHorizontalMargins(margin float64) {
	r.ops = append(r.ops, op{Kind: "margins", Amount: margin})
}
func (r *recorder) Finish(out io.Writer) error {
	r.ops = append(r.ops, op{Kind: "finish"})
	if r.finishErr != nil {
		return r.finishErr
	}
	_, err := io.WriteString(out, "%PDF-recorded")
	return err
}
func (r *recorder) SetDocumentInfo(title, author, creator string) {
	r.title, r.author = title, author
}

func (r *recorder) texts() []string {
	var out []string
	for _, o := range r.ops {
		if o.Kind == "text" || o.Kind == "wrapped" {
			out = append(out, o.Text)
		}
	}
	return out
}

// index returns the position of the first text op equal to s.
func (r *recorder) index(t *testing.T, s string) int {
	t.Helper()
	for i, o := range r.ops {
		if (o.Kind == "text" || o.Kind == "wrapped") && o.Text == s {
			return i
		}
	}
	t.Fatalf("text %q not rendered", s)
	return -1
}

func render(t *testing.T, r *domain.Resume) *recorder {
	t.Helper()
	rec := &recorder{}
	var buf bytes.Buffer
	require.NoError(t, NewEngine("test").Render(r, rec, &buf))
	assert.Equal(t, "%PDF-recorded", buf.String())
	return rec
}

func sampleResume() *domain.Resume {
	return &domain.Resume{
		FullName:    "Ada Lovelace",
		PhoneNumber: "555-0100",
		Location:    "London",
		Email:       "ada@example.com",
		LinkedInURL: "linkedin.com/in/ada",
		Education: []domain.Education{{
			Institution:    "University of London",
			Location:       "London",
			ProgramName:    "Mathematics",
			GraduationDate: domain.NewDate(1835, time.June, 1),
		}},
		Experience: []domain.Experience{{
			Company:  "Analytical Engines Ltd",
			Location: "London",
			Positions: []domain.Position{
				{
					Title:        "Lead Programmer",
					StartDate:    domain.NewDate(1843, time.January, 1),
					EndDate:      domain.NewDate(1845, time.March, 15),
					Achievements: []domain.Achievement{{Description: "Wrote the first program"}, {Description: "Annotated the engine"}},
				},
				{
					Title:        "Analyst",
					StartDate:    domain.NewDate(1842, time.May, 3),
					EndDate:      domain.NewDate(1843, time.January, 1),
					Achievements: []domain.Achievement{{Description: "Translated Menabrea"}},
				},
			},
		}},
		Skills: []domain.Skill{{Name: "Math"}, {Name: "Poetry"}},
	}
}

func TestRenderDocumentOrder(t *testing.T) {
	rec := render(t, sampleResume())

	require.Equal(t, "page", rec.ops[0].Kind)
	assert.Equal(t, "finish", rec.ops[len(rec.ops)-1].Kind)

	name := rec.ops[1]
	assert.Equal(t, "Ada Lovelace", name.Text)
	assert.Equal(t, TextStyle{Bold: true, Size: 16, Align: AlignCenter}, name.Style)
	assert.Equal(t, NextLine, name.Adv)
	assert.Equal(t, 0.0, name.W)

	info := rec.ops[2]
	assert.Equal(t, "London • 555-0100 • ada@example.com • linkedin.com/in/ada", info.Text)
	assert.Equal(t, TextStyle{Size: 9, Align: AlignCenter}, info.Style)

	edu := rec.index(t, "EDUCATION")
	exp := rec.index(t, "PROFESSIONAL EXPERIENCE")
	skills := rec.index(t, "SKILLS")
	assert.True(t, edu < exp && exp < skills)
	assert.Equal(t, "Ada Lovelace Resume", rec.title)
	assert.Equal(t, "Ada Lovelace", rec.author)
}

func TestSectionTitleIsFollowedByRuleAndGap(t *testing.T) {
	rec := render(t, sampleResume())
	width := a4Width - 2*Margin
	for _, title := range []string{"EDUCATION", "PROFESSIONAL EXPERIENCE", "SKILLS"} {
		i := rec.index(t, title)
		assert.Equal(t, TextStyle{Bold: true, Size: 10, Align: AlignCenter}, rec.ops[i].Style, title)
		assert.Equal(t, op{Kind: "rule", Amount: width}, rec.ops[i+1], title)
		assert.Equal(t, op{Kind: "gap", Amount: Gap}, rec.ops[i+2], title)
	}
	// skills get one more gap
	i := rec.index(t, "SKILLS")
	assert.Equal(t, op{Kind: "gap", Amount: Gap}, rec.ops[i+3])
}

func TestEducationRow(t *testing.T) {
	rec := render(t, sampleResume())
	width := a4Width - 2*Margin
	i := rec.index(t, "University of London, London")

	left, right, program := rec.ops[i], rec.ops[i+1], rec.ops[i+2]
	assert.Equal(t, width/2, left.W)
	assert.Equal(t, SameLine, left.Adv)
	assert.Equal(t, 11.0, left.Style.Size)

	assert.Equal(t, "Jun 1835", right.Text)
	assert.Equal(t, width/2, right.W)
	assert.Equal(t, NextLine, right.Adv)
	assert.Equal(t, AlignRight, right.Style.Align)

	assert.Equal(t, "Mathematics", program.Text)
	assert.True(t, program.Style.Bold)
	assert.Equal(t, NextLine, program.Adv)
}

func TestCurrentEducationShowsMarker(t *testing.T) {
	r := sampleResume()
	r.Education[0].IsCurrent = true
	rec := render(t, r)
	i := rec.index(t, "University of London, London")
	assert.Equal(t, "CURRENT", rec.ops[i+1].Text)
}

func TestExperienceTimelineAggregates(t *testing.T) {
	rec := render(t, sampleResume())
	i := rec.index(t, "Analytical Engines Ltd, London")
	tl := rec.ops[i+1]
	assert.Equal(t, "May 1842 – Mar 1845", tl.Text)
	assert.Equal(t, AlignRight, tl.Style.Align)
	assert.Equal(t, 10.0, tl.Style.Size)
}

func TestAchievementsAreIndentedBullets(t *testing.T) {
	rec := render(t, sampleResume())
	i := rec.index(t, "Lead Programmer")

	assert.Equal(t, op{Kind: "margins", Amount: Margin + Indent}, rec.ops[i+1])
	want := []string{"Wrote the first program", "Annotated the engine"}
	j := i + 2
	for _, desc := range want {
		bullet, body := rec.ops[j], rec.ops[j+1]
		assert.Equal(t, Bullet, bullet.Text)
		assert.Equal(t, BulletWidth, bullet.W)
		assert.Equal(t, SameLine, bullet.Adv)
		assert.Equal(t, TextStyle{Bold: true, Size: 14, Align: AlignLeft}, bullet.Style)

		assert.Equal(t, "wrapped", body.Kind)
		assert.Equal(t, desc, body.Text)
		assert.Equal(t, NextLine, body.Adv)
		assert.Equal(t, AlignJustify, body.Style.Align)
		j += 2
	}
	assert.Equal(t, op{Kind: "gap", Amount: Gap}, rec.ops[j])
	assert.Equal(t, op{Kind: "margins", Amount: Margin}, rec.ops[j+1])
}

func TestAchievementCountMatchesBullets(t *testing.T) {
	r := sampleResume()
	r.Experience[0].Positions = r.Experience[0].Positions[:1]
	r.Experience[0].Positions[0].Achievements = []domain.Achievement{
		{Description: "one"}, {Description: "two"}, {Description: "three"}, {Description: "four"},
	}
	r.Skills = nil
	rec := render(t, r)

	var wrapped []string
	bullets := 0
	for _, o := range rec.ops {
		if o.Kind == "wrapped" {
			wrapped = append(wrapped, o.Text)
			assert.Equal(t, NextLine, o.Adv)
		}
		if o.Kind == "text" && o.Text == Bullet {
			bullets++
		}
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, wrapped)
	assert.Equal(t, 4, bullets)
}

func TestMarginsRestoredWhenCanvasPanics(t *testing.T) {
	rec := &panicking{}
	assert.Panics(t, func() {
		_ = NewEngine("").Render(sampleResume(), rec, io.Discard)
	})
	require.NotEmpty(t, rec.margins)
	assert.Equal(t, Margin, rec.margins[len(rec.margins)-1])
}

// panicking blows up on the first wrapped text, inside the indented scope.
type panicking struct {
	recorder
	margins []float64
}

func (p *panicking) SetHorizontalMargins(m float64) { p.margins = append(p.margins, m) }
func (p *panicking) PlaceWrappedText(float64, float64, string, Advance, TextStyle) {
	panic("boom")
}

func skillRows(rec *recorder) []string {
	var rows []string
	var cur []string
	start := false
	for _, o := range rec.ops {
		if o.Kind == "text" && o.Text == "SKILLS" {
			start = true
			continue
		}
		if !start || o.Kind != "text" || o.Text == Bullet {
			continue
		}
		cur = append(cur, o.Text)
		if o.Adv == NextLine {
			rows = append(rows, strings.Join(cur, " "))
			cur = nil
		}
	}
	if len(cur) > 0 {
		rows = append(rows, strings.Join(cur, " "))
	}
	return rows
}

func TestSkillGridWrapsEveryFourth(t *testing.T) {
	r := &domain.Resume{FullName: "X"}
	for _, n := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		r.Skills = append(r.Skills, domain.Skill{Name: n})
	}
	rec := render(t, r)
	assert.Equal(t, []string{"A B C D", "E F G H"}, skillRows(rec))

	width := a4Width - 2*Margin
	i := rec.index(t, "A")
	assert.Equal(t, width/4, rec.ops[i].W)
	assert.Equal(t, Bullet, rec.ops[i-1].Text)
}

func TestSkillAdvance(t *testing.T) {
	for i := 0; i < 12; i++ {
		want := SameLine
		if i == 3 || i == 7 || i == 11 {
			want = NextLine
		}
		assert.Equal(t, want, SkillAdvance(i), "index %d", i)
	}
}

func TestEmptyResumeStillRendersSkeleton(t *testing.T) {
	rec := render(t, &domain.Resume{FullName: "Nobody"})
	assert.Equal(t, []string{"Nobody", " •  •  • ", "EDUCATION", "PROFESSIONAL EXPERIENCE", "SKILLS"}, rec.texts())
}

func TestExperienceWithoutPositions(t *testing.T) {
	r := &domain.Resume{FullName: "X", Experience: []domain.Experience{{Company: "Acme", Location: "Remote"}}}
	rec := render(t, r)
	i := rec.index(t, "Acme, Remote")
	assert.Equal(t, " – ", rec.ops[i+1].Text)
	assert.Equal(t, "SKILLS", rec.ops[i+2].Text)
}

func TestFinishErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	rec := &recorder{finishErr: boom}
	err := NewEngine("").Render(sampleResume(), rec, io.Discard)
	assert.ErrorIs(t, err, boom)
}

func TestRenderNilResume(t *testing.T) {
	err := NewEngine("").Render(nil, &recorder{}, io.Discard)
	assert.ErrorIs(t, err, domain.ErrInvalidResume)
}
