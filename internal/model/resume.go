package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"resume-renderer/internal/domain"
)

// Wire types for the POST body. Nullable scalars are pointers, dates stay raw
// until ToDomain so a bad date is reported as invalid input, not bad JSON.

type Education struct {
	Institution    string          `json:"institution"`
	Location       string          `json:"location"`
	ProgramName    string          `json:"program_name"`
	GraduationDate json.RawMessage `json:"graduation_date,omitempty"`
	IsCurrent      *bool           `json:"is_current,omitempty"`
}

type Achievement struct {
	Description string `json:"description"`
}

type Position struct {
	Title        string          `json:"title"`
	Achievements []Achievement   `json:"achievements"`
	StartDate    json.RawMessage `json:"start_date,omitempty"`
	EndDate      json.RawMessage `json:"end_date,omitempty"`
	IsCurrent    *bool           `json:"is_current,omitempty"`
}

type Experience struct {
	Company   string     `json:"company"`
	Location  string     `json:"location"`
	Positions []Position `json:"positions"`
}

type Skill struct {
	Name string `json:"name"`
}

type Resume struct {
	FullName    string       `json:"full_name"`
	PhoneNumber *string      `json:"phone_number,omitempty"`
	Location    *string      `json:"location,omitempty"`
	Email       *string      `json:"email,omitempty"`
	LinkedInURL *string      `json:"linkedin_url,omitempty"`
	Education   []Education  `json:"education,omitempty"`
	Experience  []Experience `json:"experience,omitempty"`
	Skills      []Skill      `json:"skills,omitempty"`
}

// ToDomain converts the request into the record the layout engine reads.
// Nulls become "" and false.
func (r *Resume) ToDomain() (*domain.Resume, error) {
	out := &domain.Resume{
		FullName:    r.FullName,
		PhoneNumber: str(r.PhoneNumber),
		Location:    str(r.Location),
		Email:       str(r.Email),
		LinkedInURL: str(r.LinkedInURL),
	}

	for i, e := range r.Education {
		grad, err := parseDate(e.GraduationDate)
		if err != nil {
			return nil, fieldError(fmt.Sprintf("education.%d.graduation_date", i), err)
		}
		out.Education = append(out.Education, domain.Education{
			Institution:    e.Institution,
			Location:       e.Location,
			ProgramName:    e.ProgramName,
			GraduationDate: grad,
			IsCurrent:      flag(e.IsCurrent),
		})
	}

	for i, ex := range r.Experience {
		exp := domain.Experience{Company: ex.Company, Location: ex.Location}
		for j, p := range ex.Positions {
			prefix := fmt.Sprintf("experience.%d.positions.%d", i, j)
			start, err := parseDate(p.StartDate)
			if err != nil {
				return nil, fieldError(prefix+".start_date", err)
			}
			end, err := parseDate(p.EndDate)
			if err != nil {
				return nil, fieldError(prefix+".end_date", err)
			}
			pos := domain.Position{Title: p.Title, StartDate: start, EndDate: end, IsCurrent: flag(p.IsCurrent)}
			for _, a := range p.Achievements {
				pos.Achievements = append(pos.Achievements, domain.Achievement{Description: a.Description})
			}
			exp.Positions = append(exp.Positions, pos)
		}
		out.Experience = append(out.Experience, exp)
	}

	for _, s := range r.Skills {
		out.Skills = append(out.Skills, domain.Skill{Name: s.Name})
	}
	return out, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func flag(b *bool) bool {
	return b != nil && *b
}

// dateLayouts covers every form the schema pattern admits: a bare date, or a
// date with a T or space separator, minutes or seconds (fractions are always
// accepted after seconds) and an optional Z, +hh:mm or +hhmm zone.
var dateLayouts = buildDateLayouts()

func buildDateLayouts() []string {
	layouts := []string{"2006-01-02"}
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15:04:05", "15:04"} {
			for _, zone := range []string{"", "Z07:00", "Z0700"} {
				layouts = append(layouts, "2006-01-02"+sep+clock+zone)
			}
		}
	}
	return layouts
}

// Above this magnitude a numeric timestamp is taken as milliseconds.
const msThreshold = 2e10

// parseDate accepts null, an ISO date or date-time string, or a Unix
// timestamp. Only the calendar date survives.
func parseDate(raw json.RawMessage) (*domain.Date, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}

	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return checked(domain.DateOf(t), v)
			}
		}
		return nil, fmt.Errorf("%q is not a date", v)
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("%s is not a date", s)
	}
	if math.Abs(n) > msThreshold {
		n /= 1000
	}
	sec, frac := math.Modf(n)
	return checked(domain.DateOf(time.Unix(int64(sec), int64(frac*1e9)).UTC()), s)
}

func checked(d domain.Date, src string) (*domain.Date, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%s is out of range", src)
	}
	return &d, nil
}
