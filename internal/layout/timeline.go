package layout

import (
	"time"

	"resume-renderer/internal/domain"
)

const dateLayout = "Jan 2006" // strftime %b %Y

// FormatDate renders d as "Mar 2021". Absent and unformattable dates give "".
func FormatDate(d *domain.Date) string {
	if d == nil || !d.Valid() {
		return ""
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

// Timeline is the date span shown on an experience row.
type Timeline struct {
	Start   *domain.Date
	End     *domain.Date
	Current bool
}

// AggregateTimeline takes the earliest start, the latest end and whether any
// position is current. Missing dates are skipped.
func AggregateTimeline(positions []domain.Position) Timeline {
	var tl Timeline
	for _, p := range positions {
		if p.StartDate != nil && (tl.Start == nil || p.StartDate.Before(*tl.Start)) {
			tl.Start = p.StartDate
		}
		if p.EndDate != nil && (tl.End == nil || tl.End.Before(*p.EndDate)) {
			tl.End = p.EndDate
		}
		if p.IsCurrent {
			tl.Current = true
		}
	}
	return tl
}

// Label is "start – end", with "Present" standing in for the end of a
// current span.
func (tl Timeline) Label() string {
	end := FormatDate(tl.End)
	if tl.Current {
		end = "Present"
	}
	return FormatDate(tl.Start) + " – " + end
}

// EducationLabel is "CURRENT" for ongoing programs, otherwise the formatted
// graduation date.
func EducationLabel(e domain.Education) string {
	if e.IsCurrent {
		return "CURRENT"
	}
	return FormatDate(e.GraduationDate)
}
