package domain

// Resume is the validated resume record handed to the layout engine.
// Optional contact fields are empty strings when absent.
type Resume struct {
	FullName    string
	PhoneNumber string
	Location    string
	Email       string
	LinkedInURL string
	Education   []Education
	Experience  []Experience
	Skills      []Skill
}

type Education struct {
	Institution    string
	Location       string
	ProgramName    string
	GraduationDate *Date
	IsCurrent      bool
}

type Experience struct {
	Company   string
	Location  string
	Positions []Position
}

type Position struct {
	Title        string
	Achievements []Achievement
	StartDate    *Date
	EndDate      *Date
	IsCurrent    bool
}

type Achievement struct {
	Description string
}

type Skill struct {
	Name string
}
