package domain

// Skill is a named competence with a non-negative weight. Higher levels are
// encoded in keyword documents as more repetitions of the skill name.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// PositionSkill is a skill required by a project position. Compulsory skills
// gate which employees are eligible for the position regardless of score.
type PositionSkill struct {
	Skill
	Compulsory bool `json:"compulsory"`
}

// Project is a staffing project. Its keywords are derived from name and
// description only; skills live on its positions.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// Position is an open role within a project.
type Position struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Skills      []PositionSkill `json:"skills"`
	Keywords    string          `json:"keywords"`
}

// CompulsorySkills returns the subset of the position's skills marked compulsory.
func (p Position) CompulsorySkills() []PositionSkill {
	var result []PositionSkill
	for _, s := range p.Skills {
		if s.Compulsory {
			result = append(result, s)
		}
	}
	return result
}

// PlainSkills returns the position's skills without the compulsory flag.
func (p Position) PlainSkills() []Skill {
	skills := make([]Skill, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = s.Skill
	}
	return skills
}

// Employee is a person who can be staffed on positions.
// Keywords aggregate the employee's own fields and every experience document.
type Employee struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Preferences string  `json:"preferences"`
	Skills      []Skill `json:"skills"`
	Keywords    string  `json:"keywords"`
}

// Experience is a past engagement of an employee.
type Experience struct {
	ID          int64    `json:"id"`
	EmployeeID  int64    `json:"employee_id"`
	Name        string   `json:"name"`
	Customer    string   `json:"customer"`
	Position    string   `json:"position"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Keywords    string   `json:"keywords"`
}

// EmployeeProfile is everything the employee aggregate keyword document is
// computed from: the employee's own fields plus the stored keyword documents
// of all of its experience records.
type EmployeeProfile struct {
	EmployeeID         int64
	Preferences        string
	Skills             []Skill
	ExperienceKeywords []string
}

// ProjectDetails is a project with its positions in project order.
type ProjectDetails struct {
	Project
	Positions []Position `json:"positions"`
}

// EmployeeDetails is an employee with its experience records in creation order.
type EmployeeDetails struct {
	Employee
	Experiences []Experience `json:"experiences"`
}

// Summary is a lightweight id/name pair used in listings.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
