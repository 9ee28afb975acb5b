package resume

// Data 是从简历文本中抽取出的结构化候选人资料。
type Data struct {
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone"`
	Location          string       `json:"location"`
	Gender            string       `json:"gender"`
	Summary           string       `json:"summary"`
	Skills            []string     `json:"skills"`
	Projects          []string     `json:"projects"`
	Achievements      []string     `json:"achievements"`
	Publications      []string     `json:"publications"`
	Experience        []Experience `json:"experience"`
	Education         []Education  `json:"education"`
	Languages         []string     `json:"languages"`
	Certifications    []string     `json:"certifications"`
	VolunteerWork     []string     `json:"volunteer_work"`
	ProfessionalLinks []string     `json:"professional_links"`
	Tags              []string     `json:"tags"`
}

// Experience 描述一段工作经历。EndDate 为 "Present" 表示仍在职。
type Experience struct {
	ExperienceID string `json:"experience_id"`
	Company      string `json:"company"`
	Title        string `json:"title"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
}

// Education 描述一段教育经历。
type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"field_of_study,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	GPA          *float64 `json:"gpa,omitempty"`
}

// PresentSentinel marks an ongoing experience or education entry.
const PresentSentinel = "Present"

// Normalize replaces nil slices with empty ones so stored JSON never carries null lists.
func (d *Data) Normalize() {
	if d == nil {
		return
	}
	d.Skills = nonNil(d.Skills)
	d.Projects = nonNil(d.Projects)
	d.Achievements = nonNil(d.Achievements)
	d.Publications = nonNil(d.Publications)
	d.Languages = nonNil(d.Languages)
	d.Certifications = nonNil(d.Certifications)
	d.VolunteerWork = nonNil(d.VolunteerWork)
	d.ProfessionalLinks = nonNil(d.ProfessionalLinks)
	d.Tags = nonNil(d.Tags)
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
