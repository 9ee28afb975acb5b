package llm

import "google.golang.org/genai"

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func strList(desc string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: desc,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

func object(required []string, ordering []string, props map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         required,
		PropertyOrdering: ordering,
	}
}

func experienceSchema() *genai.Schema {
	return object(
		[]string{"experience_id", "company", "title", "start_date"},
		[]string{"experience_id", "company", "title", "start_date", "end_date", "duration", "description", "location"},
		map[string]*genai.Schema{
			"experience_id": str("Unique identifier of the experience entry, its 1-based position"),
			"company":       str("Name of the company or organization"),
			"title":         str("Job title or position held"),
			"start_date":    str("Start date of employment (YYYY-MM)"),
			"end_date":      str("End date of employment (YYYY-MM or 'Present')"),
			"duration":      str("Human readable duration, e.g. '2 years', 'less than 1 year'"),
			"description":   str("Roles, responsibilities and achievements"),
			"location":      str("Location of the job (City, Region, Country)"),
		},
	)
}

func educationSchema() *genai.Schema {
	return object(
		[]string{"institution", "degree"},
		[]string{"institution", "degree", "field_of_study", "start_date", "end_date", "gpa"},
		map[string]*genai.Schema{
			"institution":    str("Name of the educational institution"),
			"degree":         str("Degree or certification obtained"),
			"field_of_study": str("Major field of study"),
			"start_date":     str("Start date (YYYY-MM)"),
			"end_date":       str("End date (YYYY-MM or 'Present')"),
			"gpa":            {Type: genai.TypeNumber, Description: "Grade point average on a 4.0 scale"},
		},
	)
}

// ResumeSchema 约束简历抽取结果，字段与 resume.Data 的 JSON 标签一致。
func ResumeSchema() *genai.Schema {
	return object(
		[]string{"name", "skills", "experience", "education", "languages", "certifications", "tags"},
		[]string{
			"name", "email", "phone", "location", "gender", "summary", "skills", "projects",
			"achievements", "publications", "experience", "education", "languages",
			"certifications", "volunteer_work", "professional_links", "tags",
		},
		map[string]*genai.Schema{
			"name":     str("Full name of the candidate"),
			"email":    str("Professional email address"),
			"phone":    str("Contact phone number"),
			"location": str("Current location (City, Region, Country)"),
			"gender": {
				Type:        genai.TypeString,
				Description: "Gender (M: male, F: female, 0: other or unknown)",
				Enum:        []string{"M", "F", "0"},
			},
			"summary":            str("Detailed personal and professional background"),
			"skills":             strList("Technical and soft skills"),
			"projects":           strList("Notable projects completed"),
			"achievements":       strList("Personal, professional and academic achievements"),
			"publications":       strList("Published works and research papers"),
			"experience":         {Type: genai.TypeArray, Description: "Professional work experience", Items: experienceSchema()},
			"education":          {Type: genai.TypeArray, Description: "Educational background", Items: educationSchema()},
			"languages":          strList("Languages known with proficiency"),
			"certifications":     strList("Certifications and licenses"),
			"volunteer_work":     strList("Volunteer experience"),
			"professional_links": strList("LinkedIn, portfolio and other professional links"),
			"tags":               strList("10 tags describing the candidate, used for search"),
		},
	)
}

// EvaluationSchema 约束候选人评估结果。
func EvaluationSchema() *genai.Schema {
	relevance := object(
		[]string{"experience", "is_relevant"},
		[]string{"experience", "is_relevant"},
		map[string]*genai.Schema{
			"experience":  experienceSchema(),
			"is_relevant": {Type: genai.TypeBoolean, Description: "Whether the experience is relevant to the requirement"},
		},
	)
	return object(
		[]string{
			"feedback_badges", "matching_score", "strengths", "caution_points", "profile_overview",
			"about", "remote_work_preference", "experience_relevance",
		},
		[]string{
			"feedback_badges", "matching_score", "strengths", "caution_points", "profile_overview", "about",
			"technical_skills", "soft_skills", "location_preferences", "remote_work_preference",
			"experience_relevance", "certifications",
		},
		map[string]*genai.Schema{
			"feedback_badges":        strList("At least 5 badges highlighting key characteristics"),
			"matching_score":         {Type: genai.TypeNumber, Description: "Overall matching score (0-100)"},
			"strengths":              strList("Main strengths of the candidate (max 3)"),
			"caution_points":         strList("Points of caution or areas for improvement (max 3)"),
			"profile_overview":       str("Concise overview of the candidate profile"),
			"about":                  str("Detailed personal and professional background"),
			"technical_skills":       strList("Technical skills and proficiencies"),
			"soft_skills":            strList("Soft skills and interpersonal abilities"),
			"location_preferences":   strList("Preferred work locations"),
			"remote_work_preference": str("Remote only, Hybrid or On-site only"),
			"experience_relevance": {
				Type:        genai.TypeArray,
				Description: "Relevance of each resume experience to the requirement (max 4)",
				Items:       relevance,
			},
			"certifications": strList("Professional certifications and licenses"),
		},
	)
}
