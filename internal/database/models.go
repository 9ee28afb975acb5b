package database

import (
	"time"

	"gorm.io/datatypes"
)

// CandidateResume 是按简历存储路径唯一的候选人规范记录。
// jobby_ 前缀的列来自平台数据，无前缀的列来自简历抽取，两组列互不覆盖。
type CandidateResume struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     int64  `gorm:"not null;index" json:"user_id"`
	ResumePath string `gorm:"size:255;not null;uniqueIndex" json:"resume_path"`

	HasJobbyData        bool           `gorm:"default:false" json:"has_jobby_data"`
	JobbyName           string         `gorm:"size:255;index" json:"jobby_name"`
	JobbyGender         string         `gorm:"size:10" json:"jobby_gender"`
	JobbyTelephone      string         `gorm:"size:45" json:"jobby_telephone"`
	JobbyEmail          string         `gorm:"size:255;index" json:"jobby_email"`
	JobbyDateOfBirth    *time.Time     `gorm:"type:date" json:"jobby_date_of_birth"`
	JobbyLocation       string         `gorm:"size:255;index" json:"jobby_location"`
	JobbyAvailability   string         `gorm:"size:255" json:"jobby_availability"`
	JobbyAbout          string         `gorm:"type:text" json:"jobby_about"`
	JobbySkills         datatypes.JSON `gorm:"type:jsonb" json:"jobby_skills"`
	JobbyLanguage       string         `gorm:"size:45" json:"jobby_language"`
	JobbyCertifications datatypes.JSON `gorm:"type:jsonb" json:"jobby_certifications"`
	JobbyEducation      datatypes.JSON `gorm:"type:jsonb" json:"jobby_education"`
	JobbyJobs           datatypes.JSON `gorm:"type:jsonb" json:"jobby_jobs"`
	JobbyRating         float64        `json:"jobby_rating"`
	JobbyPremium        bool           `gorm:"default:false" json:"jobby_premium"`
	JobbyReviews        datatypes.JSON `gorm:"type:jsonb" json:"jobby_reviews"`

	Name              string         `gorm:"size:255" json:"name"`
	Gender            string         `gorm:"size:10" json:"gender"`
	Phone             string         `gorm:"size:45" json:"phone"`
	Email             string         `gorm:"size:255" json:"email"`
	Location          string         `gorm:"size:255" json:"location"`
	Summary           string         `gorm:"type:text" json:"summary"`
	Skills            datatypes.JSON `gorm:"type:jsonb" json:"skills"`
	Languages         datatypes.JSON `gorm:"type:jsonb" json:"languages"`
	Certifications    datatypes.JSON `gorm:"type:jsonb" json:"certifications"`
	Education         datatypes.JSON `gorm:"type:jsonb" json:"education"`
	Experience        datatypes.JSON `gorm:"type:jsonb" json:"experience"`
	Projects          datatypes.JSON `gorm:"type:jsonb" json:"projects"`
	Achievements      datatypes.JSON `gorm:"type:jsonb" json:"achievements"`
	Publications      datatypes.JSON `gorm:"type:jsonb" json:"publications"`
	VolunteerWork     datatypes.JSON `gorm:"type:jsonb" json:"volunteer_work"`
	ProfessionalLinks datatypes.JSON `gorm:"type:jsonb" json:"professional_links"`
	Tags              datatypes.JSON `gorm:"type:jsonb" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 与线上既有表名保持一致。
func (CandidateResume) TableName() string {
	return "candidate_resumes"
}

// UpsertColumns 返回冲突时需要整列覆盖的列：除主键与 created_at 外的全部列。
func UpsertColumns() []string {
	return []string{
		"user_id",
		"has_jobby_data",
		"jobby_name",
		"jobby_gender",
		"jobby_telephone",
		"jobby_email",
		"jobby_date_of_birth",
		"jobby_location",
		"jobby_availability",
		"jobby_about",
		"jobby_skills",
		"jobby_language",
		"jobby_certifications",
		"jobby_education",
		"jobby_jobs",
		"jobby_rating",
		"jobby_premium",
		"jobby_reviews",
		"name",
		"gender",
		"phone",
		"email",
		"location",
		"summary",
		"skills",
		"languages",
		"certifications",
		"education",
		"experience",
		"projects",
		"achievements",
		"publications",
		"volunteer_work",
		"professional_links",
		"tags",
		"updated_at",
	}
}
