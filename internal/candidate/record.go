package candidate

import (
	"encoding/json"

	"gorm.io/datatypes"

	"jobbyResume/internal/database"
)

const processedMessage = "Resume processed successfully"

// Profile 是解析接口返回给调用方的候选人资料。
type Profile struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	CandidateID int64       `json:"candidate_id"`
	ResumeID    uint        `json:"resume_id"`
	Data        ProfileData `json:"data"`
}

// ProfileData 展开简历字段，并把平台字段收拢到 jobby 下。
type ProfileData struct {
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Location          string          `json:"location"`
	Gender            string          `json:"gender"`
	Summary           string          `json:"summary"`
	Skills            json.RawMessage `json:"skills"`
	Languages         json.RawMessage `json:"languages"`
	Certifications    json.RawMessage `json:"certifications"`
	Education         json.RawMessage `json:"education"`
	Experience        json.RawMessage `json:"experience"`
	Projects          json.RawMessage `json:"projects"`
	Achievements      json.RawMessage `json:"achievements"`
	Publications      json.RawMessage `json:"publications"`
	VolunteerWork     json.RawMessage `json:"volunteer_work"`
	ProfessionalLinks json.RawMessage `json:"professional_links"`
	Tags              json.RawMessage `json:"tags"`
	HasJobbyData      bool            `json:"has_jobby_data"`
	Jobby             JobbyProfile    `json:"jobby"`
}

// JobbyProfile 是来自平台的补充信息。
type JobbyProfile struct {
	Name           string          `json:"name"`
	Gender         string          `json:"gender"`
	Telephone      string          `json:"telephone"`
	Email          string          `json:"email"`
	About          string          `json:"about"`
	Rating         float64         `json:"rating"`
	Premium        bool            `json:"premium"`
	Jobs           json.RawMessage `json:"jobs"`
	Certifications json.RawMessage `json:"certifications"`
	Skills         json.RawMessage `json:"skills"`
	Language       string          `json:"language"`
	Location       string          `json:"location"`
}

// NewProfile 把存储记录整形为响应结构，空列表列输出为 []，空对象列输出为 {}。
func NewProfile(rec *database.CandidateResume) *Profile {
	return &Profile{
		Success:     true,
		Message:     processedMessage,
		CandidateID: rec.UserID,
		ResumeID:    rec.ID,
		Data: ProfileData{
			Name:              rec.Name,
			Email:             rec.Email,
			Phone:             rec.Phone,
			Location:          rec.Location,
			Gender:            rec.Gender,
			Summary:           rec.Summary,
			Skills:            listOrEmpty(rec.Skills),
			Languages:         listOrEmpty(rec.Languages),
			Certifications:    listOrEmpty(rec.Certifications),
			Education:         listOrEmpty(rec.Education),
			Experience:        listOrEmpty(rec.Experience),
			Projects:          listOrEmpty(rec.Projects),
			Achievements:      listOrEmpty(rec.Achievements),
			Publications:      listOrEmpty(rec.Publications),
			VolunteerWork:     listOrEmpty(rec.VolunteerWork),
			ProfessionalLinks: listOrEmpty(rec.ProfessionalLinks),
			Tags:              listOrEmpty(rec.Tags),
			HasJobbyData:      rec.HasJobbyData,
			Jobby: JobbyProfile{
				Name:           rec.JobbyName,
				Gender:         rec.JobbyGender,
				Telephone:      rec.JobbyTelephone,
				Email:          rec.JobbyEmail,
				About:          rec.JobbyAbout,
				Rating:         rec.JobbyRating,
				Premium:        rec.JobbyPremium,
				Jobs:           orDefault(rec.JobbyJobs, emptyMapping),
				Certifications: listOrEmpty(rec.JobbyCertifications),
				Skills:         listOrEmpty(rec.JobbySkills),
				Language:       rec.JobbyLanguage,
				Location:       rec.JobbyLocation,
			},
		},
	}
}

func listOrEmpty(j datatypes.JSON) json.RawMessage {
	return orDefault(j, emptyList)
}

func orDefault(j, fallback datatypes.JSON) json.RawMessage {
	if len(j) == 0 || string(j) == "null" {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(j)
}
