package candidate

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"jobbyResume/internal/database"
	"jobbyResume/internal/platform"
	"jobbyResume/internal/resume"
)

var (
	emptyList    = datatypes.JSON("[]")
	emptyMapping = datatypes.JSON("{}")
)

// MergeDisjoint 构造待写入的规范记录：简历字段写入无前缀列，平台字段写入 jobby_ 前缀列，两者互不覆盖。
// 缺失的平台部分按空值处理。
func MergeDisjoint(resumePath string, userID int64, p *platform.Data, src *resume.Data, blended bool) (*database.CandidateResume, error) {
	if p == nil {
		p = &platform.Data{}
	}
	var r resume.Data
	if src != nil {
		r = *src
	}
	r.Normalize()

	rec := &database.CandidateResume{
		UserID:       userID,
		ResumePath:   resumePath,
		HasJobbyData: blended,

		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Location: r.Location,
		Gender:   r.Gender,
		Summary:  r.Summary,

		JobbySkills:    emptyList,
		JobbyEducation: emptyList,
		JobbyReviews:   emptyList,
	}

	if info := p.BasicInfo; info != nil {
		rec.JobbyName = info.FullName()
		rec.JobbyGender = info.Gender
		rec.JobbyTelephone = info.Telephone
		rec.JobbyEmail = info.Email
		rec.JobbyDateOfBirth = info.DateOfBirth
		rec.JobbyAbout = info.About
		rec.JobbyLanguage = info.Language
		rec.JobbyRating = info.RatingAsWorker
		rec.JobbyPremium = info.Premium
	}

	var err error
	lists := []struct {
		dst *datatypes.JSON
		src any
	}{
		{&rec.JobbyCertifications, nonNilStrings(p.Certifications)},
		{&rec.Skills, r.Skills},
		{&rec.Languages, r.Languages},
		{&rec.Certifications, r.Certifications},
		{&rec.Education, r.Education},
		{&rec.Experience, r.Experience},
		{&rec.Projects, r.Projects},
		{&rec.Achievements, r.Achievements},
		{&rec.Publications, r.Publications},
		{&rec.VolunteerWork, r.VolunteerWork},
		{&rec.ProfessionalLinks, r.ProfessionalLinks},
		{&rec.Tags, r.Tags},
	}
	for _, l := range lists {
		if *l.dst, err = toJSON(l.src); err != nil {
			return nil, err
		}
	}

	rec.JobbyJobs = emptyMapping
	if p.Jobs != nil {
		if rec.JobbyJobs, err = toJSON(p.Jobs); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// BlendPrompt 把平台上的自述、认证、语言与简历原文拼成一段融合输入。
func BlendPrompt(p *platform.Data, resumeText string) string {
	var b strings.Builder
	b.WriteString("### Jobby profile\n")
	if p != nil {
		if p.BasicInfo != nil {
			fmt.Fprintf(&b, "About: %s\n", strings.TrimSpace(p.BasicInfo.About))
			fmt.Fprintf(&b, "Language: %s\n", strings.TrimSpace(p.BasicInfo.Language))
		}
		if len(p.Certifications) > 0 {
			fmt.Fprintf(&b, "Certifications: %s\n", strings.Join(p.Certifications, ", "))
		}
	}
	b.WriteString("\n### Resume\n")
	b.WriteString(resumeText)
	return b.String()
}

// fillMissing 用融合前的值补齐融合结果中为空的字段。
func fillMissing(blended, original *resume.Data) {
	if original == nil {
		return
	}
	str := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = src
		}
	}
	list := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = src
		}
	}

	str(&blended.Name, original.Name)
	str(&blended.Email, original.Email)
	str(&blended.Phone, original.Phone)
	str(&blended.Location, original.Location)
	str(&blended.Gender, original.Gender)
	str(&blended.Summary, original.Summary)
	list(&blended.Skills, original.Skills)
	list(&blended.Projects, original.Projects)
	list(&blended.Achievements, original.Achievements)
	list(&blended.Publications, original.Publications)
	list(&blended.Languages, original.Languages)
	list(&blended.Certifications, original.Certifications)
	list(&blended.VolunteerWork, original.VolunteerWork)
	list(&blended.ProfessionalLinks, original.ProfessionalLinks)
	list(&blended.Tags, original.Tags)
	if len(blended.Experience) == 0 {
		blended.Experience = original.Experience
	}
	if len(blended.Education) == 0 {
		blended.Education = original.Education
	}
}

func toJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal column: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
