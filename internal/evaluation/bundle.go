package evaluation

import (
	"encoding/json"
	"strings"

	"jobbyResume/internal/database"
)

// ContextBundle 是交给模型评估的候选人上下文。
type ContextBundle struct {
	ProfileCompletion         ProfileCompletion         `json:"profile_completion"`
	ExperienceSkills          ExperienceSkills          `json:"experience_skills"`
	LocationAvailability      LocationAvailability      `json:"location_availability"`
	Performance               Performance               `json:"performance"`
	CertificationsCredentials CertificationsCredentials `json:"certifications_credentials"`
}

type ProfileCompletion struct {
	HasJobbyData      bool `json:"has_jobby_data"`
	BasicInfoComplete bool `json:"basic_info_complete"`
}

type ExperienceSkills struct {
	About                string          `json:"about"`
	Skills               []string        `json:"skills"`
	ExperienceFromResume json.RawMessage `json:"experience_from_resume"`
	JobbyJobs            json.RawMessage `json:"jobby_jobs"`
}

type LocationAvailability struct {
	Location           string `json:"location"`
	Availability       string `json:"availability"`
	RemoteWorkPossible bool   `json:"remote_work_possible"`
}

type Performance struct {
	Rating  float64         `json:"rating"`
	Reviews json.RawMessage `json:"reviews"`
	Premium bool            `json:"premium"`
}

type CertificationsCredentials struct {
	Certifications []string        `json:"certifications"`
	Languages      json.RawMessage `json:"languages"`
	Education      json.RawMessage `json:"education"`
}

// BuildBundle 从存储记录构造评估上下文。技能与认证取两侧并集并去重，保持首次出现的顺序。
func BuildBundle(rec *database.CandidateResume) ContextBundle {
	var about []string
	for _, s := range []string{rec.JobbyAbout, rec.Summary} {
		if s = strings.TrimSpace(s); s != "" {
			about = append(about, s)
		}
	}

	location := rec.JobbyLocation
	if location == "" {
		location = rec.Location
	}

	return ContextBundle{
		ProfileCompletion: ProfileCompletion{
			HasJobbyData: rec.HasJobbyData,
			BasicInfoComplete: rec.JobbyName != "" && rec.JobbyEmail != "" &&
				rec.JobbyTelephone != "" && rec.JobbyGender != "",
		},
		ExperienceSkills: ExperienceSkills{
			About:                strings.Join(about, " "),
			Skills:               union(stringList(rec.JobbySkills), stringList(rec.Skills)),
			ExperienceFromResume: rawOr(rec.Experience, "[]"),
			JobbyJobs:            rawOr(rec.JobbyJobs, "{}"),
		},
		LocationAvailability: LocationAvailability{
			Location:           location,
			Availability:       rec.JobbyAvailability,
			RemoteWorkPossible: true,
		},
		Performance: Performance{
			Rating:  rec.JobbyRating,
			Reviews: rawOr(rec.JobbyReviews, "[]"),
			Premium: rec.JobbyPremium,
		},
		CertificationsCredentials: CertificationsCredentials{
			Certifications: union(stringList(rec.JobbyCertifications), stringList(rec.Certifications)),
			Languages:      rawOr(rec.Languages, "[]"),
			Education:      rawOr(rec.Education, "[]"),
		},
	}
}

// Prompt 渲染发送给模型的评估输入。
func (b ContextBundle) Prompt(requirement string) (string, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return "Requirements: " + requirement + "\n\nCandidate Data: " + string(raw), nil
}

// stringList 解码字符串数组列；列为空或不是字符串数组时返回 nil。
func stringList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func union(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, list := range lists {
		for _, v := range list {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

func rawOr(raw []byte, fallback string) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return json.RawMessage(fallback)
	}
	return json.RawMessage(raw)
}
