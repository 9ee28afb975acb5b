package platform

import (
	"context"
	"strings"
	"time"
)

// Source 是 jobby 平台的只读数据源，每个方法在没有数据时返回 nil 而不是错误。
type Source interface {
	ResumePaths(ctx context.Context, userID int64) ([]ResumePath, error)
	BasicInfo(ctx context.Context, userID int64) (*BasicInfo, error)
	Certifications(ctx context.Context, userID int64) ([]string, error)
	JobsDone(ctx context.Context, userID int64) (*Jobs, error)
}

// ResumePath 关联平台用户与其上传的简历对象路径。
type ResumePath struct {
	CandidateID int64  `json:"candidate_id" gorm:"column:candidate_id"`
	ResumePath  string `json:"resume_path" gorm:"column:resume_path"`
}

// BasicInfo 是平台用户的基础身份信息。
type BasicInfo struct {
	UpdatedAt      *time.Time `json:"updated_at" gorm:"column:updated_at"`
	DateOfBirth    *time.Time `json:"date_of_birth" gorm:"column:date_of_birth"`
	FirstName      string     `json:"first_name" gorm:"column:first_name"`
	LastName       string     `json:"last_name" gorm:"column:last_name"`
	Email          string     `json:"email" gorm:"column:email"`
	Telephone      string     `json:"telephone" gorm:"column:telephone"`
	Gender         string     `json:"gender" gorm:"column:gender"`
	Language       string     `json:"language" gorm:"column:language"`
	About          string     `json:"about" gorm:"column:about"`
	RatingAsWorker float64    `json:"rating_as_worker" gorm:"column:rating_as_worker"`
	Premium        bool       `json:"premium" gorm:"column:premium"`
}

// FullName joins first and last name, skipping empty parts.
func (b *BasicInfo) FullName() string {
	if b == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSpace(b.FirstName) + " " + strings.TrimSpace(b.LastName))
}

// Jobs 汇总候选人在平台上完成的工作。
type Jobs struct {
	Total       int           `json:"total"`
	Categories  []JobCategory `json:"categories"`
	JobTitles   []JobTitle    `json:"job_titles"`
	LastJobDone string        `json:"last_job_done"`
}

type JobCategory struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type JobTitle struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// Data 是三路并发读取合并后的平台数据，任一部分都可能缺失。
type Data struct {
	Certifications []string   `json:"certifications"`
	Jobs           *Jobs      `json:"jobs"`
	BasicInfo      *BasicInfo `json:"basic_info"`
}

// Empty 表示平台上没有该用户的任何记录。
func (d *Data) Empty() bool {
	return d == nil || (d.BasicInfo == nil && len(d.Certifications) == 0 && d.Jobs == nil)
}
