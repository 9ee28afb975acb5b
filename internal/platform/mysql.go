package platform

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// dom_user_data 中的数据类型编号。
const (
	domUserDataCertification = 5
	domUserDataResume        = 25
)

const resumePathsQuery = `
SELECT
    users_has_dom_user_data.users_id AS candidate_id,
    users_has_dom_user_data.value AS resume_path
FROM jobby_users.users_has_dom_user_data
WHERE users_has_dom_user_data.dom_user_data_id = @kind
  AND users_has_dom_user_data.users_id = @id`

const certificationsQuery = `
SELECT jobby_users.dom_certifications.label AS certification
FROM jobby_users.users_has_dom_user_data
INNER JOIN jobby_users.dom_certifications
    ON jobby_users.users_has_dom_user_data.value = jobby_users.dom_certifications.id
WHERE jobby_users.users_has_dom_user_data.dom_user_data_id = @kind
  AND jobby_users.users_has_dom_user_data.users_id = @id`

const basicInfoQuery = `
SELECT
    users.updated_at,
    users.date_of_birth,
    COALESCE(users.first_name, '') AS first_name,
    COALESCE(users.last_name, '') AS last_name,
    COALESCE(users.email, '') AS email,
    COALESCE(users.telephone, '') AS telephone,
    COALESCE(users.gender, '') AS gender,
    COALESCE(users.language, '') AS language,
    COALESCE(users.about, '') AS about,
    COALESCE(users.rating_as_worker, 0) AS rating_as_worker,
    COALESCE(users.premium, 0) AS premium
FROM jobby_users.users users
WHERE users.id = @id`

// 已完成工作 = 申请状态为 2（已录用）或 6（已完成）。
const jobsDoneQuery = `
SELECT JSON_OBJECT(
    'total', total_jobs,
    'categories', categories_json,
    'job_titles', job_titles_json,
    'last_job_done', last_job_date
) AS result
FROM (
    SELECT
        COUNT(DISTINCT jobs.id) AS total_jobs,
        MAX(jobs.jobstart_at) AS last_job_date,
        (
            SELECT JSON_ARRAYAGG(JSON_OBJECT('category', category, 'count', job_count))
            FROM (
                SELECT job_macro_category_translations.label AS category, COUNT(DISTINCT jobs.id) AS job_count
                FROM jobby_jobs.jobs jobs
                INNER JOIN jobby_jobs.applications apps
                    ON apps.jobs_id = jobs.id AND apps.dom_application_status_id IN (2,6)
                INNER JOIN jobby_jobs.job_micro_categories micro ON jobs.job_micro_categories_id = micro.id
                INNER JOIN jobby_jobs.job_macro_categories macro ON macro.id = micro.job_macro_categories_id
                INNER JOIN jobby_jobs.job_macro_category_translations
                    ON job_macro_category_translations.job_macro_categories_id = macro.id
                WHERE apps.users_id = @id
                GROUP BY job_macro_category_translations.label
            ) category_stats
        ) AS categories_json,
        (
            SELECT JSON_ARRAYAGG(JSON_OBJECT('title', title, 'count', job_count))
            FROM (
                SELECT jobs.title, COUNT(*) AS job_count
                FROM jobby_jobs.jobs jobs
                INNER JOIN jobby_jobs.applications apps
                    ON apps.jobs_id = jobs.id AND apps.dom_application_status_id IN (2,6)
                WHERE apps.users_id = @id
                GROUP BY jobs.title
            ) title_stats
        ) AS job_titles_json
    FROM jobby_jobs.jobs jobs
    INNER JOIN jobby_jobs.applications apps
        ON apps.jobs_id = jobs.id AND apps.dom_application_status_id IN (2,6)
    WHERE apps.users_id = @id
) stats`

// MySQLSource 基于 jobby 平台 MySQL 库实现 Source。
type MySQLSource struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMySQLSource 构造 MySQLSource。
func NewMySQLSource(db *gorm.DB, logger *zap.Logger) *MySQLSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MySQLSource{db: db, logger: logger.Named("platform")}
}

func (s *MySQLSource) ResumePaths(ctx context.Context, userID int64) ([]ResumePath, error) {
	var rows []ResumePath
	err := s.db.WithContext(ctx).
		Raw(resumePathsQuery, sql.Named("kind", domUserDataResume), sql.Named("id", userID)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query resume paths: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows, nil
}

func (s *MySQLSource) Certifications(ctx context.Context, userID int64) ([]string, error) {
	var labels []string
	err := s.db.WithContext(ctx).
		Raw(certificationsQuery, sql.Named("kind", domUserDataCertification), sql.Named("id", userID)).
		Scan(&labels).Error
	if err != nil {
		return nil, fmt.Errorf("query certifications: %w", err)
	}
	s.logger.Debug("fetched certifications", zap.Int64("user_id", userID), zap.Int("count", len(labels)))
	if len(labels) == 0 {
		return nil, nil
	}
	return labels, nil
}

func (s *MySQLSource) BasicInfo(ctx context.Context, userID int64) (*BasicInfo, error) {
	var rows []BasicInfo
	err := s.db.WithContext(ctx).
		Raw(basicInfoQuery, sql.Named("id", userID)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query basic info: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (s *MySQLSource) JobsDone(ctx context.Context, userID int64) (*Jobs, error) {
	var raw sql.NullString
	err := s.db.WithContext(ctx).
		Raw(jobsDoneQuery, sql.Named("id", userID)).
		Row().
		Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query jobs done: %w", err)
	}
	return decodeJobs(raw)
}

func decodeJobs(raw sql.NullString) (*Jobs, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var jobs Jobs
	if err := json.Unmarshal([]byte(raw.String), &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs aggregate: %w", err)
	}
	if jobs.Total == 0 {
		return nil, nil
	}
	if jobs.Categories == nil {
		jobs.Categories = []JobCategory{}
	}
	if jobs.JobTitles == nil {
		jobs.JobTitles = []JobTitle{}
	}
	return &jobs, nil
}
