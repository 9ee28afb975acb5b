package candidate

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobbyResume/internal/database"
	"jobbyResume/internal/errcode"
)

// Repository 读写 candidate_resumes 表。
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository 构造 Repository。
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{db: db, logger: logger}
}

// DB 暴露底层连接，供搜索在同一张表上执行只读查询。
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Upsert 在事务中按 resume_path 插入或整列覆盖记录，失败时回滚。
func (r *Repository) Upsert(ctx context.Context, rec *database.CandidateResume) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "resume_path"}},
			DoUpdates: clause.AssignmentColumns(database.UpsertColumns()),
		}).Create(rec).Error
	})
	if err == nil {
		return nil
	}

	fields := []zap.Field{zap.String("resume_path", rec.ResumePath), zap.Error(err)}
	switch {
	case errcode.IsInvalidByteSequence(err):
		r.logger.Error("upsert rejected invalid byte sequence", fields...)
	case errcode.IsNotNullViolation(err):
		r.logger.Error("upsert violated not-null constraint", fields...)
	case errcode.IsUniqueViolation(err):
		r.logger.Error("upsert lost unique race", fields...)
	default:
		r.logger.Error("upsert candidate resume failed", fields...)
	}
	return errcode.Persistence("Failed to store resume data", err)
}

// FindByPath 按 resume_path 读取记录，不存在时返回 KindNotFound。
func (r *Repository) FindByPath(ctx context.Context, resumePath string) (*database.CandidateResume, error) {
	var rec database.CandidateResume
	err := r.db.WithContext(ctx).Where("resume_path = ?", resumePath).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.NotFound("Resume not found")
	}
	if err != nil {
		return nil, errcode.Persistence("Failed to read resume data", err)
	}
	return &rec, nil
}

// FindByUserIDs 一次读取全部给定用户的记录，按 id 排序。
func (r *Repository) FindByUserIDs(ctx context.Context, userIDs []int64) ([]database.CandidateResume, error) {
	if len(userIDs) == 0 {
		return []database.CandidateResume{}, nil
	}
	var recs []database.CandidateResume
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("id").Find(&recs).Error; err != nil {
		return nil, errcode.Persistence("Failed to read candidates", err)
	}
	return recs, nil
}

// cleanPath 规范化调用方传入的对象路径。
func cleanPath(p string) string {
	return strings.TrimSpace(p)
}
