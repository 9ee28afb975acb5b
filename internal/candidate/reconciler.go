package candidate

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"jobbyResume/internal/errcode"
	"jobbyResume/internal/llm"
	"jobbyResume/internal/platform"
	"jobbyResume/internal/resume"
)

// ReconcileInput 是一次合并写入所需的全部输入。
type ReconcileInput struct {
	ResumePath     string
	ExternalUserID int64
	Platform       *platform.Data
	Resume         *resume.Data
	// ResumeText 是简历原文，仅在 Blended 时使用。
	ResumeText string
	Blended    bool
}

// Reconciler 把平台数据与简历数据合并为每个 resume_path 唯一的一条记录。
type Reconciler struct {
	repo      *Repository
	extractor llm.Extractor
	logger    *zap.Logger
}

// NewReconciler 构造 Reconciler。extractor 只在融合模式下使用。
func NewReconciler(repo *Repository, extractor llm.Extractor, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{repo: repo, extractor: extractor, logger: logger.Named("reconciler")}
}

// Reconcile 合并、清理并 upsert 记录，返回重新读取后的资料。
func (r *Reconciler) Reconcile(ctx context.Context, in ReconcileInput) (*Profile, error) {
	in.ResumePath = cleanPath(in.ResumePath)
	if in.ResumePath == "" {
		return nil, errcode.Invalid("resume path is required")
	}
	if in.Platform.Empty() {
		return nil, errcode.MissingContext("Candidate basic info not found")
	}

	log := r.logger.With(
		zap.String("resume_path", in.ResumePath),
		zap.Int64("user_id", in.ExternalUserID),
		zap.Bool("blended", in.Blended),
	)

	data := in.Resume
	if in.Blended {
		blended, err := r.blend(ctx, in)
		if err != nil {
			log.Error("blend resume with platform data failed", zap.Error(err))
			return nil, err
		}
		data = blended
	}

	rec, err := MergeDisjoint(in.ResumePath, in.ExternalUserID, in.Platform, data, in.Blended)
	if err != nil {
		return nil, errcode.Persistence("Failed to store resume data", err)
	}
	if err := sanitizeRecord(rec); err != nil {
		return nil, errcode.Persistence("Failed to store resume data", err)
	}

	if err := r.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	stored, err := r.repo.FindByPath(ctx, in.ResumePath)
	if err != nil {
		log.Error("re-read upserted record failed", zap.Error(err))
		return nil, errcode.Persistence("Failed to read resume data", err)
	}

	log.Info("candidate record reconciled", zap.Uint("resume_id", stored.ID))
	return NewProfile(stored), nil
}

// Lookup 返回已处理过的简历资料，不存在时返回 KindNotFound。
func (r *Reconciler) Lookup(ctx context.Context, resumePath string) (*Profile, error) {
	rec, err := r.repo.FindByPath(ctx, cleanPath(resumePath))
	if err != nil {
		return nil, err
	}
	return NewProfile(rec), nil
}

func (r *Reconciler) blend(ctx context.Context, in ReconcileInput) (*resume.Data, error) {
	if r.extractor == nil {
		return nil, errcode.Extraction("blending requires an extractor", nil)
	}

	text := in.ResumeText
	if text == "" && in.Resume != nil {
		raw, err := json.Marshal(in.Resume)
		if err != nil {
			return nil, fmt.Errorf("marshal resume data: %w", err)
		}
		text = string(raw)
	}

	var blended resume.Data
	if err := llm.ExtractInto(ctx, r.extractor, BlendPrompt(in.Platform, text), llm.ResumeSchema(), llm.BlendInstruction, &blended); err != nil {
		return nil, err
	}
	fillMissing(&blended, in.Resume)
	return &blended, nil
}
