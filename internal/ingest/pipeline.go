package ingest

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"jobbyResume/internal/candidate"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/llm"
	"jobbyResume/internal/platform"
	"jobbyResume/internal/resume"
	"jobbyResume/internal/tracing"
)

type resumeFetcher interface {
	FetchResume(ctx context.Context, objectPath string) (localPath string, found bool, err error)
}

type platformReader interface {
	ResumePath(ctx context.Context, userID int64) (string, error)
	Collect(ctx context.Context, userID int64) (*platform.Data, error)
}

type recordStore interface {
	Reconcile(ctx context.Context, in candidate.ReconcileInput) (*candidate.Profile, error)
	Lookup(ctx context.Context, resumePath string) (*candidate.Profile, error)
}

// Request 描述一次简历解析请求。
type Request struct {
	CandidateID int64 `json:"candidate_id"`
	Blended     bool  `json:"blended"`
	// Reprocess 为 true 时忽略已有记录，重新抽取并覆盖。
	Reprocess bool `json:"reprocess"`
}

// Pipeline 串联简历路径查询、下载、扫描、文本抽取、结构化抽取与合并写入。
type Pipeline struct {
	platform   platformReader
	store      resumeFetcher
	scanner    resume.Scanner
	extractor  llm.Extractor
	reconciler recordStore
	logger     *zap.Logger
}

// NewPipeline 构造 Pipeline。scanner 为空时不扫描。
func NewPipeline(p platformReader, store resumeFetcher, scanner resume.Scanner, extractor llm.Extractor, reconciler recordStore, logger *zap.Logger) *Pipeline {
	if scanner == nil {
		scanner = resume.NopScanner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		platform:   p,
		store:      store,
		scanner:    scanner,
		extractor:  extractor,
		reconciler: reconciler,
		logger:     logger.Named("ingest"),
	}
}

// Process 处理候选人的简历并返回合并后的资料。已处理过且未要求重处理时直接返回已有记录。
func (p *Pipeline) Process(ctx context.Context, req Request) (_ *candidate.Profile, err error) {
	ctx, span := tracing.Tracer("ingest").Start(ctx, "ingest.Process",
		trace.WithAttributes(
			attribute.Int64("candidate_id", req.CandidateID),
			attribute.Bool("blended", req.Blended),
		),
	)
	defer func() { tracing.End(span, err) }()

	if req.CandidateID <= 0 {
		return nil, errcode.Invalid("candidate_id must be positive")
	}
	log := p.logger.With(zap.Int64("candidate_id", req.CandidateID))

	resumePath, err := p.platform.ResumePath(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("resume_path", resumePath))

	if !req.Reprocess {
		profile, err := p.reconciler.Lookup(ctx, resumePath)
		if err == nil {
			log.Info("resume already processed")
			return profile, nil
		}
		if !errcode.Is(err, errcode.KindNotFound) {
			return nil, err
		}
	}

	localPath, found, err := p.store.FetchResume(ctx, resumePath)
	if err != nil {
		log.Error("fetch resume failed", zap.Error(err))
		return nil, err
	}
	if !found {
		return nil, errcode.NotFound("Resume file not found in storage")
	}

	if err := p.scanner.ScanFile(localPath); err != nil {
		log.Warn("resume scan failed", zap.Error(err))
		return nil, err
	}

	text, err := resume.ExtractText(localPath)
	if err != nil {
		log.Warn("extract resume text failed", zap.Error(err))
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, errcode.Extraction("No text could be extracted from the resume", nil)
	}

	var data resume.Data
	if err := llm.ExtractInto(ctx, p.extractor, text, llm.ResumeSchema(), llm.ResumeInstruction, &data); err != nil {
		return nil, err
	}

	pdata, err := p.platform.Collect(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}

	profile, err := p.reconciler.Reconcile(ctx, candidate.ReconcileInput{
		ResumePath:     resumePath,
		ExternalUserID: req.CandidateID,
		Platform:       pdata,
		Resume:         &data,
		ResumeText:     text,
		Blended:        req.Blended,
	})
	if err != nil {
		return nil, err
	}
	log.Info("resume processed", zap.Uint("resume_id", profile.ResumeID), zap.Bool("blended", req.Blended))
	return profile, nil
}
