package evaluation

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobbyResume/internal/config"
	"jobbyResume/internal/database"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/llm"
	"jobbyResume/internal/metrics"
	"jobbyResume/internal/tracing"
)

const defaultConcurrency = 8

// Assessment 是模型对单个候选人的结构化评估。
type Assessment struct {
	FeedbackBadges       []string              `json:"feedback_badges"`
	MatchingScore        float64               `json:"matching_score"`
	Strengths            []string              `json:"strengths"`
	CautionPoints        []string              `json:"caution_points"`
	ProfileOverview      string                `json:"profile_overview"`
	About                string                `json:"about"`
	TechnicalSkills      []string              `json:"technical_skills"`
	SoftSkills           []string              `json:"soft_skills"`
	LocationPreferences  []string              `json:"location_preferences"`
	RemoteWorkPreference string                `json:"remote_work_preference"`
	ExperienceRelevance  []ExperienceRelevance `json:"experience_relevance"`
	Certifications       []string              `json:"certifications"`
}

type ExperienceRelevance struct {
	Experience map[string]any `json:"experience"`
	IsRelevant bool           `json:"is_relevant"`
}

const (
	maxStrengths  = 3
	maxCautions   = 3
	maxRelevances = 4
)

// normalize 把分数限制在 0-100，并截断超长的列表。
func (a *Assessment) normalize() {
	switch {
	case a.MatchingScore < 0:
		a.MatchingScore = 0
	case a.MatchingScore > 100:
		a.MatchingScore = 100
	}
	if len(a.Strengths) > maxStrengths {
		a.Strengths = a.Strengths[:maxStrengths]
	}
	if len(a.CautionPoints) > maxCautions {
		a.CautionPoints = a.CautionPoints[:maxCautions]
	}
	if len(a.ExperienceRelevance) > maxRelevances {
		a.ExperienceRelevance = a.ExperienceRelevance[:maxRelevances]
	}
}

// Evaluation 是单个候选人的评估结果；失败时 Error 非空且 Result 为空。
type Evaluation struct {
	CandidateID int64                     `json:"candidate_id"`
	Result      *Assessment               `json:"evaluation_result,omitempty"`
	Error       string                    `json:"error,omitempty"`
	Candidate   *database.CandidateResume `json:"candidate_data"`
}

// Batch 是一次批量评估的结果，Evaluations 与读取顺序一致。
type Batch struct {
	Requirement string       `json:"requirement"`
	Evaluations []Evaluation `json:"evaluations"`
}

type candidateReader interface {
	FindByUserIDs(ctx context.Context, userIDs []int64) ([]database.CandidateResume, error)
}

// Orchestrator 并发评估多个候选人，单个失败不影响其他候选人。
type Orchestrator struct {
	repo        candidateReader
	extractor   llm.Extractor
	concurrency int
	instruction string
	logger      *zap.Logger
}

// NewOrchestrator 构造 Orchestrator。
func NewOrchestrator(repo candidateReader, extractor llm.Extractor, cfg config.EvaluationConfig, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Orchestrator{
		repo:        repo,
		extractor:   extractor,
		concurrency: concurrency,
		instruction: llm.EvaluationInstruction(cfg.Language),
		logger:      logger.Named("evaluation"),
	}
}

// EvaluateMany 一次读取全部候选人并逐个调用模型评估。
func (o *Orchestrator) EvaluateMany(ctx context.Context, candidateIDs []int64, requirement string) (*Batch, error) {
	requirement = strings.TrimSpace(requirement)
	if requirement == "" {
		return nil, errcode.Invalid("compare_with is required")
	}
	if len(candidateIDs) == 0 {
		return nil, errcode.Invalid("candidate_ids is required")
	}

	ctx, span := tracing.Tracer("evaluation").Start(ctx, "evaluation.EvaluateMany",
		trace.WithAttributes(attribute.Int("candidates", len(candidateIDs))),
	)
	defer span.End()

	recs, err := o.repo.FindByUserIDs(ctx, candidateIDs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	results := make([]Evaluation, len(recs))
	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i := range recs {
		g.Go(func() error {
			results[i] = o.evaluate(ctx, &recs[i], requirement)
			return nil
		})
	}
	_ = g.Wait()

	o.logger.Info("evaluations completed",
		zap.Int("requested", len(candidateIDs)),
		zap.Int("evaluated", len(results)),
	)
	return &Batch{Requirement: requirement, Evaluations: results}, nil
}

func (o *Orchestrator) evaluate(ctx context.Context, rec *database.CandidateResume, requirement string) Evaluation {
	out := Evaluation{CandidateID: rec.UserID, Candidate: rec}
	log := o.logger.With(zap.Int64("candidate_id", rec.UserID))

	prompt, err := BuildBundle(rec).Prompt(requirement)
	if err == nil {
		var a Assessment
		err = llm.ExtractInto(ctx, o.extractor, prompt, llm.EvaluationSchema(), o.instruction, &a)
		if err == nil {
			a.normalize()
			out.Result = &a
		}
	}

	metrics.ObserveEvaluation(err == nil)
	if err != nil {
		log.Warn("candidate evaluation failed", zap.Error(err))
		out.Error = errcode.Message(err)
	}
	return out
}
