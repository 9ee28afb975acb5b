package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"jobbyResume/internal/candidate"
	"jobbyResume/internal/database"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/llm"
	"jobbyResume/internal/logger"
	"jobbyResume/internal/tracing"
)

// MaxTranslatedRows 限制翻译查询返回的候选人数量。
const MaxTranslatedRows = 50

const executionFailedMessage = "Unable to execute generated SQL query."

// Result 是一次混合搜索的结果。TranslationError 非空表示自然语言部分被降级为空集。
type Result struct {
	QueryUsed        string                     `json:"sql_used"`
	Candidates       []database.CandidateResume `json:"candidates"`
	TranslationError string                     `json:"translation_error,omitempty"`
}

// Orchestrator 组合自然语言翻译结果与结构化筛选结果。
type Orchestrator struct {
	repo       *candidate.Repository
	translator llm.Translator
	filters    *FilterEngine
	logger     *zap.Logger
}

// NewOrchestrator 构造 Orchestrator。
func NewOrchestrator(repo *candidate.Repository, translator llm.Translator, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		repo:       repo,
		translator: translator,
		filters:    NewFilterEngine(repo.DB()),
		logger:     logger.Named("search"),
	}
}

// Search 翻译失败只会降级为空集并记录在 TranslationError 中；只有存储故障才返回错误。
func (o *Orchestrator) Search(ctx context.Context, query string, filters Filters) (_ *Result, err error) {
	ctx, span := tracing.Tracer("search").Start(ctx, "search.Search")
	defer func() { tracing.End(span, err) }()

	log := o.logger.With(zap.String("query", logger.TruncateForLog(query, 200)))
	res := &Result{Candidates: []database.CandidateResume{}}

	llmIDs, sql, translateErr := o.translate(ctx, query)
	res.QueryUsed = sql
	if translateErr != nil {
		res.TranslationError = errcode.Message(translateErr)
		span.AddEvent("translation degraded")
		log.Warn("translation degraded to empty set", zap.Error(translateErr))
	}

	outcome, err := o.filters.Apply(ctx, filters)
	if err != nil {
		return nil, err
	}

	ids := Combine(llmIDs, outcome)
	log.Info("search combined",
		zap.Int("translated", len(llmIDs)),
		zap.Stringer("filter_state", outcome.State),
		zap.Int("filtered", len(outcome.IDs)),
		zap.Int("result", len(ids)),
	)
	if len(ids) == 0 {
		return res, nil
	}

	recs, err := o.repo.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	res.Candidates = recs
	return res, nil
}

// Combine 合并翻译结果 L 与筛选结果 F：
// 未请求筛选时取 L；筛选为空时结果为空；两者都有时取交集并保持 F 的顺序；L 为空时取 F。
func Combine(translated []int64, outcome FilterOutcome) []int64 {
	switch outcome.State {
	case NotRequested:
		return translated
	case RequestedEmpty:
		return nil
	}
	if len(translated) == 0 {
		return outcome.IDs
	}
	inL := make(map[int64]struct{}, len(translated))
	for _, id := range translated {
		inL[id] = struct{}{}
	}
	var out []int64
	for _, id := range outcome.IDs {
		if _, ok := inL[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (o *Orchestrator) translate(ctx context.Context, query string) ([]int64, string, error) {
	if o.translator == nil {
		return nil, "", errcode.Rejected("query translation is not configured", nil)
	}
	sql, err := o.translator.Translate(ctx, query, llm.CandidateSchemaDDL, llm.SearchHints)
	if err != nil {
		return nil, "", err
	}
	ids, err := o.runReadOnly(ctx, llm.CapQuery(sql, MaxTranslatedRows))
	if err != nil {
		return nil, sql, errcode.Rejected(executionFailedMessage, err)
	}
	return dedupe(ids), sql, nil
}

// runReadOnly 在只读事务中执行翻译出的查询。
func (o *Orchestrator) runReadOnly(ctx context.Context, sql string) ([]int64, error) {
	var ids []int64
	err := o.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			for _, stmt := range []string{"SET TRANSACTION READ ONLY", "SET LOCAL statement_timeout = '10s'"} {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("%s: %w", strings.ToLower(stmt), err)
				}
			}
		}
		return tx.Raw(sql).Scan(&ids).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
