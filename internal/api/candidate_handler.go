package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobbyResume/internal/errcode"
	"jobbyResume/internal/evaluation"
	"jobbyResume/internal/search"
)

type candidateSearcher interface {
	Search(ctx context.Context, query string, filters search.Filters) (*search.Result, error)
}

type candidateEvaluator interface {
	EvaluateMany(ctx context.Context, candidateIDs []int64, requirement string) (*evaluation.Batch, error)
}

// CandidateHandler 负责候选人搜索与评估接口。
type CandidateHandler struct {
	searcher  candidateSearcher
	evaluator candidateEvaluator
}

// NewCandidateHandler 构造 CandidateHandler。
func NewCandidateHandler(searcher candidateSearcher, evaluator candidateEvaluator) *CandidateHandler {
	return &CandidateHandler{searcher: searcher, evaluator: evaluator}
}

// Search 支持自然语言 query 与结构化筛选，筛选参数可重复或以逗号分隔。
func (h *CandidateHandler) Search(c *gin.Context) {
	var filters search.Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		BadRequest(c, err.Error())
		return
	}

	res, err := h.searcher.Search(c.Request.Context(), c.Query("query"), filters)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type evaluateRequest struct {
	CandidateIDs []int64 `json:"candidate_ids"`
	CompareWith  string  `json:"compare_with"`
}

// Evaluate 对一组候选人按需求打分，单个候选人的失败写在结果里。
func (h *CandidateHandler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, errcode.Invalid("invalid request body"))
		return
	}

	batch, err := h.evaluator.EvaluateMany(c.Request.Context(), req.CandidateIDs, req.CompareWith)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}
