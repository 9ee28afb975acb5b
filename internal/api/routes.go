package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"jobbyResume/internal/api/middleware"
)

// Handlers 汇总注册路由所需的处理器。
type Handlers struct {
	Resume    *ResumeHandler
	Candidate *CandidateHandler
	Ws        *WsHandler
}

// RegisterRoutes 注册 /v1 下的全部路由。
func RegisterRoutes(router *gin.Engine, h Handlers, internalSecret string, limiter redisRateCounter, ratePerMinute int) {
	v1 := router.Group("/v1")
	v1.Use(middleware.InternalSecretMiddleware(internalSecret))

	llmLimit := RateLimit(limiter, "llm", ratePerMinute, time.Minute)

	resumes := v1.Group("/resumes")
	{
		resumes.POST("/parse", llmLimit, h.Resume.ParseResume)
		resumes.POST("/parse/async", h.Resume.ParseResumeAsync)
	}

	candidates := v1.Group("/candidates")
	{
		candidates.GET("/search", llmLimit, h.Candidate.Search)
		candidates.POST("/evaluate", llmLimit, h.Candidate.Evaluate)
	}

	v1.GET("/collect_data/:candidate_id", h.Resume.CollectData)

	if h.Ws != nil {
		v1.GET("/ws", h.Ws.HandleConnection)
	}
}
