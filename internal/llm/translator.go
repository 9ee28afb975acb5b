package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"jobbyResume/internal/config"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/logger"
	"jobbyResume/internal/metrics"
)

// Translator 把自然语言需求翻译成只读、只投影 user_id 的 SQL。
// 任何拒绝或校验失败都以 errcode.KindTranslationRejected 返回。
type Translator interface {
	Translate(ctx context.Context, request, schemaDescription, hints string) (string, error)
}

// GeminiTranslator 使用 Gemini 生成 PostgreSQL 查询。
type GeminiTranslator struct {
	gen        contentGenerator
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGeminiTranslator 构造 GeminiTranslator。
func NewGeminiTranslator(client *genai.Client, cfg config.LLMConfig, log *zap.Logger) *GeminiTranslator {
	return newGeminiTranslator(client.Models, cfg, log)
}

func newGeminiTranslator(gen contentGenerator, cfg config.LLMConfig, log *zap.Logger) *GeminiTranslator {
	if log == nil {
		log = zap.NewNop()
	}
	model := strings.TrimSpace(cfg.TranslatorModel)
	if model == "" {
		model = cfg.Model
	}
	return &GeminiTranslator{
		gen:        gen,
		model:      model,
		maxRetries: cfg.MaxRetries,
		logger:     log.Named("translator"),
	}
}

func (t *GeminiTranslator) Translate(ctx context.Context, request, schemaDescription, hints string) (string, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return "", errcode.Rejected("empty search query", ErrEmptyQuery)
	}

	start := time.Now()
	prompt := fmt.Sprintf("### PostgreSQL table with properties:\n%s\n### Additional information:\n%s\n### %s\n### SQL Query:",
		schemaDescription, hints, request)
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0),
		MaxOutputTokens:   500,
		SystemInstruction: genai.NewContentFromText(translatorInstruction, genai.RoleUser),
	}

	out, err := generate(ctx, t.gen, t.model, prompt, cfg, t.maxRetries)
	if err != nil {
		metrics.ObserveLLMCall("translate", "error", time.Since(start))
		return "", errcode.Rejected("query translation failed", err)
	}

	sql := CleanSQL(out)
	t.logger.Info("generated sql", zap.String("sql", logger.TruncateForLog(sql, 500)))

	if err := GuardSQL(sql); err != nil {
		metrics.ObserveLLMCall("translate", "rejected", time.Since(start))
		t.logger.Warn("translated sql rejected", zap.String("sql", logger.TruncateForLog(sql, 500)), zap.Error(err))
		return "", errcode.Rejected("Unable to generate valid SQL query.", err)
	}

	metrics.ObserveLLMCall("translate", "ok", time.Since(start))
	return sql, nil
}
