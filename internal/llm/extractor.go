package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"jobbyResume/internal/config"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/logger"
	"jobbyResume/internal/metrics"
)

// Extractor 把自由文本转成符合 schema 的结构化 JSON。
type Extractor interface {
	Extract(ctx context.Context, text string, schema *genai.Schema, instructions string) (json.RawMessage, error)
}

// GeminiExtractor 使用 Gemini 的 JSON 模式实现 Extractor。
type GeminiExtractor struct {
	gen         contentGenerator
	model       string
	temperature float32
	maxRetries  int
	logger      *zap.Logger
}

// NewGeminiExtractor 构造 GeminiExtractor。
func NewGeminiExtractor(client *genai.Client, cfg config.LLMConfig, log *zap.Logger) *GeminiExtractor {
	return newGeminiExtractor(client.Models, cfg, log)
}

func newGeminiExtractor(gen contentGenerator, cfg config.LLMConfig, log *zap.Logger) *GeminiExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeminiExtractor{
		gen:         gen,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxRetries:  cfg.MaxRetries,
		logger:      log.Named("extractor"),
	}
}

func (e *GeminiExtractor) Extract(ctx context.Context, text string, schema *genai.Schema, instructions string) (json.RawMessage, error) {
	start := time.Now()
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(e.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	if instructions != "" {
		cfg.SystemInstruction = genai.NewContentFromText(instructions, genai.RoleUser)
	}

	out, err := generate(ctx, e.gen, e.model, text, cfg, e.maxRetries)
	if err != nil {
		metrics.ObserveLLMCall("extract", "error", time.Since(start))
		e.logger.Error("structured extraction failed",
			zap.String("model", e.model),
			zap.String("input", logger.TruncateForLog(text, 200)),
			zap.Error(err),
		)
		return nil, errcode.Extraction("structured extraction failed", err)
	}

	raw := json.RawMessage(stripFences(out))
	if !json.Valid(raw) {
		metrics.ObserveLLMCall("extract", "invalid", time.Since(start))
		return nil, errcode.Extraction("structured extraction returned invalid json", fmt.Errorf("output: %s", logger.TruncateForLog(out, 200)))
	}

	metrics.ObserveLLMCall("extract", "ok", time.Since(start))
	return raw, nil
}

// ExtractInto 调用 Extractor 并把结果解码到 out。
func ExtractInto(ctx context.Context, e Extractor, text string, schema *genai.Schema, instructions string, out any) error {
	raw, err := e.Extract(ctx, text, schema, instructions)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errcode.Extraction("decode structured output", err)
	}
	return nil
}
