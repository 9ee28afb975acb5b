package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"jobbyResume/internal/config"
)

// contentGenerator 抽象 genai.Models，测试中以桩实现替换。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGenAIClient creates a Gemini API client from configuration.
func NewGenAIClient(ctx context.Context, cfg config.LLMConfig) (*genai.Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client, nil
}

var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// generate 调用模型并返回拼接后的文本，对限流与 5xx 做指数退避重试。
func generate(ctx context.Context, gen contentGenerator, model, prompt string, cfg *genai.GenerateContentConfig, maxRetries int) (string, error) {
	backoff := 500 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return "", err
			}
			backoff *= 2
		}

		resp, err := gen.GenerateContent(ctx, model, genai.Text(prompt), cfg)
		if err != nil {
			lastErr = fmt.Errorf("generate content: %w", err)
			if isTemporary(err) {
				continue
			}
			return "", lastErr
		}

		text := responseText(resp)
		if text == "" {
			return "", errors.New("gemini api returned empty response")
		}
		return text, nil
	}
	return "", lastErr
}

func isTemporary(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return false
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// 只取第一个有内容的候选。
		if builder.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(builder.String())
}

// stripFences removes a surrounding markdown code fence such as ```json or ```sql.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if tag := fenceTag(s); tag != "" {
		s = s[len(tag):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func fenceTag(s string) string {
	end := 0
	for end < len(s) && ((s[end] >= 'a' && s[end] <= 'z') || (s[end] >= 'A' && s[end] <= 'Z')) {
		end++
	}
	if end == 0 || end == len(s) {
		return ""
	}
	if c := s[end]; c != '\n' && c != ' ' && c != '\r' && c != '\t' {
		return ""
	}
	switch strings.ToLower(s[:end]) {
	case "json", "sql", "postgresql", "postgres":
		return s[:end]
	}
	return ""
}
