package llm

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"jobbyResume/internal/config"
	"jobbyResume/internal/errcode"
)

type stubResponse struct {
	text string
	err  error
}

type stubGenerator struct {
	mu        sync.Mutex
	responses []stubResponse
	prompts   []string
	configs   []*genai.GenerateContentConfig
}

func (s *stubGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range contents {
		for _, p := range c.Parts {
			s.prompts = append(s.prompts, p.Text)
		}
	}
	s.configs = append(s.configs, cfg)
	if len(s.responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: next.text}}},
		}},
	}, nil
}

func noSleep(t *testing.T) {
	t.Helper()
	original := sleep
	sleep = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { sleep = original })
}

func TestExtractorReturnsJSONAndSetsSchema(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{text: "```json\n{\"name\":\"Ann\",\"skills\":[\"Go\"]}\n```"}}}
	ex := newGeminiExtractor(gen, config.LLMConfig{Model: "m"}, nil)

	var out struct {
		Name   string   `json:"name"`
		Skills []string `json:"skills"`
	}
	err := ExtractInto(context.Background(), ex, "resume text", ResumeSchema(), ResumeInstruction, &out)
	require.NoError(t, err)
	require.Equal(t, "Ann", out.Name)
	require.Equal(t, []string{"Go"}, out.Skills)

	require.Len(t, gen.configs, 1)
	require.Equal(t, "application/json", gen.configs[0].ResponseMIMEType)
	require.Equal(t, genai.TypeObject, gen.configs[0].ResponseSchema.Type)
	require.NotNil(t, gen.configs[0].SystemInstruction)
}

func TestExtractorRetriesTemporaryErrors(t *testing.T) {
	noSleep(t)
	gen := &stubGenerator{responses: []stubResponse{
		{err: genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}},
		{text: `{"name":"Ann"}`},
	}}
	ex := newGeminiExtractor(gen, config.LLMConfig{Model: "m", MaxRetries: 2}, nil)

	raw, err := ex.Extract(context.Background(), "text", ResumeSchema(), "")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Ann"}`, string(raw))
	require.Len(t, gen.configs, 2)
}

func TestExtractorDoesNotRetryPermanentErrors(t *testing.T) {
	noSleep(t)
	gen := &stubGenerator{responses: []stubResponse{
		{err: genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"}},
		{text: `{}`},
	}}
	ex := newGeminiExtractor(gen, config.LLMConfig{Model: "m", MaxRetries: 3}, nil)

	_, err := ex.Extract(context.Background(), "text", ResumeSchema(), "")
	require.Equal(t, errcode.KindExtraction, errcode.KindOf(err))
	require.Len(t, gen.configs, 1)
}

func TestExtractorRejectsInvalidJSON(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{{text: "not json"}}}
	ex := newGeminiExtractor(gen, config.LLMConfig{Model: "m"}, nil)

	_, err := ex.Extract(context.Background(), "text", ResumeSchema(), "")
	require.Equal(t, errcode.KindExtraction, errcode.KindOf(err))
}

func TestTranslatorGuardsOutput(t *testing.T) {
	gen := &stubGenerator{responses: []stubResponse{
		{text: "```sql\nSELECT user_id FROM candidate_resumes WHERE location ILIKE '%Roma%' LIMIT 50;\n```"},
		{text: "False"},
		{text: "SELECT * FROM candidate_resumes"},
	}}
	tr := newGeminiTranslator(gen, config.LLMConfig{Model: "m"}, nil)
	ctx := context.Background()

	sql, err := tr.Translate(ctx, "candidates in Rome", CandidateSchemaDDL, SearchHints)
	require.NoError(t, err)
	require.Equal(t, "SELECT user_id FROM candidate_resumes WHERE location ILIKE '%Roma%' LIMIT 50", sql)
	require.Contains(t, gen.prompts[0], "candidates in Rome")
	require.Contains(t, gen.prompts[0], "CREATE TABLE candidate_resumes")

	_, err = tr.Translate(ctx, "gibberish", CandidateSchemaDDL, SearchHints)
	require.Equal(t, errcode.KindTranslationRejected, errcode.KindOf(err))
	require.ErrorIs(t, err, ErrRejectedByModel)

	_, err = tr.Translate(ctx, "everyone", CandidateSchemaDDL, SearchHints)
	require.ErrorIs(t, err, ErrProjection)
}

func TestTranslatorBlankQuerySkipsModel(t *testing.T) {
	gen := &stubGenerator{}
	tr := newGeminiTranslator(gen, config.LLMConfig{Model: "m"}, nil)

	_, err := tr.Translate(context.Background(), "   ", CandidateSchemaDDL, SearchHints)
	require.Equal(t, errcode.KindTranslationRejected, errcode.KindOf(err))
	require.Empty(t, gen.configs)
}

type memoryStore struct {
	data map[string]string
	sets int
}

func (m *memoryStore) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.sets++
	m.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

type countingTranslator struct {
	calls int
	sql   string
	err   error
}

func (c *countingTranslator) Translate(context.Context, string, string, string) (string, error) {
	c.calls++
	return c.sql, c.err
}

func TestCachedTranslatorReusesResult(t *testing.T) {
	next := &countingTranslator{sql: "SELECT user_id FROM candidate_resumes"}
	store := &memoryStore{data: map[string]string{}}
	tr := NewCachedTranslator(next, store, time.Minute, nil)

	for i := 0; i < 3; i++ {
		sql, err := tr.Translate(context.Background(), "cooks", "ddl", "hints")
		require.NoError(t, err)
		require.Equal(t, next.sql, sql)
	}
	require.Equal(t, 1, next.calls)
	require.Equal(t, 1, store.sets)
}

func TestCachedTranslatorDoesNotCacheRejections(t *testing.T) {
	next := &countingTranslator{err: errcode.Rejected("no", ErrRejectedByModel)}
	store := &memoryStore{data: map[string]string{}}
	tr := NewCachedTranslator(next, store, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := tr.Translate(context.Background(), "??", "ddl", "hints")
		require.Error(t, err)
	}
	require.Equal(t, 2, next.calls)
	require.Zero(t, store.sets)
}

func TestNewCachedTranslatorDisabled(t *testing.T) {
	next := &countingTranslator{}
	require.Same(t, next, NewCachedTranslator(next, nil, time.Minute, nil).(*countingTranslator))
}

func TestEvaluationInstruction(t *testing.T) {
	require.Equal(t, EvaluationInstructionEN, EvaluationInstruction("en"))
	require.Equal(t, EvaluationInstructionIT, EvaluationInstruction("it"))
	require.Equal(t, EvaluationInstructionIT, EvaluationInstruction("fr"))
}
