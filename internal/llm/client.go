package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hrcopilot/resume-tracker/internal/common"
	"github.com/hrcopilot/resume-tracker/internal/extract"
)

// PlaceholderAPIKey is the documented placeholder shipped in .env.example; a
// key equal to it is treated the same as no key at all.
const PlaceholderAPIKey = "your_openrouter_api_key_here"

// Config for the oracle client. Passed explicitly at construction so multiple
// pipelines (tests included) can run with different configurations.
type Config struct {
	APIKey      string
	BaseURL     string        // default https://openrouter.ai/api/v1
	Model       string        // e.g. "openai/gpt-4o-mini"
	Temperature float32       // deterministic-leaning by default
	MaxTokens   int           // output budget; the service is billed externally
	Timeout     time.Duration // http client timeout
}

// Client calls an OpenAI-compatible chat-completions endpoint and implements
// the Oracle interface.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
	audit      *AuditTrail
}

func NewClient(cfg Config, audit *AuditTrail, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "openai/gpt-4o-mini"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	if audit == nil {
		audit = NewAuditTrail(logger, nil)
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
		audit:      audit,
	}
}

func (c *Client) configured() bool {
	return c.cfg.APIKey != "" && c.cfg.APIKey != PlaceholderAPIKey
}

// ExtractResumeInfo asks the oracle for structured resume fields.
//
// Unconfigured credential: short-circuits to the local fallback.
// Transport/service error (hard failure): returns empty fields and
// common.ErrOracleUnavailable; the caller decides whether to proceed.
// Unparseable reply (soft failure): logged as a parse warning, returns empty
// fields and nil; formatting noise must not fail the job.
func (c *Client) ExtractResumeInfo(ctx context.Context, resumeText string) (extract.Fields, error) {
	const method = "extract_resume_info"

	if !c.configured() {
		c.audit.FallbackUsed(ctx, method, "API key missing or placeholder")
		return FallbackExtract(resumeText), nil
	}

	prompt := buildExtractPrompt(resumeText)
	rid, start := c.audit.Begin(method, c.cfg.Model, prompt)

	content, err := c.complete(ctx, extractSystemPrompt, prompt, c.cfg.Temperature, c.cfg.MaxTokens)
	c.audit.End(ctx, rid, method, c.cfg.Model, prompt, content, start, err)
	if err != nil {
		return extract.Fields{}, common.NewAppError("ORACLE_UNAVAILABLE", err.Error(), common.ErrOracleUnavailable)
	}

	payload, err := ExtractJSONSpan(content)
	if err != nil {
		c.log.Warn("oracle.extract.parse_failed", "req_id", rid, "error", err, "content", preview(content))
		return extract.Fields{}, nil
	}

	cleaned, _, err := SanitizeResumeJSON([]byte(payload), c.log)
	if err != nil {
		c.log.Warn("oracle.extract.parse_failed", "req_id", rid, "error", err, "content", preview(payload))
		return extract.Fields{}, nil
	}
	if err := ValidateJSONAgainstSchema(BuildResumeJSONSchema(), cleaned); err != nil {
		c.log.Warn("oracle.extract.schema_mismatch", "req_id", rid, "error", err)
		return extract.Fields{}, nil
	}

	var fields extract.Fields
	if err := json.Unmarshal(cleaned, &fields); err != nil {
		c.log.Warn("oracle.extract.parse_failed", "req_id", rid, "error", err)
		return extract.Fields{}, nil
	}
	c.log.Info("oracle.extract.ok", "req_id", rid, "field_count", len(fields))
	return fields, nil
}

// OptimizeFilterCriteria converts a natural-language screening request into
// structured filter criteria. Failures of any kind yield empty criteria.
func (c *Client) OptimizeFilterCriteria(ctx context.Context, naturalQuery string) (FilterCriteria, error) {
	const method = "optimize_filter_criteria"

	if !c.configured() {
		c.audit.FallbackUsed(ctx, method, "API key missing or placeholder")
		return FilterCriteria{Keywords: strings.Fields(naturalQuery)}, nil
	}

	prompt := buildFilterPrompt(naturalQuery)
	rid, start := c.audit.Begin(method, c.cfg.Model, prompt)

	content, err := c.complete(ctx, filterSystemPrompt, prompt, c.cfg.Temperature, 500)
	c.audit.End(ctx, rid, method, c.cfg.Model, prompt, content, start, err)
	if err != nil {
		return FilterCriteria{}, common.NewAppError("ORACLE_UNAVAILABLE", err.Error(), common.ErrOracleUnavailable)
	}

	payload, err := ExtractJSONSpan(content)
	if err != nil {
		c.log.Warn("oracle.filter.parse_failed", "req_id", rid, "error", err)
		return FilterCriteria{}, nil
	}
	var criteria FilterCriteria
	if err := json.Unmarshal([]byte(payload), &criteria); err != nil {
		c.log.Warn("oracle.filter.parse_failed", "req_id", rid, "error", err)
		return FilterCriteria{}, nil
	}
	return criteria, nil
}

// ScoreCandidates asks the oracle to score candidates against the stated
// requirements. The reply is matched back against the supplied candidates:
// ids the oracle omitted are excluded, ids it invented are discarded.
func (c *Client) ScoreCandidates(ctx context.Context, requirements string, candidates []CandidateSummary) ([]MatchResult, error) {
	const method = "score_candidates"

	if len(candidates) == 0 {
		return nil, nil
	}
	if !c.configured() {
		c.audit.FallbackUsed(ctx, method, "API key missing or placeholder")
		return nil, nil
	}

	prompt, err := buildScoringPrompt(requirements, candidates)
	if err != nil {
		return nil, err
	}
	rid, start := c.audit.Begin(method, c.cfg.Model, prompt)

	content, err := c.complete(ctx, scoringSystemPrompt, prompt, 0.2, 2000)
	c.audit.End(ctx, rid, method, c.cfg.Model, prompt, content, start, err)
	if err != nil {
		return nil, common.NewAppError("ORACLE_UNAVAILABLE", err.Error(), common.ErrOracleUnavailable)
	}

	payload, err := ExtractJSONSpan(content)
	if err != nil {
		c.log.Warn("oracle.score.parse_failed", "req_id", rid, "error", err)
		return nil, nil
	}
	matches, err := decodeMatches([]byte(payload))
	if err != nil {
		c.log.Warn("oracle.score.parse_failed", "req_id", rid, "error", err)
		return nil, nil
	}

	supplied := make(map[string]struct{}, len(candidates))
	for _, cand := range candidates {
		supplied[cand.ID] = struct{}{}
	}
	out := make([]MatchResult, 0, len(matches))
	for _, m := range matches {
		if _, ok := supplied[m.CandidateID]; !ok {
			c.log.Warn("oracle.score.unknown_candidate", "req_id", rid, "candidate_id", m.CandidateID)
			continue
		}
		out = append(out, m)
	}
	c.log.Info("oracle.score.ok", "req_id", rid, "scored", len(out), "supplied", len(candidates))
	return out, nil
}

// decodeMatches tolerates candidate_id arriving as a JSON string or number.
func decodeMatches(payload []byte) ([]MatchResult, error) {
	var envelope struct {
		Matches []struct {
			CandidateID json.RawMessage `json:"candidate_id"`
			Score       int             `json:"score"`
			Reasons     []string        `json:"reasons"`
			Concerns    []string        `json:"concerns"`
		} `json:"matches"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}
	out := make([]MatchResult, 0, len(envelope.Matches))
	for _, m := range envelope.Matches {
		id := strings.Trim(strings.TrimSpace(string(m.CandidateID)), `"`)
		if id == "" || id == "null" {
			continue
		}
		out = append(out, MatchResult{
			CandidateID: id,
			Score:       m.Score,
			Reasons:     m.Reasons,
			Concerns:    m.Concerns,
		})
	}
	return out, nil
}

// complete performs one synchronous chat completion round trip.
func (c *Client) complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": temperature,
		"max_tokens":  maxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("oracle response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("read oracle response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oracle status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}
