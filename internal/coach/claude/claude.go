package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"forex-journal/internal/store"
	"forex-journal/internal/trace"
	"forex-journal/internal/types"
)

// ClaudeAdvisor implements the Advisor interface using the Anthropic API
type ClaudeAdvisor struct {
	cfg      *store.Config
	endpoint string
}

// NewClaudeAdvisor creates a new Claude-backed advisor
func NewClaudeAdvisor(cfg *store.Config) *ClaudeAdvisor {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeAdvisor{cfg: cfg, endpoint: endpoint}
}

const reportSchema = `{"headline":"string","strengths":["string"],"weaknesses":["string"],"actions":["string"],"riskNotes":"string"}`

// Advise generates a coaching report from the trade statistics
func (a *ClaudeAdvisor) Advise(ctx context.Context, summary types.Summary, trades []types.Trade) (types.CoachingReport, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return types.CoachingReport{}, errors.New("CLAUDE_API_KEY missing")
	}

	system := a.cfg.Coaching.System
	if system == "" {
		system = "You are a trading performance coach reviewing a retail forex journal. Output STRICT JSON."
	}
	user := buildPrompt(summary, trades)

	reqBody := map[string]any{
		"model":       a.cfg.Coaching.Model,
		"system":      system,
		"messages":    []map[string]string{{"role": "user", "content": user}},
		"max_tokens":  a.cfg.Coaching.MaxTokens,
		"temperature": a.cfg.Coaching.Temperature,
	}

	bb, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return types.CoachingReport{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return types.CoachingReport{}, fmt.Errorf("claude http %d: %s", resp.StatusCode, string(body))
	}

	respBytes, _ := io.ReadAll(resp.Body)

	// Try to parse JSON and drill common fields
	var anyResp any
	if err := json.Unmarshal(respBytes, &anyResp); err != nil {
		// Not JSON? treat full body as the text response
		return parseReportFromText(string(respBytes))
	}

	if m, ok := anyResp.(map[string]any); ok {
		// messages API: content is an array of typed blocks
		if content, found := m["content"]; found {
			if arr, ok2 := content.([]any); ok2 && len(arr) > 0 {
				if first, ok3 := arr[0].(map[string]any); ok3 {
					if txt, ok4 := first["text"].(string); ok4 && strings.TrimSpace(txt) != "" {
						return parseReportFromText(txt)
					}
				}
			}
		}
		// legacy completion-style fields
		for _, k := range []string{"completion", "output", "output_text", "completion_text", "result"} {
			if v, exists := m[k]; exists {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return parseReportFromText(s)
				}
			}
		}
	}

	// final fallback: raw text
	return parseReportFromText(string(respBytes))
}

// buildPrompt composes the user message the model sees. Only aggregated
// statistics go over the wire, never account numbers or ticket IDs.
func buildPrompt(summary types.Summary, trades []types.Trade) string {
	state := map[string]any{
		"summary":     summary,
		"tradeCount":  len(trades),
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	}
	stateB, _ := json.Marshal(state)
	return fmt.Sprintf("Schema:%s\nStats:%s\n\nReview the trading statistics and respond ONLY with compact JSON matching the schema.", reportSchema, string(stateB))
}

// parseReportFromText tries to locate a JSON object in text and unmarshal into types.CoachingReport
func parseReportFromText(text string) (types.CoachingReport, error) {
	t := strings.TrimSpace(text)

	if strings.HasPrefix(t, "{") {
		var r types.CoachingReport
		if err := json.Unmarshal([]byte(t), &r); err == nil {
			normalizeReport(&r)
			return r, nil
		}
	}

	// Search for first '{' and matching '}' (simple)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		sub := t[start : end+1]
		var r types.CoachingReport
		if err := json.Unmarshal([]byte(sub), &r); err == nil {
			normalizeReport(&r)
			return r, nil
		}
	}

	return types.CoachingReport{}, errors.New("unable to parse claude output")
}

func normalizeReport(r *types.CoachingReport) {
	r.Headline = strings.TrimSpace(r.Headline)
	if r.Headline == "" {
		r.Headline = "Trading review"
	}
	r.Provider = "claude"
}
