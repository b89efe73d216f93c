package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"forex-journal/internal/store"
	"forex-journal/internal/trace"
	"forex-journal/internal/types"
)

type OpenAIAdvisor struct {
	cfg *store.Config
}

func NewOpenAIAdvisor(cfg *store.Config) *OpenAIAdvisor {
	return &OpenAIAdvisor{cfg: cfg}
}

const reportSchema = `{"headline":"string","strengths":["string"],"weaknesses":["string"],"actions":["string"],"riskNotes":"string"}`

func (a *OpenAIAdvisor) Advise(ctx context.Context, summary types.Summary, trades []types.Trade) (types.CoachingReport, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return types.CoachingReport{}, errors.New("OPENAI_API_KEY missing")
	}

	state := map[string]any{"summary": summary, "tradeCount": len(trades)}
	sb, _ := json.Marshal(state)
	prompt := fmt.Sprintf("You will receive trading statistics as JSON. Respond ONLY with compact JSON matching the schema.\nSchema:%s\nStats:%s", reportSchema, string(sb))

	system := a.cfg.Coaching.System
	if system == "" {
		system = "You are a trading performance coach reviewing a retail forex journal. Output STRICT JSON."
	}

	body := map[string]any{
		"model":       a.cfg.Coaching.Model,
		"messages":    []map[string]string{{"role": "system", "content": system}, {"role": "user", "content": prompt}},
		"temperature": a.cfg.Coaching.Temperature,
		"max_tokens":  a.cfg.Coaching.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return types.CoachingReport{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return types.CoachingReport{}, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return types.CoachingReport{}, err
	}

	if len(r.Choices) == 0 {
		return types.CoachingReport{}, errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)
	// Models wrap JSON in fences more often than not.
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)

	var report types.CoachingReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		return types.CoachingReport{}, fmt.Errorf("invalid report json: %w", err)
	}

	report.Headline = strings.TrimSpace(report.Headline)
	if report.Headline == "" {
		report.Headline = "Trading review"
	}
	report.Provider = "openai"

	return report, nil
}
