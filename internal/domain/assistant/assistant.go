// Package assistant answers natural-language questions about the dashboard.
//
// Known literal questions are answered from the KPI mapping without leaving the
// process; everything else is forwarded to a Generator together with the
// serialized worksheets.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/execdash/internal/domain/scenario"
	"github.com/okian/execdash/pkg/logger"
)

// Answer modes.
const (
	ModeDirect = "direct"
	ModeLLM    = "llm"
)

const defaultDomain = "services delivery"

// Request is one completion call to a language model.
type Request struct {
	System      string
	Prompt      string
	Temperature *float32
	MaxTokens   int32
}

// Generator produces text completions.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Answer is the reply to one question.
type Answer struct {
	Question string        `json:"question"`
	Text     string        `json:"answer"`
	Mode     string        `json:"mode"`
	Took     time.Duration `json:"-"`
}

// Assistant routes questions to direct answers or the language model.
type Assistant struct {
	gen    Generator
	log    logger.Logger
	domain string
}

// New creates an assistant. Without WithGenerator only direct answers are available.
func New(opts ...Option) *Assistant {
	a := &Assistant{domain: defaultDomain}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Get().Named("assistant")
	}
	return a
}

// HasGenerator reports whether free-form questions can be answered.
func (a *Assistant) HasGenerator() bool { return a.gen != nil }

// Ask answers question using the KPI mapping first and the data context second.
func (a *Assistant) Ask(ctx context.Context, question string, kpis map[string]any, dataContext string) (Answer, error) {
	start := time.Now()
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if text, ok := Direct(question, kpis); ok {
		return Answer{Question: question, Text: text, Mode: ModeDirect, Took: time.Since(start)}, nil
	}
	if a.gen == nil {
		return Answer{}, ErrNoGenerator
	}
	if strings.TrimSpace(dataContext) == "" {
		dataContext = NoContext
	}

	text, err := a.gen.Generate(ctx, Request{
		System: fmt.Sprintf("You are a helpful %s analytics assistant.", a.domain),
		Prompt: fmt.Sprintf("Based on the following %s data snapshot:\n%s\nQuestion: %s\n"+
			"Please provide a clear, concise answer. If the data is unavailable, say so.",
			a.domain, dataContext, question),
	})
	if err != nil {
		a.log.Warn(ctx, "question not answered", logger.String("question", question), logger.Error(err))
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	return Answer{Question: question, Text: strings.TrimSpace(text), Mode: ModeLLM, Took: time.Since(start)}, nil
}

// AskScenario answers a tradeoff question about an evaluated scenario comparison.
func (a *Assistant) AskScenario(ctx context.Context, question string, cmp scenario.Comparison) (Answer, error) {
	start := time.Now()
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if a.gen == nil {
		return Answer{}, ErrNoGenerator
	}
	text, err := a.gen.Generate(ctx, Request{
		System: fmt.Sprintf("You are a strategic scenario modeling assistant for %s. "+
			"Help the user analyze tradeoffs, opportunity cost, and scenario impacts.", a.domain),
		Prompt: fmt.Sprintf("%s\n\nQuestion: %s", cmp.Text(), question),
	})
	if err != nil {
		return Answer{}, fmt.Errorf("ask scenario: %w", err)
	}
	return Answer{Question: question, Text: strings.TrimSpace(text), Mode: ModeLLM, Took: time.Since(start)}, nil
}

const (
	digestTemperature = 0.5
	digestMaxTokens   = 300
)

// Digest asks the model for today's top three action items as a numbered markdown list.
func (a *Assistant) Digest(ctx context.Context, dataContext string) (string, error) {
	if a.gen == nil {
		return "", ErrNoGenerator
	}
	if strings.TrimSpace(dataContext) == "" {
		dataContext = NoContext
	}
	temp := float32(digestTemperature)
	text, err := a.gen.Generate(ctx, Request{
		System: "You are a business operations assistant. Provide actionable, specific recommendations.",
		Prompt: "You are a business operations assistant. Based on the following data, identify the top 3 " +
			"most urgent or actionable items for today. Be specific, actionable, and reference the relevant " +
			"person, project, or metric.\n\nData:\n" + dataContext + "\n\nReturn your answer as a numbered list.",
		Temperature: &temp,
		MaxTokens:   digestMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return strings.TrimSpace(text), nil
}
