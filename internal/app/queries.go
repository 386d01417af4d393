package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/execdash/internal/adapters/repository"
	"github.com/okian/execdash/internal/domain/assistant"
	"github.com/okian/execdash/internal/domain/indicators"
	"github.com/okian/execdash/internal/domain/scenario"
	"github.com/okian/execdash/internal/domain/schema"
	"github.com/okian/execdash/pkg/metrics"
)

// Latest returns the most recently published snapshot.
func (s *Service) Latest(ctx context.Context) (*repository.Snapshot, error) {
	snap, err := s.store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

// History returns up to n snapshot summaries, newest first.
func (s *Service) History(ctx context.Context, n int) ([]repository.Summary, error) {
	return s.store.History(ctx, n)
}

// Staffing returns the staffing picture of active projects.
func (s *Service) Staffing(ctx context.Context, filter indicators.StaffingFilter) ([]indicators.StaffingRow, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.StaffingHealth(snap.Tables, filter), nil
}

// Whales returns the largest Tier 1 pursuits.
func (s *Service) Whales(ctx context.Context, limit int) ([]indicators.Whale, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return indicators.TopWhales(snap.Tables, limit), nil
}

// Scenario compares the workbook assumptions with the same assumptions
// after overrides. A workbook without assumptions compares the overrides
// against an empty baseline.
func (s *Service) Scenario(ctx context.Context, overrides scenario.Inputs) (scenario.Comparison, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return scenario.Comparison{}, err
	}
	base, _ := scenario.Baseline(snap.Tables.Get(schema.ScenarioInputs))
	return scenario.Compare(base, base.Merge(overrides)), nil
}

// AskScenario answers a tradeoff question about cmp.
func (s *Service) AskScenario(ctx context.Context, question string, cmp scenario.Comparison) (assistant.Answer, error) {
	ans, err := s.assistant.AskScenario(ctx, question, cmp)
	if err != nil {
		return assistant.Answer{}, err
	}
	metrics.RecordAssistantAnswer("scenario", float64(ans.Took.Milliseconds()))
	return ans, nil
}

// Ask answers a question about the latest snapshot.
func (s *Service) Ask(ctx context.Context, question string) (assistant.Answer, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return assistant.Answer{}, err
	}
	ans, err := s.assistant.Ask(ctx, question, snap.KPIs, snap.Context)
	if err != nil {
		return assistant.Answer{}, err
	}
	metrics.RecordAssistantAnswer(ans.Mode, float64(ans.Took.Milliseconds()))
	return ans, nil
}

// Digest returns today's top action items for the latest snapshot.
func (s *Service) Digest(ctx context.Context) (string, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return "", err
	}
	start := time.Now()
	text, err := s.assistant.Digest(ctx, snap.Context)
	if err != nil {
		return "", err
	}
	metrics.RecordAssistantAnswer("digest", float64(time.Since(start).Milliseconds()))
	return text, nil
}
