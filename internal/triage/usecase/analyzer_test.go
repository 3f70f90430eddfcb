package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"dayboard-backend/internal/triage/domain"

	"github.com/rs/zerolog"
)

type stubLLM struct {
	result *domain.ClassificationResult
	err    error
	delay  time.Duration
	calls  int
}

func (s *stubLLM) AnalyzeEmail(ctx context.Context, subject, from, body string, regenerate bool) (*domain.ClassificationResult, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestAnalyzePrefersLLM(t *testing.T) {
	llm := &stubLLM{result: &domain.ClassificationResult{
		Reply:    "model reply",
		Category: domain.CategoryQuestion,
		Priority: "medium",
		Source:   domain.SourceLLM,
	}}
	a := NewAnalyzer(llm, time.Second, zerolog.Nop())

	got := a.Analyze(context.Background(), "s", "f", "b", false)
	if got.Source != domain.SourceLLM {
		t.Errorf("source = %q", got.Source)
	}
	if got.Reply != "model reply" {
		t.Errorf("reply = %q", got.Reply)
	}
}

func TestAnalyzeFallsBackSilently(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"parse error", &domain.ParseError{Detail: "not json"}},
		{"network error", errors.New("dial tcp: connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(&stubLLM{err: tt.err}, time.Second, zerolog.Nop())

			got := a.Analyze(context.Background(), "Project deadline tomorrow", "boss@co.com", "Please submit the report ASAP", false)
			if got == nil {
				t.Fatal("classification must always produce a result")
			}
			if got.Source != domain.SourceHeuristic {
				t.Errorf("source = %q", got.Source)
			}
			if got.Category != domain.CategoryDeadline {
				t.Errorf("category = %q", got.Category)
			}
		})
	}
}

func TestAnalyzeTimesOut(t *testing.T) {
	a := NewAnalyzer(&stubLLM{delay: 200 * time.Millisecond}, 20*time.Millisecond, zerolog.Nop())

	start := time.Now()
	got := a.Analyze(context.Background(), "s", "f", "b", false)
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("analyze blocked for %v despite timeout", elapsed)
	}
	if got.Source != domain.SourceHeuristic {
		t.Errorf("source = %q, want heuristic after timeout", got.Source)
	}
}

func TestAnalyzeHeuristicOnly(t *testing.T) {
	a := NewAnalyzer(nil, time.Second, zerolog.Nop())

	got := a.Analyze(context.Background(), "Team meeting", "a@b.c", "", false)
	if got.Source != domain.SourceHeuristic {
		t.Errorf("source = %q", got.Source)
	}
}
