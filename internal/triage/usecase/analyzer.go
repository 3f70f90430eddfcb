package usecase

import (
	"context"
	"time"

	"dayboard-backend/internal/triage/domain"

	"github.com/rs/zerolog"
)

// EmailAnalyzer is the LLM side of classification. *groq.Client satisfies it.
type EmailAnalyzer interface {
	AnalyzeEmail(ctx context.Context, subject, from, body string, regenerate bool) (*domain.ClassificationResult, error)
}

// Analyzer tries the model first and falls back to the keyword classifier
// on any failure. Classification is the one path that must always produce
// a result; the caller only learns which side answered via Source.
type Analyzer struct {
	llm     EmailAnalyzer // nil forces heuristic-only mode
	timeout time.Duration
	log     zerolog.Logger
}

func NewAnalyzer(llm EmailAnalyzer, timeout time.Duration, log zerolog.Logger) *Analyzer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Analyzer{llm: llm, timeout: timeout, log: log}
}

func (a *Analyzer) Analyze(ctx context.Context, subject, from, body string, regenerate bool) *domain.ClassificationResult {
	if a.llm != nil {
		llmCtx, cancel := context.WithTimeout(ctx, a.timeout)
		result, err := a.llm.AnalyzeEmail(llmCtx, subject, from, body, regenerate)
		cancel()
		if err == nil {
			return result
		}
		// Expected and routine: parse failures, timeouts, quota. The
		// heuristic answers with the same inputs.
		a.log.Debug().Err(err).Msg("model classification failed, using heuristic")
	}

	return Classify(subject, from, body, regenerate)
}
