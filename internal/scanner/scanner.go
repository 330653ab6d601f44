// Package scanner runs card photos through AI analysis and records the
// result in the scan history.
package scanner

import (
	"context"

	"cardlens/internal/platform/aigateway"
	"cardlens/internal/scanhistory"
)

// Analyzer produces a structured card description from an image data URI.
type Analyzer interface {
	AnalyzeCard(ctx context.Context, imageDataURI string) (aigateway.CardAnalysis, error)
}

// History records completed scans. Persistence problems are the history's
// own concern; Add always yields the recorded card.
type History interface {
	Add(ctx context.Context, card scanhistory.NewCard) scanhistory.ScannedCard
}

type Service struct {
	analyzer Analyzer
	history  History
}

func NewService(analyzer Analyzer, history History) *Service {
	return &Service{analyzer: analyzer, history: history}
}

// Analyze identifies the card in the image and appends it to the scan
// history.
func (s *Service) Analyze(ctx context.Context, imageDataURI string) (aigateway.CardAnalysis, scanhistory.ScannedCard, error) {
	analysis, err := s.analyzer.AnalyzeCard(ctx, imageDataURI)
	if err != nil {
		return aigateway.CardAnalysis{}, scanhistory.ScannedCard{}, err
	}

	record := s.history.Add(ctx, scanhistory.NewCard{
		Name:           analysis.Name,
		Type:           analysis.Type,
		Rarity:         analysis.Rarity,
		Set:            analysis.Set,
		Number:         analysis.Number,
		Condition:      analysis.Condition,
		EstimatedValue: analysis.EstimatedValue,
		Image:          imageDataURI,
	})
	return analysis, record, nil
}
