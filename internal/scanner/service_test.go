package scanner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardlens/internal/platform/aigateway"
	"cardlens/internal/scanhistory"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeCard(ctx context.Context, imageDataURI string) (aigateway.CardAnalysis, error) {
	args := m.Called(ctx, imageDataURI)
	return args.Get(0).(aigateway.CardAnalysis), args.Error(1)
}

type fakeHistory struct {
	added []scanhistory.NewCard
}

func (f *fakeHistory) Add(ctx context.Context, card scanhistory.NewCard) scanhistory.ScannedCard {
	f.added = append(f.added, card)
	return scanhistory.ScannedCard{
		ID:   "card-1700000000000-abc123",
		Name: card.Name,
		Set:  card.Set,
	}
}

func TestService_Analyze(t *testing.T) {
	ctx := context.Background()
	image := "data:image/jpeg;base64,AAAA"

	t.Run("records the analyzed card in the history", func(t *testing.T) {
		analyzer := new(mockAnalyzer)
		analyzer.On("AnalyzeCard", ctx, image).Return(aigateway.CardAnalysis{
			Name:           "Charizard",
			Type:           "Fire",
			Rarity:         "Rare Holo",
			Set:            "Base Set",
			Number:         "4/102",
			Condition:      "Near Mint",
			EstimatedValue: "1200-1500 kr",
		}, nil).Once()
		history := &fakeHistory{}

		s := NewService(analyzer, history)
		analysis, record, err := s.Analyze(ctx, image)

		require.NoError(t, err)
		assert.Equal(t, "Charizard", analysis.Name)
		assert.Equal(t, "Charizard", record.Name)
		require.Len(t, history.added, 1)
		assert.Equal(t, "Base Set", history.added[0].Set)
		assert.Equal(t, image, history.added[0].Image)
		analyzer.AssertExpectations(t)
	})

	t.Run("analysis failure records nothing", func(t *testing.T) {
		analyzer := new(mockAnalyzer)
		analyzer.On("AnalyzeCard", ctx, image).Return(aigateway.CardAnalysis{}, fmt.Errorf("gateway down")).Once()
		history := &fakeHistory{}

		s := NewService(analyzer, history)
		_, _, err := s.Analyze(ctx, image)

		assert.Error(t, err)
		assert.Empty(t, history.added)
	})
}
