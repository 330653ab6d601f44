package translate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTranslator struct {
	mock.Mock
}

func (m *mockTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	args := m.Called(ctx, text, targetLanguage)
	return args.String(0), args.Error(1)
}

func TestService_Translate(t *testing.T) {
	ctx := context.Background()

	t.Run("default language skips the collaborator", func(t *testing.T) {
		translator := new(mockTranslator)
		s := NewService(translator)

		got := s.Translate(ctx, "Scanna Pokemon-kort", "sv")

		assert.Equal(t, "Scanna Pokemon-kort", got)
		translator.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("miss calls the collaborator once, hits are cached", func(t *testing.T) {
		translator := new(mockTranslator)
		translator.On("Translate", ctx, "Scan", "en").Return("Scan", nil).Once()
		s := NewService(translator)

		first := s.Translate(ctx, "Scan", "en")
		second := s.Translate(ctx, "Scan", "en")

		assert.Equal(t, "Scan", first)
		assert.Equal(t, first, second)
		translator.AssertExpectations(t)
	})

	t.Run("cache key is trimmed and lowercased", func(t *testing.T) {
		translator := new(mockTranslator)
		translator.On("Translate", ctx, "  Hello ", "de").Return("Hallo", nil).Once()
		s := NewService(translator)

		assert.Equal(t, "Hallo", s.Translate(ctx, "  Hello ", "de"))
		assert.Equal(t, "Hallo", s.Translate(ctx, "hello", "de"))
		translator.AssertExpectations(t)
	})

	t.Run("same text in different languages is cached separately", func(t *testing.T) {
		translator := new(mockTranslator)
		translator.On("Translate", ctx, "Gallery", "de").Return("Galerie", nil).Once()
		translator.On("Translate", ctx, "Gallery", "fr").Return("Galerie", nil).Once()
		s := NewService(translator)

		s.Translate(ctx, "Gallery", "de")
		s.Translate(ctx, "Gallery", "fr")
		translator.AssertExpectations(t)
	})

	t.Run("collaborator failure falls back to the original text", func(t *testing.T) {
		translator := new(mockTranslator)
		translator.On("Translate", ctx, "Rarity", "ja").Return("", fmt.Errorf("gateway down"))
		s := NewService(translator)

		assert.Equal(t, "Rarity", s.Translate(ctx, "Rarity", "ja"))
	})

	t.Run("failure is not cached", func(t *testing.T) {
		translator := new(mockTranslator)
		translator.On("Translate", ctx, "Set", "en").Return("", fmt.Errorf("gateway down")).Once()
		translator.On("Translate", ctx, "Set", "en").Return("Set", nil).Once()
		s := NewService(translator)

		assert.Equal(t, "Set", s.Translate(ctx, "Set", "en"))
		assert.Equal(t, "Set", s.Translate(ctx, "Set", "en"))
		translator.AssertExpectations(t)
	})
}

func TestService_TranslateBatch(t *testing.T) {
	ctx := context.Background()
	translator := new(mockTranslator)
	translator.On("Translate", ctx, "Home", "en").Return("Home", nil).Once()
	translator.On("Translate", ctx, "Hem", "en").Return("Home", nil).Once()
	s := NewService(translator)

	results := s.TranslateBatch(ctx, []string{"Home", "Hem"}, "en")

	assert.Equal(t, map[string]string{"Home": "Home", "Hem": "Home"}, results)
	translator.AssertExpectations(t)
}
