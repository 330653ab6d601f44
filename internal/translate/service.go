package translate

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type cacheKey struct {
	text string
	lang string
}

// Service memoizes collaborator lookups per (normalized text, target
// language). Entries live for the process lifetime. Concurrent misses for
// the same key are coalesced, so the collaborator sees at most one in-flight
// call per key.
type Service struct {
	translator Translator

	mu    sync.RWMutex
	cache map[cacheKey]string
	group singleflight.Group
}

func NewService(translator Translator) *Service {
	return &Service{
		translator: translator,
		cache:      make(map[cacheKey]string),
	}
}

// Translate returns text in targetLanguage. A collaborator failure degrades
// to the original text; the caller never sees an error.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) string {
	if targetLanguage == DefaultLanguage {
		return text
	}

	key := cacheKey{
		text: strings.ToLower(strings.TrimSpace(text)),
		lang: targetLanguage,
	}

	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	v, err, _ := s.group.Do(key.lang+"\x00"+key.text, func() (any, error) {
		translated, err := s.translator.Translate(ctx, text, targetLanguage)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[key] = translated
		s.mu.Unlock()
		return translated, nil
	})
	if err != nil {
		log.WithError(err).WithField("target_language", targetLanguage).Error("translation failed")
		return text
	}
	return v.(string)
}

// TranslateBatch translates texts in parallel, keyed by the original text.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, targetLanguage string) map[string]string {
	results := make(map[string]string, len(texts))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, text := range texts {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			translated := s.Translate(ctx, text, targetLanguage)
			mu.Lock()
			results[text] = translated
			mu.Unlock()
		}(text)
	}
	wg.Wait()

	return results
}
