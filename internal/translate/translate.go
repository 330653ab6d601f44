package translate

import "context"

// DefaultLanguage is the language UI strings are authored in; translating
// into it is a no-op.
const DefaultLanguage = "sv"

// Languages the UI offers.
var Languages = []string{"sv", "en", "de", "fr", "ja"}

// Translator is the external translation collaborator.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}
