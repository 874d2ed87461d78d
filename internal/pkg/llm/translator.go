package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
)

// ErrTranslationUnavailable is returned when the text could not be translated
var ErrTranslationUnavailable = errors.New("translation service unavailable")

const translatePrompt = "You are a professional translator. Translate the following Spanish text to English. " +
	"Provide only the translation, no additional text or explanations."

// Translator translates Spanish text to English
type Translator struct {
	chat chat
}

// NewTranslator creates the translator
func NewTranslator(client ChatCompleter, model string, timeout time.Duration) (*Translator, error) {
	c, err := newChat(client, model, timeout)
	if err != nil {
		return nil, err
	}
	return &Translator{chat: c}, nil
}

// Translate returns English translation
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	defer goapp.Estimate("translate")()
	res, err := t.chat.complete(ctx, translatePrompt, text, 1000)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslationUnavailable, err)
	}
	return res, nil
}
