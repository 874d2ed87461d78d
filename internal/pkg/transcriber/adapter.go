package transcriber

import (
	"context"
	"fmt"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/language"
	tapi "github.com/CristianNieto3/Technician-Memo/internal/pkg/transcriber/api"
)

// Transcriber converts speech to text using the language hint
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error)
}

// Outcome is an accepted transcription
type Outcome struct {
	Text string
	// Spanish is set when the Spanish tuned result was accepted
	Spanish bool
	// Attempts counts all calls to the service
	Attempts int
	// WastedAttempt is set when the Spanish result was dropped for the English one
	WastedAttempt bool
}

// FailedError is returned when no transcription call succeeded
type FailedError struct {
	Attempts int
	Err      error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("transcription failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// Adapter tries Spanish transcription first and falls back to English
type Adapter struct {
	tr        Transcriber
	isSpanish func(string) bool
}

// NewAdapter creates the adapter
func NewAdapter(tr Transcriber) (*Adapter, error) {
	if tr == nil {
		return nil, fmt.Errorf("no transcriber")
	}
	return &Adapter{tr: tr, isSpanish: language.IsSpanish}, nil
}

// Transcribe returns Spanish text if the Spanish attempt yields Spanish words,
// otherwise the result of the English attempt
func (a *Adapter) Transcribe(ctx context.Context, audio []byte) (*Outcome, error) {
	res := &Outcome{}
	text, err := a.call(ctx, audio, tapi.LangSpanish, res)
	if err == nil {
		if a.isSpanish(text) {
			res.Text, res.Spanish = text, true
			return res, nil
		}
		goapp.Log.Info().Msg("no Spanish detected, transcribing as English")
		text, err = a.call(ctx, audio, tapi.LangEnglish, res)
		if err == nil {
			res.Text, res.WastedAttempt = text, true
			return res, nil
		}
	}
	goapp.Log.Warn().Err(err).Msg("transcription failed, trying English")
	text, err = a.call(ctx, audio, tapi.LangEnglish, res)
	if err != nil {
		return nil, &FailedError{Attempts: res.Attempts, Err: err}
	}
	res.Text = text
	return res, nil
}

func (a *Adapter) call(ctx context.Context, audio []byte, lang string, res *Outcome) (string, error) {
	res.Attempts++
	return a.tr.Transcribe(ctx, audio, lang)
}
