package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/cost"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/llm"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/status"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/transcriber"
	"github.com/airenas/go-app/pkg/goapp"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Transcriber converts audio to text trying Spanish first
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (*transcriber.Outcome, error)
}

// Translator translates Spanish text to English
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Extractor finds purchase order fields, it never fails
type Extractor interface {
	Extract(ctx context.Context, text string) *llm.Extraction
}

// Memo keeps the plain text log of all memos
type Memo interface {
	Append(text string) error
}

// DB stores pipeline results
type DB interface {
	CreatePurchaseOrder(ctx context.Context, po *persistence.PurchaseOrder) (int64, error)
	CreateCostRecord(ctx context.Context, cr *persistence.CostRecord) (int64, error)
}

// Data keeps pipeline dependencies
type Data struct {
	Transcriber Transcriber
	Translator  Translator
	Extractor   Extractor
	Memo        Memo
	DB          DB
	Rates       cost.Rates
	// Location is used for purchase order and cost dates, UTC if nil
	Location *time.Location
	Now      func() time.Time
}

// Result is the outcome of a processed memo
type Result struct {
	Transcription   string
	FinalText       string
	WasSpanish      bool
	WasTranslated   bool
	Fields          llm.Fields
	PurchaseOrderID int64
	Cost            *cost.Tracking
}

// Error is returned when processing aborts
type Error struct {
	Stage status.Stage
	Err   error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Pipeline turns a voice memo into a purchase order.
// Process keeps all state per call, so Pipeline can be shared between requests.
type Pipeline struct {
	data Data
}

// NewPipeline creates the pipeline
func NewPipeline(data *Data) (*Pipeline, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	res := &Pipeline{data: *data}
	res.data.Rates = res.data.Rates.WithDefaults()
	if res.data.Location == nil {
		res.data.Location = time.UTC
	}
	if res.data.Now == nil {
		res.data.Now = time.Now
	}
	return res, nil
}

// Process runs all steps for the audio. Exactly one cost record is written on every path.
func (p *Pipeline) Process(ctx context.Context, audio []byte) (*Result, error) {
	now := p.data.Now().In(p.data.Location)
	tr := cost.NewTracking(int64(len(audio)), p.data.Rates)
	goapp.Log.Info().Str("stage", status.Received.String()).Int64("bytes", tr.AudioSizeBytes).
		Float64("minutes", tr.EstimatedDurationMinutes).Send()

	res, err := p.process(ctx, audio, tr, now)
	if err != nil {
		tr.Error = err.Error()
		goapp.Log.Error().Err(err).Str("stage", stageOf(err).String()).Msg("processing failed")
	}
	// written even if the client has gone away
	if _, errC := p.data.DB.CreateCostRecord(context.WithoutCancel(ctx), tr.Record(now.Format(dateLayout))); errC != nil {
		goapp.Log.Error().Err(errC).Msg("can't save cost record")
		if err == nil {
			err = &Error{Stage: status.Persisting, Err: fmt.Errorf("can't save cost record: %w", errC)}
		}
	}
	if err != nil {
		return nil, err
	}
	goapp.Log.Info().Str("stage", status.Responded.String()).Int64("ID", res.PurchaseOrderID).
		Float64("cost", tr.Total()).Send()
	return res, nil
}

func (p *Pipeline) process(ctx context.Context, audio []byte, tr *cost.Tracking, now time.Time) (*Result, error) {
	goapp.Log.Info().Str("stage", status.Transcribing.String()).Send()
	out, err := p.data.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		var fe *transcriber.FailedError
		if errors.As(err, &fe) {
			tr.TranscriptionAttempts = fe.Attempts
		}
		return nil, &Error{Stage: status.Transcribing, Err: err}
	}
	tr.TranscriptionAttempts = out.Attempts
	if out.WastedAttempt {
		tr.ElevenLabsCost *= 2
	}
	res := &Result{Transcription: out.Text, FinalText: out.Text, WasSpanish: out.Spanish, Cost: tr}

	if out.Spanish && strings.TrimSpace(out.Text) != "" {
		goapp.Log.Info().Str("stage", status.Translating.String()).Send()
		tr.TranslationUsed = true
		translated, err := p.data.Translator.Translate(ctx, out.Text)
		if err != nil {
			goapp.Log.Warn().Err(err).Msg("translation failed, keeping Spanish text")
			tr.Error = "Translation failed: " + err.Error()
		} else {
			tr.OpenAICost += p.data.Rates.Completion(cost.EstimateTokens(out.Text), cost.EstimateTokens(translated))
			res.FinalText, res.WasTranslated = translated, true
		}
	}

	goapp.Log.Info().Str("stage", status.Extracting.String()).Send()
	ext := p.data.Extractor.Extract(ctx, res.FinalText)
	tr.OpenAICost += p.data.Rates.Completion(ext.Tokens, ext.Tokens)
	res.Fields = ext.Fields

	goapp.Log.Info().Str("stage", status.Persisting.String()).Send()
	if err := p.data.Memo.Append(res.FinalText); err != nil {
		return nil, &Error{Stage: status.Persisting, Err: err}
	}
	res.PurchaseOrderID, err = p.data.DB.CreatePurchaseOrder(context.WithoutCancel(ctx), &persistence.PurchaseOrder{
		Date:             now.Format(dateLayout),
		Time:             now.Format(timeLayout),
		Description:      res.Fields.Description,
		UnitNumber:       res.Fields.UnitNumber,
		Customer:         res.Fields.Customer,
		VendorSupplier:   res.Fields.VendorSupplier,
		RawTranscription: res.FinalText,
	})
	if err != nil {
		return nil, &Error{Stage: status.Persisting, Err: err}
	}
	return res, nil
}

func stageOf(err error) status.Stage {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return status.Failed
}

func validate(data *Data) error {
	if data == nil {
		return fmt.Errorf("no data")
	}
	if data.Transcriber == nil {
		return fmt.Errorf("no Transcriber")
	}
	if data.Translator == nil {
		return fmt.Errorf("no Translator")
	}
	if data.Extractor == nil {
		return fmt.Errorf("no Extractor")
	}
	if data.Memo == nil {
		return fmt.Errorf("no Memo")
	}
	if data.DB == nil {
		return fmt.Errorf("no DB")
	}
	return nil
}
