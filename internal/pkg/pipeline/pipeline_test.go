package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/cost"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/llm"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/status"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/test"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/test/mocks"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/transcriber"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	trMock   *mocks.Transcriber
	tlMock   *mocks.Translator
	exMock   *mocks.Extractor
	memoMock *mocks.Memo
	dbMock   *mocks.DB
	oneMin   []byte
	testNow  time.Time
)

func initTest(t *testing.T) *Pipeline {
	t.Helper()
	trMock = &mocks.Transcriber{}
	tlMock = &mocks.Translator{}
	exMock = &mocks.Extractor{}
	memoMock = &mocks.Memo{}
	dbMock = &mocks.DB{}
	oneMin = make([]byte, 16000*60)
	testNow = time.Date(2025, 5, 6, 23, 30, 15, 0, time.UTC)
	loc := time.FixedZone("CST", -6*3600)

	memoMock.On("Append", mock.Anything).Return(nil)
	dbMock.On("CreatePurchaseOrder", mock.Anything, mock.Anything).Return(int64(7), nil)
	dbMock.On("CreateCostRecord", mock.Anything, mock.Anything).Return(int64(1), nil)
	exMock.On("Extract", mock.Anything, mock.Anything).Return(&llm.Extraction{Tokens: 1000,
		Fields: llm.Fields{Description: utils.StrPtr("LA Pump"), UnitNumber: utils.StrPtr("4555")}})

	res, err := NewPipeline(&Data{Transcriber: trMock, Translator: tlMock, Extractor: exMock, Memo: memoMock,
		DB: dbMock, Location: loc, Now: func() time.Time { return testNow }})
	require.Nil(t, err)
	return res
}

func costRecord(t *testing.T) *persistence.CostRecord {
	t.Helper()
	require.Equal(t, 1, countCalls(dbMock, "CreateCostRecord"))
	for _, c := range dbMock.Calls {
		if c.Method == "CreateCostRecord" {
			return c.Arguments.Get(1).(*persistence.CostRecord)
		}
	}
	return nil
}

func countCalls(m *mocks.DB, method string) int {
	res := 0
	for _, c := range m.Calls {
		if c.Method == method {
			res++
		}
	}
	return res
}

func TestProcess_Spanish(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "necesito una bomba",
		Spanish: true, Attempts: 1}, nil)
	tlMock.On("Translate", mock.Anything, "necesito una bomba").Return("I need a pump", nil)

	r, err := p.Process(test.Ctx(t), oneMin)

	require.Nil(t, err)
	assert.Equal(t, "necesito una bomba", r.Transcription)
	assert.Equal(t, "I need a pump", r.FinalText)
	assert.True(t, r.WasSpanish)
	assert.True(t, r.WasTranslated)
	assert.Equal(t, int64(7), r.PurchaseOrderID)
	assert.Equal(t, "LA Pump", utils.FromStrPtr(r.Fields.Description))
	exMock.AssertCalled(t, "Extract", mock.Anything, "I need a pump")
	memoMock.AssertCalled(t, "Append", "I need a pump")

	rates := cost.DefaultRates()
	cr := costRecord(t)
	assert.Equal(t, 1, cr.TranscriptionAttempts)
	assert.True(t, cr.TranslationUsed)
	assert.False(t, cr.ErrorMessage.Valid)
	assert.InDelta(t, 0.003, cr.ElevenLabsCost, 1e-9)
	openAI := rates.Completion(cost.EstimateTokens("necesito una bomba"), cost.EstimateTokens("I need a pump")) +
		rates.Completion(1000, 1000)
	assert.InDelta(t, openAI, cr.OpenAICost, 1e-9)
	assert.InDelta(t, 0.003+openAI, cr.TotalCost, 1e-9)
	assert.Equal(t, int64(16000*60), cr.AudioSizeBytes)
	assert.InDelta(t, 1.0, cr.EstimatedDurationMinutes, 1e-9)
}

func TestProcess_English(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "I need a pump",
		Attempts: 2, WastedAttempt: true}, nil)

	r, err := p.Process(test.Ctx(t), oneMin)

	require.Nil(t, err)
	assert.Equal(t, "I need a pump", r.FinalText)
	assert.False(t, r.WasSpanish)
	assert.False(t, r.WasTranslated)
	tlMock.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything)

	cr := costRecord(t)
	assert.Equal(t, 2, cr.TranscriptionAttempts)
	assert.False(t, cr.TranslationUsed)
	assert.InDelta(t, 0.006, cr.ElevenLabsCost, 1e-9)
	assert.InDelta(t, cost.DefaultRates().Completion(1000, 1000), cr.OpenAICost, 1e-9)
}

func TestProcess_EnglishAfterSpanishFailure(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "I need a pump",
		Attempts: 2}, nil)

	_, err := p.Process(test.Ctx(t), oneMin)

	require.Nil(t, err)
	cr := costRecord(t)
	assert.Equal(t, 2, cr.TranscriptionAttempts)
	assert.InDelta(t, 0.003, cr.ElevenLabsCost, 1e-9)
}

func TestProcess_DateTime(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "I need a pump", Attempts: 1}, nil)

	_, err := p.Process(test.Ctx(t), oneMin)

	require.Nil(t, err)
	po := dbMock.Calls[0].Arguments.Get(1).(*persistence.PurchaseOrder)
	assert.Equal(t, "2025-05-06", po.Date)
	assert.Equal(t, "17:30:15", po.Time)
	assert.Equal(t, "I need a pump", po.RawTranscription)
	assert.Equal(t, "2025-05-06", costRecord(t).Date)
}

func TestProcess_TranslationFails(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "necesito una bomba",
		Spanish: true, Attempts: 1}, nil)
	tlMock.On("Translate", mock.Anything, mock.Anything).Return("", errors.New("olia"))

	r, err := p.Process(test.Ctx(t), oneMin)

	require.Nil(t, err)
	assert.Equal(t, "necesito una bomba", r.FinalText)
	assert.True(t, r.WasSpanish)
	assert.False(t, r.WasTranslated)
	exMock.AssertCalled(t, "Extract", mock.Anything, "necesito una bomba")
	assert.Equal(t, 1, countCalls(dbMock, "CreatePurchaseOrder"))

	cr := costRecord(t)
	assert.True(t, cr.TranslationUsed)
	assert.Equal(t, "Translation failed: olia", cr.ErrorMessage.String)
	assert.InDelta(t, cost.DefaultRates().Completion(1000, 1000), cr.OpenAICost, 1e-9)
}

func TestProcess_BlankSpanish_NoTranslation(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "  ",
		Spanish: true, Attempts: 1}, nil)

	r, err := p.Process(test.Ctx(t), oneMin)

	require.Nil(t, err)
	assert.False(t, r.WasTranslated)
	tlMock.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything)
	assert.False(t, costRecord(t).TranslationUsed)
}

func TestProcess_ExtractionEmpty(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "olia", Attempts: 1}, nil)
	exMock.ExpectedCalls = nil
	exMock.On("Extract", mock.Anything, mock.Anything).Return(&llm.Extraction{Tokens: 3})

	r, err := p.Process(test.Ctx(t), oneMin)

	require.Nil(t, err)
	assert.Equal(t, llm.Fields{}, r.Fields)
	po := dbMock.Calls[0].Arguments.Get(1).(*persistence.PurchaseOrder)
	assert.Nil(t, po.Description)
	assert.Nil(t, po.UnitNumber)
	assert.Nil(t, po.Customer)
	assert.Nil(t, po.VendorSupplier)
}

func TestProcess_TranscriptionFails(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(nil,
		&transcriber.FailedError{Attempts: 2, Err: errors.New("olia")})

	r, err := p.Process(test.Ctx(t), oneMin)

	assert.Nil(t, r)
	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, status.Transcribing, pe.Stage)
	assert.Equal(t, 0, countCalls(dbMock, "CreatePurchaseOrder"))
	memoMock.AssertNotCalled(t, "Append", mock.Anything)
	exMock.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)

	cr := costRecord(t)
	assert.Equal(t, 2, cr.TranscriptionAttempts)
	assert.True(t, cr.ErrorMessage.Valid)
	assert.Contains(t, cr.ErrorMessage.String, "olia")
	assert.InDelta(t, 0.003, cr.ElevenLabsCost, 1e-9)
	assert.InDelta(t, 0.003, cr.TotalCost, 1e-9)
}

func TestProcess_MemoFails(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "olia", Attempts: 1}, nil)
	memoMock.ExpectedCalls = nil
	memoMock.On("Append", mock.Anything).Return(errors.New("disk"))

	_, err := p.Process(test.Ctx(t), oneMin)

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, status.Persisting, pe.Stage)
	assert.Equal(t, 0, countCalls(dbMock, "CreatePurchaseOrder"))
	assert.Equal(t, "disk", costRecord(t).ErrorMessage.String)
}

func TestProcess_SaveFails(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "olia", Attempts: 1}, nil)
	dbMock.ExpectedCalls = nil
	dbMock.On("CreatePurchaseOrder", mock.Anything, mock.Anything).Return(nil, errors.New("db"))
	dbMock.On("CreateCostRecord", mock.Anything, mock.Anything).Return(int64(1), nil)

	r, err := p.Process(test.Ctx(t), oneMin)

	assert.Nil(t, r)
	assert.NotNil(t, err)
	cr := costRecord(t)
	assert.Equal(t, "db", cr.ErrorMessage.String)
	assert.InDelta(t, cr.ElevenLabsCost+cr.OpenAICost, cr.TotalCost, 1e-9)
}

func TestProcess_CostSaveFails(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "olia", Attempts: 1}, nil)
	dbMock.ExpectedCalls = nil
	dbMock.On("CreatePurchaseOrder", mock.Anything, mock.Anything).Return(int64(7), nil)
	dbMock.On("CreateCostRecord", mock.Anything, mock.Anything).Return(nil, errors.New("db"))

	r, err := p.Process(test.Ctx(t), oneMin)

	assert.Nil(t, r)
	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, status.Persisting, pe.Stage)
	assert.Equal(t, 1, countCalls(dbMock, "CreateCostRecord"))
}

func TestProcess_CancelledDuringTranscription(t *testing.T) {
	p := initTest(t)
	ctx, cf := context.WithCancel(test.Ctx(t))
	defer cf()
	trMock.On("Transcribe", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cf() }).Return(nil,
		&transcriber.FailedError{Attempts: 2, Err: context.Canceled})
	liveDB(t)

	r, err := p.Process(ctx, oneMin)

	assert.Nil(t, r)
	require.NotNil(t, err)
	cr := costRecord(t)
	assert.Equal(t, 2, cr.TranscriptionAttempts)
	assert.Contains(t, cr.ErrorMessage.String, "context canceled")
}

func TestProcess_CancelledAfterExtraction(t *testing.T) {
	p := initTest(t)
	ctx, cf := context.WithCancel(test.Ctx(t))
	defer cf()
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "olia", Attempts: 1}, nil)
	exMock.ExpectedCalls = nil
	exMock.On("Extract", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cf() }).
		Return(&llm.Extraction{Tokens: 10})
	liveDB(t)

	r, err := p.Process(ctx, oneMin)

	require.Nil(t, err)
	assert.Equal(t, int64(7), r.PurchaseOrderID)
	assert.Equal(t, 1, countCalls(dbMock, "CreatePurchaseOrder"))
	assert.False(t, costRecord(t).ErrorMessage.Valid)
}

// liveDB makes the db mock fail on a done context like pgx does
func liveDB(t *testing.T) {
	t.Helper()
	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	dbMock.ExpectedCalls = nil
	dbMock.On("CreatePurchaseOrder", live, mock.Anything).Return(int64(7), nil)
	dbMock.On("CreateCostRecord", live, mock.Anything).Return(int64(1), nil)
	dbMock.On("CreatePurchaseOrder", mock.Anything, mock.Anything).Return(nil, context.Canceled)
	dbMock.On("CreateCostRecord", mock.Anything, mock.Anything).Return(nil, context.Canceled)
}

func TestProcess_SmallAudio(t *testing.T) {
	p := initTest(t)
	trMock.On("Transcribe", mock.Anything, mock.Anything).Return(&transcriber.Outcome{Text: "olia", Attempts: 1}, nil)

	_, err := p.Process(test.Ctx(t), []byte("a"))

	require.Nil(t, err)
	cr := costRecord(t)
	assert.InDelta(t, 0.1, cr.EstimatedDurationMinutes, 1e-9)
	assert.InDelta(t, 0.0003, cr.ElevenLabsCost, 1e-9)
}

func TestNewPipeline(t *testing.T) {
	initTest(t)
	tests := []struct {
		name    string
		data    *Data
		wantErr bool
	}{
		{name: "OK", data: &Data{Transcriber: trMock, Translator: tlMock, Extractor: exMock, Memo: memoMock, DB: dbMock}},
		{name: "Nil", data: nil, wantErr: true},
		{name: "No transcriber", data: &Data{Translator: tlMock, Extractor: exMock, Memo: memoMock, DB: dbMock}, wantErr: true},
		{name: "No translator", data: &Data{Transcriber: trMock, Extractor: exMock, Memo: memoMock, DB: dbMock}, wantErr: true},
		{name: "No extractor", data: &Data{Transcriber: trMock, Translator: tlMock, Memo: memoMock, DB: dbMock}, wantErr: true},
		{name: "No memo", data: &Data{Transcriber: trMock, Translator: tlMock, Extractor: exMock, DB: dbMock}, wantErr: true},
		{name: "No DB", data: &Data{Transcriber: trMock, Translator: tlMock, Extractor: exMock, Memo: memoMock}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPipeline(tt.data)
			assert.Equal(t, tt.wantErr, err != nil)
			if !tt.wantErr {
				require.NotNil(t, got)
				assert.Equal(t, cost.DefaultRates(), got.data.Rates)
				assert.Equal(t, time.UTC, got.data.Location)
			}
		})
	}
}
