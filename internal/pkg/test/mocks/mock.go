package mocks

import (
	"context"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/llm"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/transcriber"
	"github.com/airenas/async-api/pkg/messages"
	"github.com/stretchr/testify/mock"
)

// DB is postgres DB mock
type DB struct{ mock.Mock }

func (m *DB) CreatePurchaseOrder(ctx context.Context, po *persistence.PurchaseOrder) (int64, error) {
	args := m.Called(ctx, po)
	return to[int64](args.Get(0)), args.Error(1)
}

func (m *DB) CreateCostRecord(ctx context.Context, cr *persistence.CostRecord) (int64, error) {
	args := m.Called(ctx, cr)
	return to[int64](args.Get(0)), args.Error(1)
}

func (m *DB) ListPurchaseOrders(ctx context.Context) ([]*persistence.PurchaseOrder, error) {
	args := m.Called(ctx)
	return to[[]*persistence.PurchaseOrder](args.Get(0)), args.Error(1)
}

func (m *DB) ListPurchaseOrdersForExport(ctx context.Context) ([]*persistence.PurchaseOrder, error) {
	args := m.Called(ctx)
	return to[[]*persistence.PurchaseOrder](args.Get(0)), args.Error(1)
}

func (m *DB) GetPurchaseOrder(ctx context.Context, id int64) (*persistence.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	return to[*persistence.PurchaseOrder](args.Get(0)), args.Error(1)
}

func (m *DB) DeletePurchaseOrder(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DB) CostSummary(ctx context.Context) (*persistence.CostSummary, error) {
	args := m.Called(ctx)
	return to[*persistence.CostSummary](args.Get(0)), args.Error(1)
}

func (m *DB) DailyCostBreakdown(ctx context.Context) ([]*persistence.DailyCost, error) {
	args := m.Called(ctx)
	return to[[]*persistence.DailyCost](args.Get(0)), args.Error(1)
}

func (m *DB) Live(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Sender is postgres queue mock
type Sender struct{ mock.Mock }

func (m *Sender) SendMessage(ctx context.Context, msg messages.Message, queue string) error {
	args := m.Called(ctx, msg, queue)
	return args.Error(0)
}

// Transcriber is language fallback transcription mock
type Transcriber struct{ mock.Mock }

func (m *Transcriber) Transcribe(ctx context.Context, audio []byte) (*transcriber.Outcome, error) {
	args := m.Called(ctx, audio)
	return to[*transcriber.Outcome](args.Get(0)), args.Error(1)
}

// Translator mock
type Translator struct{ mock.Mock }

func (m *Translator) Translate(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

// Extractor mock
type Extractor struct{ mock.Mock }

func (m *Extractor) Extract(ctx context.Context, text string) *llm.Extraction {
	args := m.Called(ctx, text)
	return to[*llm.Extraction](args.Get(0))
}

// Memo is memo log mock
type Memo struct{ mock.Mock }

func (m *Memo) Append(text string) error {
	args := m.Called(text)
	return args.Error(0)
}

// To converts mock value to the type, nil gives zero value
func To[T interface{}](val interface{}) T {
	return to[T](val)
}

func to[T interface{}](val interface{}) T {
	if val == nil {
		var res T
		return res
	}
	return val.(T)
}
