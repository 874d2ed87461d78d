package api

import (
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/llm"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
)

const (
	// PrmAudio is the multipart form field of the uploaded memo
	PrmAudio = "audio"
)

// CostTracking is the request cost, values are formatted with 4 decimals
type CostTracking struct {
	ElevenLabsCost string `json:"elevenLabsCost"`
	OpenAICost     string `json:"openaiCost"`
	TotalCost      string `json:"totalCost"`
}

// UploadResult is the response of a processed memo
type UploadResult struct {
	Transcription   string       `json:"transcription"`
	FinalText       string       `json:"finalText"`
	WasSpanish      bool         `json:"wasSpanish"`
	WasTranslated   bool         `json:"wasTranslated"`
	ExtractedData   llm.Fields   `json:"extractedData"`
	PurchaseOrderID int64        `json:"purchaseOrderId"`
	CostTracking    CostTracking `json:"costTracking"`
}

// ProcessError is returned when the memo could not be processed
type ProcessError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// ErrorResult is a generic error response
type ErrorResult struct {
	Error string `json:"error"`
}

// MessageResult is a generic informative response
type MessageResult struct {
	Message string `json:"message"`
}

// PurchaseOrders is the list response
type PurchaseOrders struct {
	PurchaseOrders []*persistence.PurchaseOrder `json:"purchaseOrders"`
}

// Costs is the cost report
type Costs struct {
	Summary        *persistence.CostSummary `json:"summary"`
	DailyBreakdown []*persistence.DailyCost `json:"daily_breakdown"`
}

// Health is the static health response
type Health struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
