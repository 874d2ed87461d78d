package persistence

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound indicates a missing record
var ErrNotFound = errors.New("not found")

type (

	//PurchaseOrder table
	PurchaseOrder struct {
		ID               int64     `json:"id"`
		Date             string    `json:"date"`
		Time             string    `json:"time"`
		Description      *string   `json:"description"`
		UnitNumber       *string   `json:"unit_number"`
		Customer         *string   `json:"customer"`
		VendorSupplier   *string   `json:"vendor_supplier"`
		RawTranscription string    `json:"raw_transcription"`
		CreatedAt        time.Time `json:"created_at"`
	}

	//CostRecord is a cost_tracking table row
	CostRecord struct {
		ID                       int64
		Date                     string
		ElevenLabsCost           float64
		OpenAICost               float64
		TotalCost                float64
		AudioSizeBytes           int64
		EstimatedDurationMinutes float64
		TranscriptionAttempts    int
		TranslationUsed          bool
		ErrorMessage             sql.NullString
		Created                  time.Time
	}

	//CostSummary aggregates all cost records
	CostSummary struct {
		TotalCost           float64 `json:"total_cost"`
		TotalElevenLabsCost float64 `json:"total_elevenlabs_cost"`
		TotalOpenAICost     float64 `json:"total_openai_cost"`
		TotalRequests       int64   `json:"total_requests"`
	}

	//DailyCost aggregates cost records of one day
	DailyCost struct {
		Date          string  `json:"date"`
		DailyCost     float64 `json:"daily_cost"`
		DailyRequests int64   `json:"daily_requests"`
	}
)
