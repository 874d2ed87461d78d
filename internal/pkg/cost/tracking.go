package cost

import (
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
)

// Tracking accumulates the estimated cost of one upload request.
// It must not be shared between requests.
type Tracking struct {
	ElevenLabsCost           float64
	OpenAICost               float64
	AudioSizeBytes           int64
	EstimatedDurationMinutes float64
	TranscriptionAttempts    int
	TranslationUsed          bool
	Error                    string
}

// NewTracking initializes tracking for the audio size, transcription cost is
// estimated for a single call
func NewTracking(audioSize int64, rates Rates) *Tracking {
	res := &Tracking{AudioSizeBytes: audioSize}
	res.EstimatedDurationMinutes = EstimateDuration(audioSize)
	res.ElevenLabsCost = rates.Transcription(res.EstimatedDurationMinutes)
	return res
}

// Total returns the sum of all service costs
func (t *Tracking) Total() float64 {
	return t.ElevenLabsCost + t.OpenAICost
}

// Record converts tracking data to a DB record for the date
func (t *Tracking) Record(date string) *persistence.CostRecord {
	return &persistence.CostRecord{
		Date:                     date,
		ElevenLabsCost:           t.ElevenLabsCost,
		OpenAICost:               t.OpenAICost,
		TotalCost:                t.Total(),
		AudioSizeBytes:           t.AudioSizeBytes,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
		TranscriptionAttempts:    t.TranscriptionAttempts,
		TranslationUsed:          t.TranslationUsed,
		ErrorMessage:             utils.ToSQLStr(t.Error),
	}
}
