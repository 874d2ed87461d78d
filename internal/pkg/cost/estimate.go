package cost

import (
	"math"
	"unicode/utf8"
)

const (
	// bytesPerSecond is the assumed audio bitrate used to guess the duration
	bytesPerSecond = 16000
	// minDurationMinutes keeps the smallest upload from being free
	minDurationMinutes = 0.1
	charsPerToken      = 4
)

// EstimateDuration returns an approximate audio duration in minutes from its size
func EstimateDuration(bytes int64) float64 {
	return math.Max(minDurationMinutes, float64(bytes)/bytesPerSecond/60)
}

// EstimateTokens returns an approximate model token count for text
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / charsPerToken))
}

// Rates keeps the price table used for the estimates
type Rates struct {
	TranscriptionPerMinute float64
	InputPer1K             float64
	OutputPer1K            float64
}

// DefaultRates returns the default price table
func DefaultRates() Rates {
	return Rates{TranscriptionPerMinute: 0.003, InputPer1K: 0.0015, OutputPer1K: 0.002}
}

// Transcription returns speech-to-text cost for the audio duration
func (r Rates) Transcription(minutes float64) float64 {
	return minutes * r.TranscriptionPerMinute
}

// Completion returns language model cost for input and output token counts
func (r Rates) Completion(inTokens, outTokens int) float64 {
	return float64(inTokens)/1000*r.InputPer1K + float64(outTokens)/1000*r.OutputPer1K
}

// WithDefaults replaces non positive rates with default ones
func (r Rates) WithDefaults() Rates {
	d := DefaultRates()
	if r.TranscriptionPerMinute <= 0 {
		r.TranscriptionPerMinute = d.TranscriptionPerMinute
	}
	if r.InputPer1K <= 0 {
		r.InputPer1K = d.InputPer1K
	}
	if r.OutputPer1K <= 0 {
		r.OutputPer1K = d.OutputPer1K
	}
	return r
}
