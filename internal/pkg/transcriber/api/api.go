package api

const (
	// LangSpanish is a Spanish language code for the speech-to-text service
	LangSpanish = "es"
	// LangEnglish is an English language code for the speech-to-text service
	LangEnglish = "en"
)

// Word is a token of the transcription
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Type  string  `json:"type"`
}

// Response is a speech-to-text service response
type Response struct {
	LanguageCode        string  `json:"language_code"`
	LanguageProbability float64 `json:"language_probability"`
	Text                string  `json:"text"`
	Words               []Word  `json:"words,omitempty"`
}
