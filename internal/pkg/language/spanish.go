package language

import "strings"

// spanishRatio is the share of known function words above which text counts as Spanish
const spanishRatio = 0.3

var (
	spanishWords = map[string]bool{
		"el": true, "la": true, "los": true, "las": true, "un": true, "una": true, "y": true,
		"o": true, "pero": true, "si": true, "no": true, "con": true, "por": true, "para": true,
		"de": true, "del": true, "en": true, "que": true, "es": true, "son": true, "está": true,
		"están": true, "fue": true, "fueron": true, "ser": true, "estar": true, "tener": true,
		"hacer": true, "decir": true,
	}
	spanishLetters = "áéíóúüñ"
	punctuation    = `.,!?;:"'()`
)

// IsSpanish reports whether text looks like Spanish: either more than 30% of its words are
// common Spanish function words or it contains a Spanish accented letter.
// Empty text is never Spanish.
func IsSpanish(text string) bool {
	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return false
	}
	matches := 0
	for _, w := range words {
		if spanishWords[cleanWord(w)] {
			matches++
		}
	}
	if float64(matches)/float64(len(words)) > spanishRatio {
		return true
	}
	return strings.ContainsAny(lower, spanishLetters)
}

func cleanWord(w string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, w)
}
