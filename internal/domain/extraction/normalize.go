package extraction

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseAmount converts a locale-formatted monetary substring into a float64.
// Thousands separators, currency symbols, and surrounding whitespace are
// stripped.  Any parse failure yields 0.0; this function never panics.
//
//	ParseAmount("12,500.00") == 12500.0
//	ParseAmount("₪1,200")    == 1200.0
//	ParseAmount("garbage")   == 0.0
func ParseAmount(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-':
			return r
		default:
			// Drops commas, currency symbols, letters, and whitespace.
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0.0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0.0
	}
	return f
}

// DetectLanguage classifies text by character-class ratio over all runes:
// Hebrew-block ratio above 0.1 yields "he", otherwise Latin ratio above 0.5
// yields "en", otherwise "mixed".  Empty text yields "unknown".
func DetectLanguage(text string) string {
	if text == "" {
		return LangUnknown
	}
	var total, hebrew, latin int
	for _, r := range text {
		total++
		switch {
		case unicode.Is(unicode.Hebrew, r):
			hebrew++
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			latin++
		}
	}
	if total == 0 {
		return LangUnknown
	}
	if float64(hebrew)/float64(total) > 0.1 {
		return LangHebrew
	}
	if float64(latin)/float64(total) > 0.5 {
		return LangEnglish
	}
	return LangMixed
}
