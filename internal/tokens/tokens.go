// Package tokens provides approximate, deterministic token counting and
// truncation compatible with BPE-style model tokenizers. Exact parity with
// any specific tokenizer is not a goal; stability is: the same text always
// encodes to the same units, which the trimming policy depends on.
package tokens

import (
	"strings"
	"unicode"
)

// maxWordUnit caps how many letters one unit may hold; longer words count
// as several units, approximating subword tokenization.
const maxWordUnit = 8

// maxDigitUnit mirrors the short digit groups BPE vocabularies use.
const maxDigitUnit = 3

// Encode splits text into token units. Decoding the units concatenates
// back to the exact input.
func Encode(text string) []string {
	var units []string
	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsLetter(r):
			j := i
			for j < len(runes) && unicode.IsLetter(runes[j]) {
				j++
			}
			units = appendSplit(units, runes[i:j], maxWordUnit)
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			units = appendSplit(units, runes[i:j], maxDigitUnit)
			i = j
		case r == ' ':
			// A single space glues to the following word unit.
			if i+1 < len(runes) && (unicode.IsLetter(runes[i+1]) || unicode.IsDigit(runes[i+1])) {
				j := i + 1
				for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j])) {
					j++
				}
				units = appendSplitPrefixed(units, " ", runes[i+1:j])
				i = j
			} else {
				units = append(units, " ")
				i++
			}
		default:
			units = append(units, string(r))
			i++
		}
	}
	return units
}

func appendSplit(units []string, word []rune, max int) []string {
	for len(word) > max {
		units = append(units, string(word[:max]))
		word = word[max:]
	}
	if len(word) > 0 {
		units = append(units, string(word))
	}
	return units
}

func appendSplitPrefixed(units []string, prefix string, word []rune) []string {
	max := maxWordUnit
	if unicode.IsDigit(word[0]) {
		max = maxDigitUnit
	}
	first := word
	if len(first) > max {
		first = word[:max]
	}
	units = append(units, prefix+string(first))
	if len(word) > len(first) {
		units = appendSplit(units, word[len(first):], max)
	}
	return units
}

// Decode joins token units back into text.
func Decode(units []string) string {
	return strings.Join(units, "")
}

// Count reports the token cost of text.
func Count(text string) int {
	return len(Encode(text))
}

// Truncate keeps only the first maxTokens units of text. Text that
// already fits is returned unchanged.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	units := Encode(text)
	if len(units) <= maxTokens {
		return text
	}
	return Decode(units[:maxTokens])
}
