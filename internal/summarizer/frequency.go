// Package summarizer produces the short document summaries shown when a
// file is attached to the chat.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	wordRe     = regexp.MustCompile(`\p{L}+`)
)

// Frequency ranks sentences by how many high-frequency terms they
// contain and keeps the best ones in original order.
type Frequency struct {
	stopwords map[string]struct{}
}

func NewFrequency() *Frequency {
	return &Frequency{stopwords: stopwordSet()}
}

// Summarize returns at most maxSentences sentences of the text, chosen by
// normalized term frequency.
func (f *Frequency) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range f.terms(sent) {
			freq[tok]++
		}
	}
	peak := 0.0
	for _, v := range freq {
		peak = math.Max(peak, v)
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		terms := f.terms(sent)
		score := 0.0
		for _, tok := range terms {
			score += freq[tok]
		}
		if peak > 0 {
			score /= peak
		}
		// Dampen the advantage of long sentences.
		if n := float64(len(terms)); n > 0 {
			score /= math.Sqrt(n)
		}
		ranked[i] = scored{idx: i, score: score}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	if maxSentences > len(ranked) {
		maxSentences = len(ranked)
	}
	picked := make([]int, maxSentences)
	for i := range picked {
		picked[i] = ranked[i].idx
	}
	sort.Ints(picked)

	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = strings.TrimSpace(sentences[idx])
	}
	return strings.Join(out, " "), nil
}

func (f *Frequency) terms(text string) []string {
	raw := wordRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := f.stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func stopwordSet() map[string]struct{} {
	words := strings.Fields(
		"a an the and or but if then else for to of in on at by with as is are was were be been being " +
			"it this that these those from up down over under again further than so such into about between " +
			"through during before after above below out off own same too very can will just should now")
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
