// Package summarizer produces the short corpus summary shown after ingest.
package summarizer

import (
	"math"
	"sort"
	"strings"

	"docchat/internal/tokenize"
)

// FrequencySummarizer ranks sentences by word frequency (stopwords filtered).
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

// Summarize returns a short summary by ranking sentences using token frequency.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := tokenize.Sentences(text)
	if len(sentences) == 0 {
		return "", nil
	}
	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range contentTokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		tokens := contentTokens(sent)
		sscore := 0.0
		for _, tok := range tokens {
			sscore += freq[tok]
		}
		// Normalize by sentence length to avoid bias toward long sentences
		if l := float64(len(tokens)); l > 0 {
			sscore /= math.Sqrt(l)
		}
		scores[i] = pair{i, sscore}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	// Keep original order among the selected sentences
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func contentTokens(sent string) []string {
	raw := tokenize.Words(sent)
	out := raw[:0]
	for _, t := range raw {
		if tokenize.IsStopword(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
