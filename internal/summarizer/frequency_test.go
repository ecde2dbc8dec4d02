package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Empty(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("", 5)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSummarize_FewerSentencesThanRequested(t *testing.T) {
	text := "Databases store records. Indexes speed up lookups."
	out, err := NewFrequencySummarizer().Summarize(text, 5)
	require.NoError(t, err)
	assert.Contains(t, out, "Databases store records.")
	assert.Contains(t, out, "Indexes speed up lookups.")
}

func TestSummarize_PicksFrequentTopicSentences(t *testing.T) {
	text := "Databases store records on disk. Databases use indexes for fast lookups. " +
		"Databases replicate records across nodes. My lunch today was a sandwich."
	out, err := NewFrequencySummarizer().Summarize(text, 2)
	require.NoError(t, err)

	assert.Contains(t, out, "Databases")
	assert.NotContains(t, out, "sandwich")
}

func TestSummarize_KeepsOriginalSentenceOrder(t *testing.T) {
	text := "Replication copies data between nodes. Unrelated filler sentence here. " +
		"Replication keeps replicas of data consistent."
	out, err := NewFrequencySummarizer().Summarize(text, 2)
	require.NoError(t, err)

	first := strings.Index(out, "Replication copies")
	second := strings.Index(out, "Replication keeps")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
}

func TestSummarize_CapsAtMaxSentences(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("Storage engines persist data to disk. ")
	}
	out, err := NewFrequencySummarizer().Summarize(b.String(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "."))
}
