package sentiment

// Summary aggregates results for the admin insights panel.
type Summary struct {
	Total        int           `json:"total"`
	Counts       map[Label]int `json:"counts"`
	AverageScore float64       `json:"average_score"`
}

// Summarize counts results per label and averages their scores.
func Summarize(results []Result) Summary {
	s := Summary{
		Total:  len(results),
		Counts: map[Label]int{Positive: 0, Neutral: 0, Negative: 0},
	}
	if len(results) == 0 {
		return s
	}

	sum := 0
	for _, r := range results {
		s.Counts[r.Label]++
		sum += r.Score
	}
	s.AverageScore = float64(sum) / float64(len(results))
	return s
}

// Excerpt shortens text to at most limit characters, ending with an ellipsis
// when cut.
func Excerpt(text string, limit int) string {
	runes := []rune(text)
	if limit <= 3 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "…"
}
