package assessment

// Severity classifies the overall score.
type Severity string

const (
	SeverityMinimal     Severity = "Minimal or No Indicators"
	SeverityMild        Severity = "Mild Indicators"
	SeverityModerate    Severity = "Moderate Indicators"
	SeveritySignificant Severity = "Significant Indicators"
	SeverityStrong      Severity = "Strong Indicators"
)

// SeverityFor maps an overall score to a severity level. Thresholds are
// checked from the top down.
func SeverityFor(overall float64) Severity {
	switch {
	case overall >= 80:
		return SeverityStrong
	case overall >= 60:
		return SeveritySignificant
	case overall >= 40:
		return SeverityModerate
	case overall >= 20:
		return SeverityMild
	default:
		return SeverityMinimal
	}
}

// Responses maps question ID to the selected answer value.
type Responses map[string]int

// Clone returns an independent copy.
func (r Responses) Clone() Responses {
	out := make(Responses, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Result is the scored questionnaire. Category scores are keyed by category
// ID, recommendations by category label.
type Result struct {
	OverallScore    float64             `json:"overallScore"`
	CategoryScores  map[string]float64  `json:"categoryScores"`
	Recommendations map[string][]string `json:"recommendations"`
	SeverityLevel   Severity            `json:"severityLevel"`
}

// Compute scores a response set. It is pure: the same responses always
// produce the same result, whatever order they were recorded in.
//
// A category score divides by the number of catalog questions in that
// category, counting unanswered ones as 0. The overall score divides by the
// number of answered questions only, so the two disagree until every
// question has been answered.
func Compute(responses Responses) Result {
	sums := make(map[Category]int, len(categoryLabels))
	total, answered := 0, 0
	for id, v := range responses {
		q, ok := questionIndex[id]
		if !ok {
			continue
		}
		sums[q.Category] += v
		total += v
		answered++
	}

	result := Result{
		CategoryScores:  make(map[string]float64, len(categoryLabels)),
		Recommendations: make(map[string][]string, len(categoryLabels)),
	}

	for _, c := range Categories() {
		score := float64(sums[c]) / float64(categorySizes[c])
		result.CategoryScores[string(c)] = score
		result.Recommendations[c.Label()] = Recommendations(c, score)
	}

	if answered > 0 {
		result.OverallScore = float64(total) / float64(answered)
	}
	result.SeverityLevel = SeverityFor(result.OverallScore)

	return result
}
