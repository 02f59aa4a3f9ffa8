// internal/extraction/semanticfallback/merge.go
package semanticfallback

import (
	"francis-backend/internal/models"
	"francis-backend/pkg/questionnaire"
)

// String values outside these bounds are treated as extraction garbage.
const (
	minValueLength = 2
	maxValueLength = 50
)

// MergeResult reports what an Apply pass changed.
type MergeResult struct {
	// Applied lists the question ids that received a structured value.
	Applied []string
	// Advance is true when the field tied to the target question was among
	// them; the UI auto-advances after its fixed delay.
	Advance bool
}

// Apply merges extracted fields into the answers. Every recognized field is
// applied, not only the target question's ("extract everything visible").
// Scalar fields are last-write-wins, so applying the same extraction twice
// yields the same state as applying it once.
func Apply(answers *models.ProfileAnswers, q *questionnaire.Questionnaire,
	fields map[string]interface{}, targetQuestionID string) MergeResult {

	var result MergeResult
	for _, question := range q.Questions {
		raw, ok := fields[question.ID]
		if !ok {
			continue
		}

		applied := false
		switch question.Kind {
		case questionnaire.KindMulti:
			if values := stringSlice(raw); len(values) > 0 {
				answers.SetMulti(question.ID, values)
				applied = true
			}
		default:
			if value, ok := validString(raw); ok {
				answers.SetSingle(question.ID, value)
				applied = true
			}
		}

		if applied {
			result.Applied = append(result.Applied, question.ID)
			if question.ID == targetQuestionID {
				result.Advance = true
			}
		}
	}
	return result
}

// Degrade stores the raw text verbatim under the question's free-text
// fallback. Structured fields stay untouched.
func Degrade(answers *models.ProfileAnswers, questionID, rawText string) {
	answers.SetLibre(questionID, rawText)
}

func validString(raw interface{}) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	n := len([]rune(s))
	if n < minValueLength || n > maxValueLength {
		return "", false
	}
	return s, true
}

func stringSlice(raw interface{}) []string {
	var out []string
	switch v := raw.(type) {
	case []string:
		for _, s := range v {
			if value, ok := validString(s); ok {
				out = append(out, value)
			}
		}
	case []interface{}:
		for _, item := range v {
			if value, ok := validString(item); ok {
				out = append(out, value)
			}
		}
	case string:
		if value, ok := validString(v); ok {
			out = append(out, value)
		}
	}
	return out
}
