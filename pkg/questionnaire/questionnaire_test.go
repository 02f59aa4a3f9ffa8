// pkg/questionnaire/questionnaire_test.go
package questionnaire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValidAgainstSchema(t *testing.T) {
	q := Default()
	require.Greater(t, q.Len(), 0)

	for i := 0; i < q.Len(); i++ {
		question, ok := q.At(i)
		require.True(t, ok)
		assert.NotEmpty(t, question.ID)
		assert.NotEmpty(t, question.Prompt)
	}

	// Multi-choice questions must name their negative escape hatch.
	for _, question := range q.Questions {
		if question.Kind == KindMulti {
			assert.NotEmpty(t, question.NegativeValue, "question %s", question.ID)
			assert.Contains(t, question.EnumValues, question.NegativeValue)
		}
	}
}

func TestParse_ValidDocument(t *testing.T) {
	doc := `{
		"version": "test",
		"questions": [
			{"id": "q1", "label": "Q1", "prompt": "Première question ?", "kind": "single"},
			{"id": "q2", "label": "Q2", "prompt": "Deuxième question ?", "kind": "multi",
			 "enumValues": ["a", "b", "aucun"], "negativeValue": "aucun"}
		]
	}`

	q, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, q.Len())

	question, ok := q.ByID("q2")
	require.True(t, ok)
	assert.Equal(t, KindMulti, question.Kind)
	assert.Equal(t, "aucun", question.NegativeValue)
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	doc := `{
		"version": "test",
		"questions": [
			{"id": "q1", "label": "Q1", "prompt": "Une ?", "kind": "single"},
			{"id": "q1", "label": "Q1 bis", "prompt": "Encore ?", "kind": "single"}
		]
	}`

	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate question id")
}

func TestParse_RejectsUnknownKind(t *testing.T) {
	doc := `{
		"version": "test",
		"questions": [
			{"id": "q1", "label": "Q1", "prompt": "Une ?", "kind": "ranked"}
		]
	}`

	_, err := Parse([]byte(doc))
	assert.Error(t, err)
}

func TestByID_Unknown(t *testing.T) {
	q := Default()
	_, ok := q.ByID("question_inconnue")
	assert.False(t, ok)
}

func TestAt_OutOfRange(t *testing.T) {
	q := Default()
	_, ok := q.At(-1)
	assert.False(t, ok)
	_, ok = q.At(q.Len())
	assert.False(t, ok)
}
