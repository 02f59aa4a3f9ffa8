// internal/extraction/pipeline_test.go
package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"francis-backend/internal/common/logger"
	"francis-backend/internal/extraction/semanticfallback"
	"francis-backend/internal/models"
	"francis-backend/pkg/questionnaire"
)

type stubExtractor struct {
	fields  map[string]interface{}
	err     error
	calls   int
	lastReq *semanticfallback.Request
}

func (s *stubExtractor) Extract(ctx context.Context, req *semanticfallback.Request) (map[string]interface{}, error) {
	s.calls++
	s.lastReq = req
	return s.fields, s.err
}

func newTestPipeline(t *testing.T, stub *stubExtractor) (*Pipeline, *questionnaire.Questionnaire) {
	t.Helper()
	q := questionnaire.Default()
	return NewPipeline(q, stub, logger.NewTestLogger(t)), q
}

func TestProcess_KeywordMatchSkipsFallback(t *testing.T) {
	stub := &stubExtractor{}
	p, _ := newTestPipeline(t, stub)
	answers := models.NewProfileAnswers()

	out := p.Process(context.Background(), answers, "situation_maritale_client",
		"je suis marié avec deux enfants", nil)

	assert.Equal(t, SourceKeyword, out.Source)
	assert.True(t, out.Advance)
	assert.Equal(t, []string{"situation_maritale_client"}, out.AppliedQuestions)
	assert.Equal(t, 0, stub.calls, "keyword match must not call the remote extractor")

	value, ok := answers.Get("situation_maritale_client")
	require.True(t, ok)
	assert.Equal(t, "Marié(e)", value.Single)
}

func TestProcess_SemanticFallbackAppliesAllRecognizedFields(t *testing.T) {
	stub := &stubExtractor{fields: map[string]interface{}{
		"activite_principale": "Salarié(e)",
		"residence_fiscale":   "France",
	}}
	p, _ := newTestPipeline(t, stub)
	answers := models.NewProfileAnswers()

	out := p.Process(context.Background(), answers, "activite_principale",
		"je bosse en CDI dans une boîte à Lyon", []string{"previous answer"})

	assert.Equal(t, SourceSemantic, out.Source)
	assert.True(t, out.Advance)
	assert.ElementsMatch(t, []string{"activite_principale", "residence_fiscale"}, out.AppliedQuestions)
	require.NotNil(t, stub.lastReq)
	assert.Equal(t, []string{"previous answer"}, stub.lastReq.Context)

	value, ok := answers.Get("residence_fiscale")
	require.True(t, ok)
	assert.Equal(t, "France", value.Single)
}

func TestProcess_SemanticAnswersOtherQuestionDoesNotAdvance(t *testing.T) {
	stub := &stubExtractor{fields: map[string]interface{}{
		"residence_fiscale": "France",
	}}
	p, _ := newTestPipeline(t, stub)
	answers := models.NewProfileAnswers()

	out := p.Process(context.Background(), answers, "activite_principale",
		"je vis en France", nil)

	assert.Equal(t, SourceSemantic, out.Source)
	assert.False(t, out.Advance, "target question unanswered, caller must re-ask")
	_, ok := answers.Get("activite_principale")
	assert.False(t, ok)
}

func TestProcess_ExtractionFailureDegradesToFreeText(t *testing.T) {
	stub := &stubExtractor{err: semanticfallback.ErrExtractionFailed}
	p, _ := newTestPipeline(t, stub)
	answers := models.NewProfileAnswers()

	raw := "bah c'est compliqué en ce moment"
	out := p.Process(context.Background(), answers, "activite_principale", raw, nil)

	assert.Equal(t, SourceLibre, out.Source)
	assert.True(t, out.Advance)
	assert.Empty(t, out.AppliedQuestions)
	libre, ok := answers.GetLibre("activite_principale")
	require.True(t, ok)
	assert.Equal(t, raw, libre, "raw text stored verbatim")
}

func TestProcess_EmptyExtractionDegradesToFreeText(t *testing.T) {
	stub := &stubExtractor{fields: map[string]interface{}{}, err: semanticfallback.ErrExtractionEmpty}
	p, _ := newTestPipeline(t, stub)
	answers := models.NewProfileAnswers()

	out := p.Process(context.Background(), answers, "objectifs_fiscaux", "mmh", nil)

	assert.Equal(t, SourceLibre, out.Source)
	libre, ok := answers.GetLibre("objectifs_fiscaux")
	require.True(t, ok)
	assert.Equal(t, "mmh", libre)
}
