// internal/extraction/semanticfallback/merge_test.go
package semanticfallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"francis-backend/internal/models"
	"francis-backend/pkg/questionnaire"
)

func TestApply_AppliesEveryRecognizedField(t *testing.T) {
	answers := models.NewProfileAnswers()
	fields := map[string]interface{}{
		"situation_maritale_client": "Marié(e)",
		"residence_fiscale":         "france",
		"objectifs_fiscaux":         []interface{}{"reduire_impots", "investir"},
		"champ_inconnu":             "ignoré",
	}

	result := Apply(answers, questionnaire.Default(), fields, "situation_maritale_client")

	assert.True(t, result.Advance)
	assert.ElementsMatch(t,
		[]string{"situation_maritale_client", "residence_fiscale", "objectifs_fiscaux"},
		result.Applied)

	v, ok := answers.Get("situation_maritale_client")
	require.True(t, ok)
	assert.Equal(t, "Marié(e)", v.Single)

	v, ok = answers.Get("objectifs_fiscaux")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"reduire_impots", "investir"}, v.Multi)

	_, ok = answers.Get("champ_inconnu")
	assert.False(t, ok, "unrecognized fields are dropped")
}

func TestApply_NoAdvanceWhenTargetMissing(t *testing.T) {
	answers := models.NewProfileAnswers()
	fields := map[string]interface{}{"residence_fiscale": "france"}

	result := Apply(answers, questionnaire.Default(), fields, "situation_maritale_client")

	assert.False(t, result.Advance)
	assert.Equal(t, []string{"residence_fiscale"}, result.Applied)
}

func TestApply_RejectsOutOfBoundsStrings(t *testing.T) {
	answers := models.NewProfileAnswers()
	long := make([]rune, 51)
	for i := range long {
		long[i] = 'a'
	}
	fields := map[string]interface{}{
		"situation_maritale_client": "x",       // too short
		"residence_fiscale":         string(long), // too long
	}

	result := Apply(answers, questionnaire.Default(), fields, "situation_maritale_client")

	assert.Empty(t, result.Applied)
	assert.False(t, result.Advance)
}

func TestApply_Idempotent(t *testing.T) {
	answers := models.NewProfileAnswers()
	fields := map[string]interface{}{
		"situation_maritale_client": "Marié(e)",
		"objectifs_fiscaux":         []interface{}{"transmettre", "investir"},
	}
	q := questionnaire.Default()

	Apply(answers, q, fields, "situation_maritale_client")
	once := *answers

	Apply(answers, q, fields, "situation_maritale_client")

	assert.Equal(t, once.Values["situation_maritale_client"], answers.Values["situation_maritale_client"])
	v, _ := answers.Get("objectifs_fiscaux")
	assert.Len(t, v.Multi, 2, "multi values must not accumulate duplicates")
}

func TestApply_LastWriteWinsPerField(t *testing.T) {
	answers := models.NewProfileAnswers()
	q := questionnaire.Default()

	Apply(answers, q, map[string]interface{}{"residence_fiscale": "france"}, "residence_fiscale")
	Apply(answers, q, map[string]interface{}{"residence_fiscale": "etranger"}, "residence_fiscale")

	v, ok := answers.Get("residence_fiscale")
	require.True(t, ok)
	assert.Equal(t, "etranger", v.Single)
}

func TestApply_ClearsLibreFallback(t *testing.T) {
	answers := models.NewProfileAnswers()
	q := questionnaire.Default()

	Degrade(answers, "situation_maritale_client", "bon ben je sais pas trop")
	_, hasLibre := answers.GetLibre("situation_maritale_client")
	require.True(t, hasLibre)

	Apply(answers, q, map[string]interface{}{"situation_maritale_client": "Marié(e)"},
		"situation_maritale_client")

	_, hasLibre = answers.GetLibre("situation_maritale_client")
	assert.False(t, hasLibre, "structured value clears the free-text fallback")
}

func TestDegrade_NeverOverwritesStructuredValue(t *testing.T) {
	answers := models.NewProfileAnswers()
	answers.SetSingle("situation_maritale_client", "Marié(e)")

	Degrade(answers, "situation_maritale_client", "euh je sais plus")

	_, hasLibre := answers.GetLibre("situation_maritale_client")
	assert.False(t, hasLibre)
	v, _ := answers.Get("situation_maritale_client")
	assert.Equal(t, "Marié(e)", v.Single)
}

func TestDegrade_StoresRawTextVerbatim(t *testing.T) {
	answers := models.NewProfileAnswers()
	Degrade(answers, "objectifs_fiscaux", "bon ben je sais pas trop")

	text, ok := answers.GetLibre("objectifs_fiscaux")
	require.True(t, ok)
	assert.Equal(t, "bon ben je sais pas trop", text)
}
