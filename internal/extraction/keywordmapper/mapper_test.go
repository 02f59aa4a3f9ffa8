// internal/extraction/keywordmapper/mapper_test.go
package keywordmapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Single-choice questions
// ==========================

func TestMap_SingleChoice(t *testing.T) {
	tests := []struct {
		name       string
		questionID string
		text       string
		want       string
	}{
		{
			name:       "marital status from dictated sentence",
			questionID: "situation_maritale_client",
			text:       "je suis marié avec deux enfants",
			want:       "Marié(e)",
		},
		{
			name:       "pacs wins over marriage wording",
			questionID: "situation_maritale_client",
			text:       "on est pacsés, c'est comme mariés",
			want:       "Pacsé(e)",
		},
		{
			name:       "single",
			questionID: "situation_maritale_client",
			text:       "Célibataire",
			want:       "Célibataire",
		},
		{
			name:       "salaried worker",
			questionID: "activite_principale",
			text:       "je suis salarié en CDI",
			want:       "salarie",
		},
		{
			name:       "independent before salaried",
			questionID: "activite_principale",
			text:       "auto-entrepreneur depuis deux ans",
			want:       "independant",
		},
		{
			name:       "retired",
			questionID: "activite_principale",
			text:       "je suis à la retraite",
			want:       "retraite",
		},
		{
			name:       "fiscal residence abroad",
			questionID: "residence_fiscale",
			text:       "je vis à l'étranger, je suis expatrié",
			want:       "etranger",
		},
		{
			name:       "fiscal residence france",
			questionID: "residence_fiscale",
			text:       "j'habite en France",
			want:       "france",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Map(tt.questionID, tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, result.Single)
			assert.Empty(t, result.Multi)
		})
	}
}

func TestMap_NoMatchFallsThrough(t *testing.T) {
	for _, questionID := range []string{
		"situation_maritale_client",
		"activite_principale",
		"revenus_complementaires",
		"statuts_juridiques",
		"patrimoine_situation",
		"objectifs_fiscaux",
		"nombre_enfants_a_charge_client",
	} {
		t.Run(questionID, func(t *testing.T) {
			_, ok := Map(questionID, "bon ben je sais pas trop")
			assert.False(t, ok, "unstructured text must not produce a match")
		})
	}
}

func TestMap_UnknownQuestionID(t *testing.T) {
	_, ok := Map("question_inconnue", "je suis marié")
	assert.False(t, ok)
	assert.False(t, HasRules("question_inconnue"))
	assert.True(t, HasRules("situation_maritale_client"))
}

// ==========================
// Multi-choice questions
// ==========================

func TestMap_MultiChoiceCollectsAllMatches(t *testing.T) {
	result, ok := Map("revenus_complementaires", "je touche des loyers et des dividendes")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"revenus_fonciers", "dividendes"}, result.Multi)
	assert.True(t, result.IsMulti())
}

func TestMap_NoneWinsWithinSameScan(t *testing.T) {
	// Positive and negative keywords in the same utterance: the negative
	// answer collapses the result to the singleton.
	result, ok := Map("revenus_complementaires", "des loyers... non en fait aucun revenu en plus")
	require.True(t, ok)
	assert.Equal(t, []string{"aucun"}, result.Multi)

	result, ok = Map("statuts_juridiques", "une SCI ? non, aucune société")
	require.True(t, ok)
	assert.Equal(t, []string{"aucune"}, result.Multi)
}

func TestMap_LegalStructures(t *testing.T) {
	result, ok := Map("statuts_juridiques", "j'ai une SCI et une SARL")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"sci", "sarl"}, result.Multi)
}

func TestMap_PatrimoineAndObjectives(t *testing.T) {
	result, ok := Map("patrimoine_situation", "propriétaire de ma maison, un peu de crypto")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"proprietaire", "crypto"}, result.Multi)

	result, ok = Map("objectifs_fiscaux", "je veux payer moins d'impôts et préparer ma retraite")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"reduire_impots", "preparer_retraite"}, result.Multi)
}

// ==========================
// Children count extraction
// ==========================

func TestMap_ChildrenCount(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"j'ai 3 enfants", "3"},
		{"deux enfants à charge", "2"},
		{"je n'ai pas d'enfant", "0"},
		{"aucun enfant", "0"},
		{"une fille", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result, ok := Map("nombre_enfants_a_charge_client", tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.want, result.Single)
		})
	}
}

func TestMap_ChildrenCount_AucunIsNotUn(t *testing.T) {
	// "aucun" contains "un"; the tokenizer must not read it as 1.
	result, ok := Map("nombre_enfants_a_charge_client", "aucun enfant")
	require.True(t, ok)
	assert.Equal(t, "0", result.Single)
}

func TestMap_CaseInsensitive(t *testing.T) {
	result, ok := Map("situation_maritale_client", "MARIÉ")
	require.True(t, ok)
	assert.Equal(t, "Marié(e)", result.Single)
}
