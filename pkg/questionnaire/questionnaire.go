// pkg/questionnaire/questionnaire.go
package questionnaire

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Load reads a questionnaire from a JSON file and validates it against the
// embedded schema.
func Load(path string) (*Questionnaire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates and decodes a questionnaire document.
func Parse(data []byte) (*Questionnaire, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(jsonSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("invalid questionnaire: %s", result.Errors()[0].String())
	}

	var q Questionnaire
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		if seen[question.ID] {
			return nil, fmt.Errorf("duplicate question id %q", question.ID)
		}
		seen[question.ID] = true
	}
	return &q, nil
}

// ByID returns the question with the given id.
func (q *Questionnaire) ByID(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// At returns the question at position i.
func (q *Questionnaire) At(i int) (Question, bool) {
	if i < 0 || i >= len(q.Questions) {
		return Question{}, false
	}
	return q.Questions[i], true
}

// Len returns the number of questions.
func (q *Questionnaire) Len() int {
	return len(q.Questions)
}

// Default returns the compiled-in onboarding questionnaire. Its question ids
// match the keyword mapper's rule sets.
func Default() *Questionnaire {
	return &Questionnaire{
		Version: "2025.1",
		Questions: []Question{
			{
				ID:     "situation_maritale_client",
				Label:  "Situation maritale",
				Prompt: "Quelle est votre situation maritale ?",
				Kind:   KindSingle,
				EnumValues: []string{
					"Marié(e)", "Pacsé(e)", "Divorcé(e)", "Veuf(ve)",
					"Concubinage", "Célibataire",
				},
			},
			{
				ID:     "nombre_enfants_a_charge_client",
				Label:  "Enfants à charge",
				Prompt: "Combien d'enfants avez-vous à charge ?",
				Kind:   KindSingle,
			},
			{
				ID:     "activite_principale",
				Label:  "Activité principale",
				Prompt: "Quelle est votre activité professionnelle principale ?",
				Kind:   KindSingle,
				EnumValues: []string{
					"salarie", "independant", "chef_entreprise", "retraite",
					"sans_activite", "etudiant",
				},
			},
			{
				ID:     "revenus_complementaires",
				Label:  "Revenus complémentaires",
				Prompt: "Percevez-vous des revenus complémentaires (loyers, dividendes, pensions...) ?",
				Kind:   KindMulti,
				EnumValues: []string{
					"revenus_fonciers", "dividendes", "plus_values", "pensions", "aucun",
				},
				NegativeValue: "aucun",
			},
			{
				ID:     "statuts_juridiques",
				Label:  "Structures juridiques",
				Prompt: "Détenez-vous des structures juridiques (SCI, SARL, SAS...) ?",
				Kind:   KindMulti,
				EnumValues: []string{
					"sci", "sarl", "sas", "eurl", "micro", "aucune",
				},
				NegativeValue: "aucune",
			},
			{
				ID:     "residence_fiscale",
				Label:  "Résidence fiscale",
				Prompt: "Quelle est votre résidence fiscale ?",
				Kind:   KindSingle,
				EnumValues: []string{"france", "etranger"},
			},
			{
				ID:     "patrimoine_situation",
				Label:  "Patrimoine",
				Prompt: "Comment décririez-vous votre patrimoine actuel ?",
				Kind:   KindMulti,
				EnumValues: []string{
					"proprietaire", "locatif", "assurance_vie", "bourse", "crypto", "aucun",
				},
				NegativeValue: "aucun",
			},
			{
				ID:     "objectifs_fiscaux",
				Label:  "Objectifs",
				Prompt: "Quels sont vos objectifs fiscaux prioritaires ?",
				Kind:   KindMulti,
				EnumValues: []string{
					"reduire_impots", "preparer_retraite", "transmettre", "investir", "aucun",
				},
				NegativeValue: "aucun",
			},
		},
	}
}
