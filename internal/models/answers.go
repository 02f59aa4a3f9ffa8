// internal/models/answers.go
package models

const libreSuffix = "_libre"

// AnswerValue holds one questionnaire answer: either a single enumerated
// token or a set of tokens, never both.
type AnswerValue struct {
	Single string   `json:"single,omitempty"`
	Multi  []string `json:"multi,omitempty"`
}

// IsZero reports whether no structured value is set.
func (v AnswerValue) IsZero() bool {
	return v.Single == "" && len(v.Multi) == 0
}

// ProfileAnswers maps question ids to structured answers, with per-question
// free-text fallbacks under "<question_id>_libre". A question's structured
// value and its free-text fallback are mutually exclusive: setting a
// structured value clears the fallback, and a fallback never replaces an
// existing structured value.
type ProfileAnswers struct {
	Values map[string]AnswerValue `json:"values,omitempty"`
	Libre  map[string]string      `json:"libre,omitempty"`
}

func NewProfileAnswers() *ProfileAnswers {
	return &ProfileAnswers{
		Values: make(map[string]AnswerValue),
		Libre:  make(map[string]string),
	}
}

// SetSingle records a single-choice answer, clearing any free-text fallback.
func (a *ProfileAnswers) SetSingle(questionID, value string) {
	a.ensure()
	a.Values[questionID] = AnswerValue{Single: value}
	delete(a.Libre, questionID+libreSuffix)
}

// SetMulti records a multi-choice answer, clearing any free-text fallback.
// Duplicate tokens are collapsed so repeated merges stay idempotent.
func (a *ProfileAnswers) SetMulti(questionID string, values []string) {
	a.ensure()
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	a.Values[questionID] = AnswerValue{Multi: out}
	delete(a.Libre, questionID+libreSuffix)
}

// SetLibre stores raw unparsed text for a question. It is a no-op when a
// structured value already exists: a free-text guess never overwrites a
// previously structured answer.
func (a *ProfileAnswers) SetLibre(questionID, text string) {
	a.ensure()
	if v, ok := a.Values[questionID]; ok && !v.IsZero() {
		return
	}
	a.Libre[questionID+libreSuffix] = text
}

// Get returns the structured answer for a question, if any.
func (a *ProfileAnswers) Get(questionID string) (AnswerValue, bool) {
	if a.Values == nil {
		return AnswerValue{}, false
	}
	v, ok := a.Values[questionID]
	if !ok || v.IsZero() {
		return AnswerValue{}, false
	}
	return v, true
}

// GetLibre returns the free-text fallback for a question, if any.
func (a *ProfileAnswers) GetLibre(questionID string) (string, bool) {
	if a.Libre == nil {
		return "", false
	}
	t, ok := a.Libre[questionID+libreSuffix]
	return t, ok
}

func (a *ProfileAnswers) ensure() {
	if a.Values == nil {
		a.Values = make(map[string]AnswerValue)
	}
	if a.Libre == nil {
		a.Libre = make(map[string]string)
	}
}
