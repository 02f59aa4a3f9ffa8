// internal/extraction/keywordmapper/mapper.go
// Package keywordmapper turns free text into structured questionnaire
// answers using hand-authored per-question keyword rules. It is the first,
// cheap stage of the extraction pipeline; anything it cannot match is
// delegated to the remote semantic extractor.
package keywordmapper

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const questionChildren = "nombre_enfants_a_charge_client"

var digitRe = regexp.MustCompile(`\b(\d{1,2})\b`)

// Result is a structured match for one question.
type Result struct {
	QuestionID string
	Single     string
	Multi      []string
}

// IsMulti reports whether the result carries a multi-choice value.
func (r Result) IsMulti() bool {
	return len(r.Multi) > 0
}

// Map scans free text against the rule set of the given question. The second
// return value is false when no rule matched, in which case the caller should
// fall back to the semantic extractor.
//
// Multi-choice questions collect every matching value in one pass. A matched
// negative ("aucun"/"aucune") rule wins over positives collected in the same
// pass and collapses the result to the singleton negative answer: a user
// saying "non, aucun" is taken as correcting themselves.
func Map(questionID, text string) (Result, bool) {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return Result{}, false
	}

	if questionID == questionChildren {
		return mapChildrenCount(lowered)
	}

	set, ok := ruleSets[questionID]
	if !ok {
		return Result{}, false
	}

	if !set.multi {
		for _, r := range set.rules {
			if anyKeyword(lowered, r.keywords) {
				return Result{QuestionID: questionID, Single: r.value}, true
			}
		}
		return Result{}, false
	}

	var matches []string
	for _, r := range set.rules {
		if !anyKeyword(lowered, r.keywords) {
			continue
		}
		if r.negative {
			// None wins within the same scan.
			return Result{QuestionID: questionID, Multi: []string{r.value}}, true
		}
		matches = append(matches, r.value)
	}
	if len(matches) == 0 {
		return Result{}, false
	}
	return Result{QuestionID: questionID, Multi: matches}, true
}

// HasRules reports whether a question has a keyword rule set (or the numeric
// children-count handler).
func HasRules(questionID string) bool {
	if questionID == questionChildren {
		return true
	}
	_, ok := ruleSets[questionID]
	return ok
}

func mapChildrenCount(lowered string) (Result, bool) {
	if strings.Contains(lowered, "pas d'enfant") ||
		strings.Contains(lowered, "pas d enfant") ||
		strings.Contains(lowered, "aucun enfant") ||
		strings.Contains(lowered, "sans enfant") {
		return Result{QuestionID: questionChildren, Single: "0"}, true
	}

	if m := digitRe.FindStringSubmatch(lowered); m != nil {
		return Result{QuestionID: questionChildren, Single: m[1]}, true
	}

	// Spelled-out numbers need word boundaries: "un" is a substring of
	// "aucun", "chacun"...
	for _, token := range tokenize(lowered) {
		if n, ok := frenchNumbers[token]; ok {
			return Result{QuestionID: questionChildren, Single: strconv.Itoa(n)}, true
		}
	}
	return Result{}, false
}

func anyKeyword(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
