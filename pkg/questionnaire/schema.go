// pkg/questionnaire/schema.go
package questionnaire

// Kind distinguishes single-choice from multi-choice questions.
type Kind string

const (
	KindSingle Kind = "single"
	KindMulti  Kind = "multi"
)

type Questionnaire struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Prompt     string   `json:"prompt"`
	Kind       Kind     `json:"kind"`
	EnumValues []string `json:"enumValues,omitempty"`
	// NegativeValue is the "aucun"/"aucune" token for multi-choice questions.
	NegativeValue string `json:"negativeValue,omitempty"`
}

// jsonSchema validates questionnaires loaded from disk.
const jsonSchema = `{
  "type": "object",
  "required": ["version", "questions"],
  "properties": {
    "version": {"type": "string"},
    "lastUpdated": {"type": "string"},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "label", "prompt", "kind"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "label": {"type": "string"},
          "prompt": {"type": "string"},
          "kind": {"type": "string", "enum": ["single", "multi"]},
          "enumValues": {"type": "array", "items": {"type": "string"}},
          "negativeValue": {"type": "string"}
        }
      }
    }
  }
}`
