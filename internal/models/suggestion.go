// internal/models/suggestion.go
package models

// SuggestionState is derived from the current profile on every mutation and
// is never persisted.
type SuggestionState struct {
	NextQuestions   []string `json:"next_questions"`
	CompletionRate  int      `json:"completion_rate"`
	Inconsistencies []string `json:"inconsistencies"`
	Stage           string   `json:"stage"`
}

// ChatMessage is one turn of a conversation with Francis.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
