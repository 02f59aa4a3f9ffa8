// internal/session/session.go
// Package session holds the per-user questionnaire conversation state and its
// Redis-backed store. A session walks the questionnaire one question at a
// time; the listening flag (voice dictation) is orthogonal to the phase.
package session

import (
	"time"

	"github.com/google/uuid"

	"francis-backend/internal/models"
	"francis-backend/pkg/questionnaire"
)

// Phase is the conversational state of a session.
type Phase string

const (
	// PhaseAsking means the assistant is waiting for an answer to the
	// question at QuestionIndex.
	PhaseAsking Phase = "ASKING"
	// PhaseExtracting means an answer fragment is in flight through the
	// extraction pipeline; incoming fragments are queued by the caller.
	PhaseExtracting Phase = "EXTRACTING"
	// PhaseComplete means every question has been visited.
	PhaseComplete Phase = "COMPLETE"
)

// Keep the last few answers as context for the semantic extractor. More
// history dilutes the prompt without improving extraction.
const maxContextEntries = 3

// Bound the chat history persisted with the session.
const maxMessages = 20

type Session struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"userId"`
	Phase         Phase                  `json:"phase"`
	QuestionIndex int                    `json:"questionIndex"`
	Listening     bool                   `json:"listening"`
	Answers       *models.ProfileAnswers `json:"answers"`
	Context       []string               `json:"context,omitempty"`
	Messages      []models.ChatMessage   `json:"messages,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func New(userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Phase:     PhaseAsking,
		Answers:   models.NewProfileAnswers(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CurrentQuestion returns the question the session is waiting on, or false
// when the questionnaire is complete.
func (s *Session) CurrentQuestion(q *questionnaire.Questionnaire) (questionnaire.Question, bool) {
	if s.Phase == PhaseComplete {
		return questionnaire.Question{}, false
	}
	return q.At(s.QuestionIndex)
}

// BeginExtracting marks an answer fragment as in flight. Returns false when
// the session is not waiting for an answer.
func (s *Session) BeginExtracting() bool {
	if s.Phase != PhaseAsking {
		return false
	}
	s.Phase = PhaseExtracting
	s.touch()
	return true
}

// FinishExtracting returns the session to the asking phase, advancing to the
// next question when the pipeline answered the current one.
func (s *Session) FinishExtracting(q *questionnaire.Questionnaire, advance bool) {
	if advance {
		s.QuestionIndex++
	}
	if s.QuestionIndex >= q.Len() {
		s.Phase = PhaseComplete
		s.Listening = false
	} else {
		s.Phase = PhaseAsking
	}
	s.touch()
}

// PushContext records an answered fragment for the semantic extractor,
// keeping only the most recent entries.
func (s *Session) PushContext(text string) {
	s.Context = append(s.Context, text)
	if len(s.Context) > maxContextEntries {
		s.Context = s.Context[len(s.Context)-maxContextEntries:]
	}
}

// AppendMessage records a chat turn, trimming the oldest beyond the cap.
func (s *Session) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, models.ChatMessage{Role: role, Content: content})
	if len(s.Messages) > maxMessages {
		s.Messages = s.Messages[len(s.Messages)-maxMessages:]
	}
	s.touch()
}

// SetListening toggles voice dictation. It has no effect on a completed
// session.
func (s *Session) SetListening(on bool) {
	if s.Phase == PhaseComplete {
		return
	}
	s.Listening = on
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
