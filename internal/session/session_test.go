// internal/session/session_test.go
package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"francis-backend/pkg/questionnaire"
)

func TestSession_WalksQuestionnaireToCompletion(t *testing.T) {
	q := questionnaire.Default()
	sess := New("user-1")

	require.Equal(t, PhaseAsking, sess.Phase)

	for i := 0; i < q.Len(); i++ {
		current, ok := sess.CurrentQuestion(q)
		require.True(t, ok)
		expected, _ := q.At(i)
		assert.Equal(t, expected.ID, current.ID)

		require.True(t, sess.BeginExtracting())
		assert.Equal(t, PhaseExtracting, sess.Phase)
		sess.FinishExtracting(q, true)
	}

	assert.Equal(t, PhaseComplete, sess.Phase)
	_, ok := sess.CurrentQuestion(q)
	assert.False(t, ok)
}

func TestSession_NoAdvanceKeepsCurrentQuestion(t *testing.T) {
	q := questionnaire.Default()
	sess := New("user-1")

	require.True(t, sess.BeginExtracting())
	sess.FinishExtracting(q, false)

	assert.Equal(t, PhaseAsking, sess.Phase)
	assert.Equal(t, 0, sess.QuestionIndex)
}

func TestSession_BeginExtractingRejectsReentry(t *testing.T) {
	sess := New("user-1")

	require.True(t, sess.BeginExtracting())
	assert.False(t, sess.BeginExtracting(), "a fragment is already in flight")
}

func TestSession_ContextKeepsLastThreeEntries(t *testing.T) {
	sess := New("user-1")

	for _, text := range []string{"a", "b", "c", "d"} {
		sess.PushContext(text)
	}

	assert.Equal(t, []string{"b", "c", "d"}, sess.Context)
}

func TestSession_ListeningOrthogonalToPhase(t *testing.T) {
	q := questionnaire.Default()
	sess := New("user-1")

	sess.SetListening(true)
	require.True(t, sess.BeginExtracting())
	assert.True(t, sess.Listening, "extraction does not stop the microphone")

	sess.FinishExtracting(q, false)
	assert.True(t, sess.Listening)
}

func TestSession_CompletionStopsListening(t *testing.T) {
	q := questionnaire.Default()
	sess := New("user-1")
	sess.SetListening(true)
	sess.QuestionIndex = q.Len() - 1

	require.True(t, sess.BeginExtracting())
	sess.FinishExtracting(q, true)

	assert.Equal(t, PhaseComplete, sess.Phase)
	assert.False(t, sess.Listening)

	sess.SetListening(true)
	assert.False(t, sess.Listening, "completed sessions stay muted")
}

func TestSession_MessageHistoryIsBounded(t *testing.T) {
	sess := New("user-1")

	for i := 0; i < maxMessages+5; i++ {
		sess.AppendMessage("user", "message")
	}

	assert.Len(t, sess.Messages, maxMessages)
}
