// internal/server/handlers_voice.go
package server

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"

	"francis-backend/internal/common/logger"
	"francis-backend/internal/common/metrics"
	"francis-backend/internal/extraction/transcriptfilter"
	"francis-backend/internal/session"
)

type VoiceHandler struct {
	container *Container
	logger    logger.Logger
}

func NewVoiceHandler(c *Container) *VoiceHandler {
	return &VoiceHandler{
		container: c,
		logger:    c.Logger.WithFields(map[string]interface{}{"component": "voice-stream"}),
	}
}

// voiceMessage is one inbound websocket frame.
type voiceMessage struct {
	Type       string  `json:"type"` // start | hypothesis | provider_error | result | stop
	SessionID  string  `json:"session_id,omitempty"`
	UserID     string  `json:"user_id,omitempty"`
	Text       string  `json:"text,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	IsFinal    bool    `json:"is_final,omitempty"`
	Code       string  `json:"code,omitempty"`
}

// voiceResponse is one outbound websocket frame.
type voiceResponse struct {
	Type      string                 `json:"type"`
	Text      string                 `json:"text,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Question  string                 `json:"question,omitempty"`
	Phase     string                 `json:"phase,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// voiceConn is the slice of *websocket.Conn the handler needs; tests drive
// the loop with a scripted implementation.
type voiceConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

// HandleStream drives one dictation session: hypotheses flow through the
// confidence filter, accepted transcripts through the extraction pipeline,
// and the session advances question by question.
func (h *VoiceHandler) HandleStream(conn *websocket.Conn) {
	metrics.ActiveVoiceSessions.Inc()
	defer metrics.ActiveVoiceSessions.Dec()
	defer conn.Close()

	h.run(conn)
}

func (h *VoiceHandler) run(conn voiceConn) {
	filter := transcriptfilter.New()
	var sess *session.Session

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			h.persistSession(sess)
			return
		}

		var msg voiceMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.send(conn, voiceResponse{Type: "error", Reason: "message illisible"})
			continue
		}

		switch msg.Type {
		case "start":
			sess = h.startSession(conn, &msg)
		case "hypothesis":
			h.onHypothesis(conn, filter, sess, &msg)
		case "provider_error":
			event := filter.OnProviderError(transcriptfilter.ProviderError{Code: msg.Code, At: time.Now()})
			h.forwardFilterEvent(conn, event, sess)
		case "result":
			filter.OnResult()
		case "stop":
			event := filter.Stop()
			if event.Text != "" {
				h.extract(conn, sess, event.Text)
			}
			if sess != nil {
				sess.SetListening(false)
			}
			h.persistSession(sess)
			h.send(conn, voiceResponse{Type: "stopped"})
		default:
			h.send(conn, voiceResponse{Type: "error", Reason: "type de message inconnu"})
		}
	}
}

func (h *VoiceHandler) startSession(conn voiceConn, msg *voiceMessage) *session.Session {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var sess *session.Session
	if msg.SessionID != "" {
		loaded, err := h.container.Sessions.Load(ctx, msg.SessionID)
		if err == nil {
			sess = loaded
		}
	}
	if sess == nil {
		sess = session.New(msg.UserID)
	}
	sess.SetListening(true)
	h.persistSession(sess)

	resp := voiceResponse{Type: "started", SessionID: sess.ID, Phase: string(sess.Phase)}
	if question, ok := sess.CurrentQuestion(h.container.Questionnaire); ok {
		resp.Question = question.Prompt
	}
	h.send(conn, resp)
	return sess
}

func (h *VoiceHandler) onHypothesis(conn voiceConn, filter *transcriptfilter.Filter, sess *session.Session, msg *voiceMessage) {
	event := filter.Offer(transcriptfilter.Hypothesis{
		Text:       msg.Text,
		Confidence: msg.Confidence,
		IsFinal:    msg.IsFinal,
	})

	switch event.Type {
	case transcriptfilter.EventRejected:
		metrics.TranscriptsFiltered.WithLabelValues("rejected").Inc()
		h.send(conn, voiceResponse{Type: "rejected", Text: event.Text, Reason: event.Reason})
	case transcriptfilter.EventPreview:
		h.send(conn, voiceResponse{Type: "preview", Text: event.Text})
	case transcriptfilter.EventTranscript:
		metrics.TranscriptsFiltered.WithLabelValues("accepted").Inc()
		h.send(conn, voiceResponse{Type: "transcript", Text: event.Text})
		h.extract(conn, sess, event.Text)
		// The transcript has been consumed; the accumulator must not leak
		// into the next utterance or the stop frame.
		filter.ClearTranscript()
	}
}

func (h *VoiceHandler) forwardFilterEvent(conn voiceConn, event transcriptfilter.Event, sess *session.Session) {
	switch event.Type {
	case transcriptfilter.EventRestart:
		h.send(conn, voiceResponse{Type: "restart", Reason: event.Reason})
	case transcriptfilter.EventError:
		if sess != nil {
			sess.SetListening(false)
			h.persistSession(sess)
		}
		h.send(conn, voiceResponse{Type: "error", Reason: event.Reason})
	}
}

// extract runs one accepted transcript through the pipeline and advances the
// session.
func (h *VoiceHandler) extract(conn voiceConn, sess *session.Session, text string) {
	if sess == nil {
		return
	}
	question, ok := sess.CurrentQuestion(h.container.Questionnaire)
	if !ok {
		return
	}
	if !sess.BeginExtracting() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	outcome := h.container.Pipeline.Process(ctx, sess.Answers, question.ID, text, sess.Context)
	sess.PushContext(text)
	sess.FinishExtracting(h.container.Questionnaire, outcome.Advance)
	h.persistSession(sess)

	data := make(map[string]interface{}, len(outcome.AppliedQuestions))
	for _, id := range outcome.AppliedQuestions {
		if value, ok := sess.Answers.Get(id); ok {
			if len(value.Multi) > 0 {
				data[id] = value.Multi
			} else {
				data[id] = value.Single
			}
		}
	}

	resp := voiceResponse{
		Type:      "extracted",
		SessionID: sess.ID,
		Phase:     string(sess.Phase),
		Data:      data,
	}
	if next, ok := sess.CurrentQuestion(h.container.Questionnaire); ok {
		resp.Question = next.Prompt
	}
	h.send(conn, resp)
}

func (h *VoiceHandler) persistSession(sess *session.Session) {
	if sess == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.container.Sessions.Save(ctx, sess); err != nil {
		h.logger.Error("session save failed", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
	}
}

func (h *VoiceHandler) send(conn voiceConn, resp voiceResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.logger.Warn("websocket write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
