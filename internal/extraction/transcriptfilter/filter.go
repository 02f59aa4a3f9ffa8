// internal/extraction/transcriptfilter/filter.go
// Package transcriptfilter gates raw speech-recognition hypotheses before
// they reach the extraction pipeline. The browser callback shape is kept out
// of this package: callers feed typed Hypothesis/ProviderError events in and
// receive typed Events out.
package transcriptfilter

import (
	"strings"
	"time"
	"unicode"
)

// Adaptive threshold levels. After each confidence-checked sample the
// threshold tightens under noisy input and relaxes when recognition is clean.
const (
	thresholdStrict     = 0.6
	thresholdModerate   = 0.4
	thresholdPermissive = 0.3

	minTextLength = 3

	// Provider restart policy.
	consecutiveFailureLimit = 3
	failureWindow           = 2 * time.Second
	nonTrivialErrorLimit    = 2
)

// Hypothesis is one speech-recognition result fragment.
type Hypothesis struct {
	Text       string
	Confidence float64
	IsFinal    bool
}

// ProviderError is an error reported by the speech provider.
type ProviderError struct {
	Code string // e.g. "no-speech", "aborted", "network", "audio-capture"
	At   time.Time
}

type EventType string

const (
	// EventTranscript carries the full accumulated final transcript after a
	// final hypothesis was accepted.
	EventTranscript EventType = "transcript"
	// EventPreview carries accumulated transcript plus the interim fragment.
	EventPreview EventType = "preview"
	// EventRejected reports a dropped fragment.
	EventRejected EventType = "rejected"
	// EventRestart asks the caller to restart the provider.
	EventRestart EventType = "restart"
	// EventError surfaces a provider failure to the caller.
	EventError EventType = "error"
	// EventNone means the input produced nothing actionable.
	EventNone EventType = "none"
)

type Event struct {
	Type EventType
	// Text is the accumulated transcript (EventTranscript), the live preview
	// (EventPreview), or the dropped fragment (EventRejected).
	Text   string
	Reason string
}

// Filter applies the confidence gate and accumulates accepted final
// fragments. Not safe for concurrent use; the dictation stream owning it is
// single-writer.
type Filter struct {
	threshold float64
	finals    []string

	consecutiveFailures int
	firstFailureAt      time.Time
	nonTrivialErrors    int
}

func New() *Filter {
	return &Filter{threshold: thresholdPermissive}
}

// Threshold returns the currently active confidence threshold.
func (f *Filter) Threshold() float64 {
	return f.threshold
}

// Transcript returns the space-joined accumulated final transcript.
func (f *Filter) Transcript() string {
	return strings.Join(f.finals, " ")
}

// Offer runs one hypothesis through the gate.
func (f *Filter) Offer(h Hypothesis) Event {
	text := strings.TrimSpace(h.Text)
	if len([]rune(text)) < minTextLength {
		return Event{Type: EventRejected, Text: text, Reason: "too short"}
	}
	if !hasLetter(text) {
		return Event{Type: EventRejected, Text: text, Reason: "no alphabetic content"}
	}

	accepted := h.Confidence >= f.threshold
	f.adapt(h.Confidence)
	if !accepted {
		return Event{Type: EventRejected, Text: text, Reason: "below confidence threshold"}
	}

	if h.IsFinal {
		f.finals = append(f.finals, text)
		return Event{Type: EventTranscript, Text: f.Transcript()}
	}

	preview := f.Transcript()
	if preview != "" {
		preview += " "
	}
	return Event{Type: EventPreview, Text: preview + text}
}

// adapt retunes the threshold after every sample that reached the confidence
// check. Sustained low-confidence input tightens the gate; clean input
// relaxes it back to permissive.
func (f *Filter) adapt(confidence float64) {
	switch {
	case confidence < 0.5:
		f.threshold = thresholdStrict
	case confidence < 0.7:
		f.threshold = thresholdModerate
	default:
		f.threshold = thresholdPermissive
	}
}

// OnProviderError applies the provider error policy. "no-speech" and
// "aborted" are benign and never surfaced. Three consecutive capture
// failures inside a 2 s window request a provider restart; past that, more
// than two non-trivial errors surface an error to the caller.
func (f *Filter) OnProviderError(e ProviderError) Event {
	if e.Code == "no-speech" || e.Code == "aborted" {
		return Event{Type: EventNone}
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	if f.consecutiveFailures == 0 || e.At.Sub(f.firstFailureAt) > failureWindow {
		f.consecutiveFailures = 0
		f.firstFailureAt = e.At
	}
	f.consecutiveFailures++
	f.nonTrivialErrors++

	if f.consecutiveFailures >= consecutiveFailureLimit {
		f.consecutiveFailures = 0
		return Event{Type: EventRestart, Reason: e.Code}
	}
	if f.nonTrivialErrors > nonTrivialErrorLimit {
		return Event{Type: EventError, Reason: e.Code}
	}
	return Event{Type: EventNone}
}

// OnResult resets the consecutive-failure streak after a successful capture.
func (f *Filter) OnResult() {
	f.consecutiveFailures = 0
}

// Stop emits the final accumulated transcript and resets the filter for the
// next dictation.
func (f *Filter) Stop() Event {
	transcript := f.Transcript()
	f.Reset()
	return Event{Type: EventTranscript, Text: transcript}
}

// ClearTranscript drops the accumulated finals once a consumer has processed
// them. The adaptive threshold and error bookkeeping survive, so the next
// utterance on the same stream keeps the tuned gate.
func (f *Filter) ClearTranscript() {
	f.finals = nil
}

// Reset clears all accumulated state, threshold included.
func (f *Filter) Reset() {
	f.threshold = thresholdPermissive
	f.finals = nil
	f.consecutiveFailures = 0
	f.nonTrivialErrors = 0
	f.firstFailureAt = time.Time{}
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
