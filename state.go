package reflexion

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ReflectionRecord is one entry of a session's reflection trace.
// Records are immutable once appended.
type ReflectionRecord struct {
	ReflectionNote string `json:"reflection_note"`
	NewSearchQuery string `json:"new_search_query,omitempty"`
	FinalAnswer    string `json:"final_answer,omitempty"`
	Stop           bool   `json:"stop"`
}

// SequenceState accumulates the trace of one reasoning session. It is
// owned by the caller that created it: create one per user question,
// pass it into each step, and discard it when the session ends. The
// pipeline only ever appends; existing entries are never rewritten.
// Concurrent sessions must each use their own instance.
type SequenceState struct {
	ID              string
	ReflectionTrace []ReflectionRecord
	Messages        []Message
}

// NewSequenceState creates an empty session trace with a fresh ID.
func NewSequenceState() *SequenceState {
	return &SequenceState{ID: uuid.NewString()}
}

// AppendReflection appends one record to the reflection trace.
func (s *SequenceState) AppendReflection(rec ReflectionRecord) {
	s.ReflectionTrace = append(s.ReflectionTrace, rec)
}

// AppendMessage appends one role/content entry to the message history.
func (s *SequenceState) AppendMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// Snapshot renders the trace for debugging.
func (s *SequenceState) Snapshot() string {
	var b strings.Builder
	b.WriteString("Session: ")
	b.WriteString(s.ID)
	for i, rec := range s.ReflectionTrace {
		b.WriteString(fmt.Sprintf("\n\n--- reflection %d (stop=%v) ---\n", i+1, rec.Stop))
		if rec.NewSearchQuery != "" {
			b.WriteString("new query: " + rec.NewSearchQuery + "\n")
		}
		if rec.FinalAnswer != "" {
			b.WriteString("final answer: " + rec.FinalAnswer + "\n")
		}
		b.WriteString(rec.ReflectionNote)
	}
	return b.String()
}
