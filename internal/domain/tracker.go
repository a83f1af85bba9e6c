package domain

import (
	"fmt"
	"strings"
)

// Slot names exchanged with the dialogue manager.
const (
	SlotCourseCode        = "course_code"
	SlotSemester          = "semester"
	SlotStudentEmail      = "student_email"
	SlotNotificationType  = "notification_type"
	SlotConversationEnded = "conversation_ended"
)

// Tracker is the conversation state posted by the dialogue manager for one turn.
type Tracker struct {
	SenderID      string         `json:"sender_id"`
	Slots         map[string]any `json:"slots"`
	LatestMessage *Message       `json:"latest_message,omitempty"`
}

// Message is the most recent user utterance as parsed upstream.
type Message struct {
	Text   string  `json:"text"`
	Intent *Intent `json:"intent,omitempty"`
}

// Intent is the classified intent of a user message.
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Slot returns the raw slot value, or nil when absent.
func (t *Tracker) Slot(name string) any {
	if t == nil || t.Slots == nil {
		return nil
	}
	return t.Slots[name]
}

// SlotString returns a slot rendered as a trimmed string.
// Absent and null slots return "". Numbers are formatted without a trailing ".0".
func (t *Tracker) SlotString(name string) string {
	switch v := t.Slot(name).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Event is an instruction returned to the dialogue manager.
type Event struct {
	Event string `json:"event"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// SlotSet builds a slot event. A nil value clears the slot.
func SlotSet(name string, value any) Event {
	return Event{Event: "slot", Name: name, Value: value}
}

// Response is a user-visible reply for the current turn.
type Response struct {
	Text string `json:"text"`
}
