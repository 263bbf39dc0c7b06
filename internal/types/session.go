package types

import (
	"time"
)

// Phase is the closed set of conversation states. The deprecated whole-trip
// phases from the first iteration of the agent parse to their day-wise
// equivalents instead of surviving as distinct states.
type Phase string

const (
	PhaseGreeting      Phase = "greeting"
	PhaseGatheringInfo Phase = "gathering_info"
	PhaseGeneratingDay Phase = "generating_day"
	PhaseRefiningDay   Phase = "refining_day"
	PhaseCompleted     Phase = "completed"
)

// ParsePhase normalizes stored phase strings, routing the legacy
// "generating_plan"/"refining" names onto the single-day states.
func ParsePhase(s string) Phase {
	switch Phase(s) {
	case PhaseGreeting, PhaseGatheringInfo, PhaseGeneratingDay, PhaseRefiningDay, PhaseCompleted:
		return Phase(s)
	}
	switch s {
	case "generating_plan":
		return PhaseGeneratingDay
	case "refining":
		return PhaseRefiningDay
	}
	return PhaseGreeting
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ConversationMessage is one turn of the chat history kept on the session.
type ConversationMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// SessionState is the per-conversation working state. It is only ever touched
// by the request currently holding the session lock.
type SessionState struct {
	ID          string                `json:"id"`
	Facts       TripFacts             `json:"facts"`
	History     []ConversationMessage `json:"history"`
	Spots       []CandidateSpot       `json:"spots"`       // pool from the search collaborator
	RankedSpots []ScoredSpot          `json:"ranked_spots"` // scored + balanced, fixed for the session
	Hotspots    []Hotspot             `json:"hotspots"`
	Itinerary   Itinerary             `json:"itinerary"`
	Phase       Phase                 `json:"phase"`
	DayIndex    int                   `json:"day_index"`
	DayApproved bool                  `json:"day_approved"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// AppendMessage records a turn on the conversation history.
func (s *SessionState) AppendMessage(role MessageRole, content string) {
	s.History = append(s.History, ConversationMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	s.UpdatedAt = time.Now()
}

// LastUserMessage returns the most recent user utterance, or "".
func (s *SessionState) LastUserMessage() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == RoleUser {
			return s.History[i].Content
		}
	}
	return ""
}

// HotActivity is the simplified hotspot shape pushed to the frontend side list.
type HotActivity struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Link  string `json:"link"`
	Hot   bool   `json:"hot"`
}

// FrontendUpdates carries the side-panel refreshes attached to a chat reply.
type FrontendUpdates struct {
	UpdateItinerary     []DayPlan       `json:"updateItinerary,omitempty"`
	UpdateFeaturedSpots []CandidateSpot `json:"updateFeaturedSpots,omitempty"`
	UpdateHotActivities []HotActivity   `json:"updateHotActivities,omitempty"`
}

// ChatRequest is the body of one conversation turn.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// ChatResponse is the assistant reply plus any frontend refreshes.
type ChatResponse struct {
	SessionID string           `json:"sessionId"`
	Reply     string           `json:"reply"`
	Phase     Phase            `json:"phase"`
	Updates   *FrontendUpdates `json:"frontendUpdates,omitempty"`
}
