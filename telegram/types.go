package telegram

import (
	"sync"
	"time"
)

const (
	StepSelectingSpeaker     = "selecting_speaker"
	StepAwaitingQuestion     = "awaiting_question"
	StepConfirmingQuestion   = "confirming_question"
	StepAwaitingCustomAmount = "awaiting_custom_amount"
	StepAwaitingAnswer       = "awaiting_answer"
)

type BotConversationState struct {
	Command string
	Step    string
	Data    map[string]string
	Started time.Time
}

// conversationStore keeps per-user flow state in process memory, so the bot
// assumes a single running instance.
type conversationStore struct {
	mu       sync.RWMutex
	sessions map[int64]*BotConversationState
}

var conversations = &conversationStore{
	sessions: make(map[int64]*BotConversationState),
}

func (s *conversationStore) Begin(userID int64, command, step string) *BotConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &BotConversationState{
		Command: command,
		Step:    step,
		Data:    make(map[string]string),
		Started: time.Now(),
	}
	s.sessions[userID] = session
	return session
}

func (s *conversationStore) Get(userID int64) *BotConversationState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

func (s *conversationStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
