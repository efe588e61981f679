package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStore(t *testing.T) {
	store := &conversationStore{sessions: make(map[int64]*BotConversationState)}

	assert.Nil(t, store.Get(1))

	session := store.Begin(1, "ask", StepSelectingSpeaker)
	session.Data["speaker"] = "alice"

	got := store.Get(1)
	require.NotNil(t, got)
	assert.Equal(t, "ask", got.Command)
	assert.Equal(t, StepSelectingSpeaker, got.Step)
	assert.Equal(t, "alice", got.Data["speaker"])

	// Other users are isolated.
	assert.Nil(t, store.Get(2))

	// Beginning a new flow replaces the previous session wholesale.
	store.Begin(1, "donate", StepAwaitingCustomAmount)
	got = store.Get(1)
	assert.Equal(t, "donate", got.Command)
	assert.Empty(t, got.Data)

	store.Clear(1)
	assert.Nil(t, store.Get(1))

	// Clearing an absent session is a no-op.
	store.Clear(1)
}

func TestQuestionFlowStepTransitions(t *testing.T) {
	store := &conversationStore{sessions: make(map[int64]*BotConversationState)}

	session := store.Begin(7, "ask", StepSelectingSpeaker)

	// Speaker pick.
	session.Data["speaker"] = "alice"
	session.Step = StepAwaitingQuestion

	// Free text becomes the pending question.
	session.Data["question"] = "Почему Go?"
	session.Step = StepConfirmingQuestion

	got := store.Get(7)
	assert.Equal(t, StepConfirmingQuestion, got.Step)
	assert.Equal(t, "alice", got.Data["speaker"])
	assert.Equal(t, "Почему Go?", got.Data["question"])
}
