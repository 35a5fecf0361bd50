package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(StateIdle, StateValidating))
	assert.True(t, canTransition(StateValidating, StateIdle))
	assert.True(t, canTransition(StateAwaitingConfirmation, StateTimedOut))

	assert.False(t, canTransition(StateIdle, StateSucceeded))
	assert.False(t, canTransition(StateSucceeded, StateValidating))
	assert.False(t, canTransition(StateCreatingOrder, StateSucceeded))
	assert.False(t, canTransition(StateFailed, StateIdle))
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateSucceeded, StateFailed, StateTimedOut} {
		assert.True(t, s.Terminal(), s)
	}
	for _, s := range []State{StateIdle, StateValidating, StateCreatingOrder, StateInitiatingPayment, StateAwaitingConfirmation} {
		assert.False(t, s.Terminal(), s)
	}
}
