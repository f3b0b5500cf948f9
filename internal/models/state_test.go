package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func processingState(queueLen int) *WorkflowState {
	st := NewWorkflowState("c1")
	st.Step = StepProcessing
	for i := 0; i < queueLen; i++ {
		st.Queue = append(st.Queue, Profile{
			Name:         "P",
			CanonicalURL: "https://www.linkedin.com/in/p",
		})
	}
	return st
}

func TestAlreadyProcessed(t *testing.T) {
	st := processingState(3)
	assert.False(t, st.AlreadyProcessed(0))

	st.RecordOutcome(ProcessedEntry{Index: 0, Outcome: OutcomeSent})
	assert.True(t, st.AlreadyProcessed(0))
	assert.False(t, st.AlreadyProcessed(1))
}

func TestRecordOutcomeBumpsExactlyOneCounter(t *testing.T) {
	st := processingState(4)

	st.RecordOutcome(ProcessedEntry{Index: 0, Outcome: OutcomeSent})
	assert.Equal(t, 1, st.SentCount)
	assert.Equal(t, 0, st.FailedCount)

	st.RecordOutcome(ProcessedEntry{Index: 1, Outcome: OutcomePossiblySent})
	assert.Equal(t, 2, st.SentCount)
	assert.Equal(t, 0, st.FailedCount)

	st.RecordOutcome(ProcessedEntry{Index: 2, Outcome: OutcomeFailed})
	assert.Equal(t, 2, st.SentCount)
	assert.Equal(t, 1, st.FailedCount)

	assert.Equal(t, len(st.Processed), st.SentCount+st.FailedCount)
}

func TestExhausted(t *testing.T) {
	st := processingState(2)
	assert.False(t, st.Exhausted())
	st.Cursor = 2
	assert.True(t, st.Exhausted())
	assert.Nil(t, st.CurrentProfile())
}

func TestConsistent(t *testing.T) {
	st := processingState(2)
	assert.True(t, st.Consistent())

	st.RecordOutcome(ProcessedEntry{Index: 0, Outcome: OutcomeSent})
	st.Cursor = 1
	assert.True(t, st.Consistent())

	// Cursor at queue end with every outcome recorded is the
	// completion-pending shape a crash can legitimately leave behind
	st.RecordOutcome(ProcessedEntry{Index: 1, Outcome: OutcomeFailed})
	st.Cursor = 2
	assert.True(t, st.Consistent())
}

func TestConsistentRejectsBrokenSnapshots(t *testing.T) {
	st := processingState(2)
	st.Cursor = -1
	assert.False(t, st.Consistent())

	st = processingState(2)
	st.Cursor = 3
	assert.False(t, st.Consistent())

	// Processed log and counters diverged
	st = processingState(2)
	st.Processed = append(st.Processed, ProcessedEntry{Index: 0, Outcome: OutcomeSent})
	assert.False(t, st.Consistent())

	st = processingState(2)
	st.SentCount = -1
	assert.False(t, st.Consistent())
}

func TestSetStatus(t *testing.T) {
	st := &WorkflowState{}
	st.SetStatus(0, "Sending", "✈", "neutral")
	entry, ok := st.PerProfileStatus[0]
	assert.True(t, ok)
	assert.Equal(t, "Sending", entry.Label)
	assert.False(t, entry.Timestamp.IsZero())
}
