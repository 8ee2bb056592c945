package scheduler

import (
	"github.com/google/uuid"

	"github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// CycleState is owned by one alarm cycle and handed to the tasks that need
// to read or signal it.
type CycleState struct {
	// ID identifies the cycle in logs.
	ID string
	// Latch is resolved by the first intake source with a submission.
	Latch *alarm.Latch[alarm.Submission]
	// Stop is set by the stop command service.
	Stop *alarm.StopFlag
	// Config is the adopted configuration, valid from Armed on.
	Config alarm.Config
}

func newCycleState() *CycleState {
	return &CycleState{
		ID:    uuid.NewString(),
		Latch: alarm.NewLatch[alarm.Submission](),
		Stop:  new(alarm.StopFlag),
	}
}
