package service

import id "regdesk/pkg/domain"

// State is where a device's submission stands.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateRejected   State = "rejected"
	StateAccepted   State = "accepted"
)

func (s State) String() string { return string(s) }

// State returns the device's pipeline state. Devices that never submitted
// are editing.
func (e *Engine) State(device id.DeviceID) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.states[device]; ok {
		return s
	}
	return StateEditing
}

// begin moves the device into submitting. It fails when a submission is
// already running, the way a disabled submit control would.
func (e *Engine) begin(device id.DeviceID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.states[device] == StateSubmitting {
		return false
	}
	e.states[device] = StateSubmitting
	return true
}

func (e *Engine) finish(device id.DeviceID, s State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.states[device] = s
}
