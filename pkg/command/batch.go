package command

import "github.com/arcadefleet/hub/pkg/device"

// FailedEntry pairs a device that could not be reached with the reason.
type FailedEntry struct {
	DeviceID device.ID
	Error    string
}

// BatchResult is the outcome of fanning one Command out to many devices.
// Every device id passed to ExecuteBatch appears in exactly one of the two
// lists.
type BatchResult struct {
	Succeeded []device.ID
	Failed    []FailedEntry
}

// Total returns the number of devices attempted.
func (r BatchResult) Total() int { return len(r.Succeeded) + len(r.Failed) }

// SuccessCount returns the number of devices the command was sent to.
func (r BatchResult) SuccessCount() int { return len(r.Succeeded) }

// FailureCount returns the number of devices the command could not reach.
func (r BatchResult) FailureCount() int { return len(r.Failed) }

// SuccessRate returns the fraction of attempted devices that succeeded, in
// [0,1]. Returns 0 for an empty batch.
func (r BatchResult) SuccessRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.SuccessCount()) / float64(total)
}
