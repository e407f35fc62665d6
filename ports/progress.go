package ports

import "graphboot/domain/core"

// ProgressObserver receives advisory completion notifications from the worker
// pool. Implementations must be fast and must never fail: progress reporting
// is a side channel and cannot affect the numeric result.
type ProgressObserver interface {
	// ReplicateDone is called once per completed replicate with the running
	// completion count (monotonically increasing) and the group total.
	ReplicateDone(group core.GroupID, completed, total int)

	// GroupDone is called after a group's bootstrap finishes (success only).
	GroupDone(group core.GroupID)
}

// NopProgress discards all notifications.
type NopProgress struct{}

func (NopProgress) ReplicateDone(core.GroupID, int, int) {}
func (NopProgress) GroupDone(core.GroupID)               {}
