package metrics

// Ownership transfer results
const (
	TransferResultCompleted    = "completed"
	TransferResultAlreadyOwner = "already_owner"
	TransferResultFailed       = "failed"
)

// IncrementProjectCreated increments project creation counter
func (m *Metrics) IncrementProjectCreated() {
	m.safeExecute("IncrementProjectCreated", func() {
		m.ProjectCreatedTotal.Inc()
	})
}

// IncrementTaskCreated increments task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TaskCreatedTotal.Inc()
	})
}

// IncrementMemberAdded increments the member added counter
func (m *Metrics) IncrementMemberAdded() {
	m.safeExecute("IncrementMemberAdded", func() {
		m.MemberAddedTotal.Inc()
	})
}

// RecordOwnershipTransfer counts a transfer attempt under result
func (m *Metrics) RecordOwnershipTransfer(result string) {
	m.safeExecute("RecordOwnershipTransfer", func() {
		m.OwnershipTransfersTotal.WithLabelValues(result).Inc()
	})
}

// SetProjectsTotal sets total projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}

// SetTasksTotal sets total tasks gauge
func (m *Metrics) SetTasksTotal(count int64) {
	m.safeExecute("SetTasksTotal", func() {
		m.TasksTotal.Set(float64(count))
	})
}
