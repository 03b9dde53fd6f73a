package constants

// Version can be overridden at build time via ldflags.
var Version = "latest"

// Log status values stored in the status column of every log table.
const (
	StatusPending      = "Pending"
	StatusDone         = "Done"
	StatusNeedToUpdate = "Need to update"
)

const (
	// TestSubmitLogPath is the submission endpoint used throughout handler tests.
	TestSubmitLogPath = "/api/support-logs"
)
