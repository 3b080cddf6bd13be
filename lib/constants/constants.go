package constants

const (
	// FieldOperation defines a logging field with the name of the UI operation
	FieldOperation = "op"
	// FieldLocator defines a logging field with the locator an operation targets
	FieldLocator = "locator"
	// FieldAttempt defines a logging field with the 1-based attempt number
	FieldAttempt = "attempt"
	// FieldStep defines a logging field with the name of a report step
	FieldStep = "step"
	// FieldStatus defines a logging field with the status of a report step
	FieldStatus = "status"
	// FieldTarget defines a logging field with the execution target mode
	FieldTarget = "target"

	// SharedReadWriteMask is a mask for a shared file with read/write access for everybody
	SharedReadWriteMask = 0666
	// SharedDirMask is a mask for a shared directory
	SharedDirMask = 0755
)
