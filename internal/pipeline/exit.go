package pipeline

import "gainhound/internal/services"

// Process exit codes. Scheduler wrappers key off these, so they are part of
// the operational contract and must stay stable.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitConfigError    = 2
	ExitPartialFailure = 3
	ExitInterrupted    = 130
)

// ExitCode maps a run's result to the process exit status. Lock contention,
// an empty batch, and dry runs are all success. Interruption wins over
// partial failure so schedulers can tell a stopped run from a finished one.
func ExitCode(summary Summary, err error) int {
	if err != nil {
		if services.Fatal(err) {
			return ExitConfigError
		}
		return ExitFailure
	}
	if summary.Interrupted {
		return ExitInterrupted
	}
	if summary.Failed > 0 {
		return ExitPartialFailure
	}
	return ExitOK
}
