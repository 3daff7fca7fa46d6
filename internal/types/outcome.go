package types

type SubmissionOutcome string

const (
	SubmissionOutcomeDispatched    SubmissionOutcome = "dispatched"    // Mail relay accepted the message
	SubmissionOutcomeRejected      SubmissionOutcome = "rejected"      // Required fields missing
	SubmissionOutcomeUnparsable    SubmissionOutcome = "unparsable"    // Request body could not be decoded
	SubmissionOutcomeMisconfigured SubmissionOutcome = "misconfigured" // SMTP credentials not configured
	SubmissionOutcomeFailed        SubmissionOutcome = "failed"        // Mail relay refused or could not be reached
)

const (
	ExitNormal         int = 0
	ExitErrored        int = 1
	ExitMisconfigured  int = 2
	ExitDispatchFailed int = 3
)
