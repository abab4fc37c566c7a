package pkg

const (
	// LogFile receives a copy of every log message, in the working directory.
	LogFile = "semaphore-report.log"

	// EnvPrefix is the prefix of the environment variables overriding the
	// global flags, SEMAPHORE_REPORT_AUTH_TOKEN sets --auth-token.
	EnvPrefix = "SEMAPHORE_REPORT"
)
