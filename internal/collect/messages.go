package collect

import "fmt"

// Steps of a collection run that can fail.
const (
	StepConnect       = "connect"
	StepConfig        = "config"
	StepLoggingPolicy = "logging_policy"
	StepContainerPath = "container_path"
	StepLicense       = "license"
	StepCopySpec      = "copy_spec"
)

// MessageForFailure returns the line written to the report in place of the
// data a failed step could not provide.
func MessageForFailure(step string, err error) string {
	switch step {
	case StepConnect:
		return fmt.Sprintf("Could not connect to PostgreSQL to get config: %v", err)
	case StepConfig:
		return fmt.Sprintf("Could not get PostgreSQL config: %v", err)
	case StepLoggingPolicy:
		return fmt.Sprintf("Could not determine PostgreSQL logging settings: %v", err)
	case StepContainerPath:
		return fmt.Sprintf("Could not locate PostgreSQL logs on the host: %v", err)
	case StepLicense:
		return fmt.Sprintf("Could not get Swarm64 license: %v", err)
	case StepCopySpec:
		return fmt.Sprintf("Could not stage PostgreSQL logs: %v", err)
	default:
		return fmt.Sprintf("%s failed: %v", step, err)
	}
}
