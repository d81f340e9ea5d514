package suite

import "github.com/alexanderjulianmartinez/columnwatch/pkg/types"

// Severities used when printing results.
// Rules:
// - BLOCK when the data does not meet the expectation
// - WARN when the check could not be computed
// - INFO when the expectation holds
const (
	SeverityInfo  = "INFO"
	SeverityWarn  = "WARN"
	SeverityBlock = "BLOCK"
)

func SeverityForStatus(status types.Status) string {
	switch status {
	case types.StatusFailed:
		return SeverityBlock
	case types.StatusAborted:
		return SeverityWarn
	default:
		return SeverityInfo
	}
}
