package suite

import (
	"time"

	"github.com/alexanderjulianmartinez/columnwatch/internal/source"
	"github.com/alexanderjulianmartinez/columnwatch/pkg/types"
)

type Result struct {
	Table   string             `json:"table"`
	Check   string             `json:"check"`
	Kind    string             `json:"kind"`
	Column  string             `json:"column"`
	Outcome types.CheckOutcome `json:"outcome"`
}

// TableSummary describes one checked table. RowCount is nil when the table
// could not be inspected.
type TableSummary struct {
	Name     string `json:"name"`
	Columns  int    `json:"columns"`
	RowCount *int64 `json:"rowCount"`
	Checks   int    `json:"checks"`
}

func summarize(info source.TableInfo, checks int) TableSummary {
	n := info.RowCount
	return TableSummary{
		Name:     info.Name,
		Columns:  len(info.Columns),
		RowCount: &n,
		Checks:   checks,
	}
}

type Report struct {
	RunID     string         `json:"runId"`
	StartedAt time.Time      `json:"startedAt"`
	Duration  time.Duration  `json:"duration"`
	Tables    []TableSummary `json:"tables"`
	Results   []Result       `json:"results"`
}

// Summary counts results by status.
func (r *Report) Summary() map[types.Status]int {
	counts := map[types.Status]int{
		types.StatusSuccess: 0,
		types.StatusFailed:  0,
		types.StatusAborted: 0,
	}
	for _, res := range r.Results {
		counts[res.Outcome.Status]++
	}
	return counts
}

// Healthy reports whether every check succeeded.
func (r *Report) Healthy() bool {
	for _, res := range r.Results {
		if res.Outcome.Status != types.StatusSuccess {
			return false
		}
	}
	return true
}
