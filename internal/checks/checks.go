// Package checks evaluates data-quality checks against a live table. A check
// never fails past its boundary for runtime reasons: query and schema errors
// become Aborted outcomes. Only configuration errors are returned as errors.
package checks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderjulianmartinez/columnwatch/internal/params"
	"github.com/alexanderjulianmartinez/columnwatch/internal/source"
	"github.com/alexanderjulianmartinez/columnwatch/pkg/types"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrUnknownCheck   = errors.New("unknown check kind")
)

// Definition is a configured check bound to one column.
type Definition struct {
	Name       string
	EntityLink string
	Kind       string
	Parameters params.Parameters
}

// ExecutionContext is the table a check runs against and the collaborators
// used to reach it. Checks borrow it for one call and never modify it.
type ExecutionContext struct {
	Table         string
	Introspector  source.SchemaIntrospector
	Dispatcher    source.QueryDispatcher
	ExecutionDate time.Time
}

type Validator interface {
	Evaluate(ctx context.Context, def Definition, ec ExecutionContext) (types.CheckOutcome, error)
}

// ColumnNotFoundError reports a configured column missing from the table.
type ColumnNotFoundError struct {
	Column string
	Check  string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("cannot find the configured column %s for test case %s", e.Column, e.Check)
}

func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// MetricDispatchError wraps a failure to build, run or read a metric query.
type MetricDispatchError struct {
	Metric string
	Table  string
	Column string
	Err    error
}

func (e *MetricDispatchError) Error() string {
	return fmt.Sprintf("compute %s of %s.%s: %v", e.Metric, e.Table, e.Column, e.Err)
}

func (e *MetricDispatchError) Unwrap() error { return e.Err }
