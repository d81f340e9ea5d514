package checks

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/columnwatch/internal/entitylink"
	"github.com/alexanderjulianmartinez/columnwatch/internal/metrics"
	"github.com/alexanderjulianmartinez/columnwatch/internal/source"
	"github.com/alexanderjulianmartinez/columnwatch/pkg/types"
)

const (
	KindColumnValuesMissingCountToBeEqual = "columnValuesMissingCountToBeEqual"

	ParamMissingValueMatch = "missingValueMatch"
	ParamMissingCountValue = "missingCountValue"

	ResultMissingCount = "missingCount"
	ResultNullCount    = "nullCount"
)

// MissingCountCheck asserts that the number of missing values in a column,
// NULLs plus any configured sentinel values, equals an expected count.
type MissingCountCheck struct {
	logger *zap.Logger
}

func NewMissingCountCheck(logger *zap.Logger) *MissingCountCheck {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MissingCountCheck{logger: logger}
}

func (c *MissingCountCheck) Evaluate(ctx context.Context, def Definition, ec ExecutionContext) (types.CheckOutcome, error) {
	log := c.logger.With(zap.String("check", def.Name), zap.String("table", ec.Table))
	column := entitylink.ColumnName(def.EntityLink)

	cols, err := ec.Introspector.FetchSchema(ctx, ec.Table)
	if err != nil {
		log.Error("schema introspection failed", zap.Error(err))
		return aborted(ec, computeMessage(def, ec, err)), nil
	}
	if _, ok := source.FindColumn(cols, column); !ok {
		err := &ColumnNotFoundError{Column: column, Check: def.Name}
		log.Error("column not found", zap.String("column", column), zap.Error(err))
		return aborted(ec, computeMessage(def, ec, err)), nil
	}

	// Parameters are decoded before the null count so a bad value fails without
	// querying. Errors go back to the caller, never into an outcome.
	sentinels, _, err := def.Parameters.StringList(ParamMissingValueMatch)
	if err != nil {
		return types.CheckOutcome{}, fmt.Errorf("check %s: %w", def.Name, err)
	}
	expected, err := def.Parameters.Int(ParamMissingCountValue)
	if err != nil {
		return types.CheckOutcome{}, fmt.Errorf("check %s: %w", def.Name, err)
	}

	missing, err := c.count(ctx, ec, metrics.NullCountName, column)
	if err != nil {
		log.Error("null count failed", zap.String("column", column), zap.Error(err))
		return aborted(ec, computeMessage(def, ec, err)), nil
	}

	if len(sentinels) > 0 {
		inSet, err := c.count(ctx, ec, metrics.CountInSetName, column, metrics.WithValues(sentinels))
		if err != nil {
			log.Debug("set count failed", zap.String("column", column), zap.Strings("values", sentinels), zap.Error(err))
			log.Warn("set count failed, discarding null count", zap.String("column", column), zap.Error(err))
			return aborted(ec, fmt.Sprintf("Error computing %s set count for %s - %v", def.Name, ec.Table, err)), nil
		}
		missing += inSet
	}

	status := types.StatusFailed
	if missing == expected {
		status = types.StatusSuccess
	}
	log.Debug("missing count computed",
		zap.String("column", column),
		zap.Int64("missing", missing),
		zap.Int64("expected", expected),
		zap.String("status", string(status)))

	return types.CheckOutcome{
		Timestamp: ec.ExecutionDate,
		Status:    status,
		Result:    fmt.Sprintf("Found missingCount=%d. It should be %d.", missing, expected),
		Values:    []types.ResultValue{types.StringValue(ResultMissingCount, strconv.FormatInt(missing, 10))},
	}, nil
}

// count runs one catalog metric against the column and reads back its scalar.
func (c *MissingCountCheck) count(ctx context.Context, ec ExecutionContext, name, column string, opts ...metrics.Option) (int64, error) {
	wrap := func(err error) error {
		return &MetricDispatchError{Metric: name, Table: ec.Table, Column: column, Err: err}
	}

	newMetric, err := metrics.Lookup(name)
	if err != nil {
		return 0, wrap(err)
	}
	m, err := newMetric(column, opts...)
	if err != nil {
		return 0, wrap(err)
	}
	row, err := ec.Dispatcher.DispatchSelectFirst(ctx, ec.Table, m)
	if err != nil {
		return 0, wrap(err)
	}
	n, err := metrics.Scalar(row, m.Name())
	if err != nil {
		return 0, wrap(err)
	}
	return n, nil
}

func computeMessage(def Definition, ec ExecutionContext, err error) string {
	return fmt.Sprintf("Error computing %s for %s - %v", def.Name, ec.Table, err)
}

func aborted(ec ExecutionContext, msg string) types.CheckOutcome {
	return types.CheckOutcome{
		Timestamp: ec.ExecutionDate,
		Status:    types.StatusAborted,
		Result:    msg,
		Values:    []types.ResultValue{types.NullValue(ResultNullCount)},
	}
}
