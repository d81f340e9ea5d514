package types

import "time"

// Status is the outcome of a single check run.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
	StatusAborted Status = "Aborted"
)

// ResultValue is a named value attached to an outcome. A nil Value means the
// check could not compute it.
type ResultValue struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

// CheckOutcome is the result of evaluating one check against one table.
type CheckOutcome struct {
	Timestamp time.Time     `json:"timestamp"`
	Status    Status        `json:"testCaseStatus"`
	Result    string        `json:"result"`
	Values    []ResultValue `json:"testResultValue"`
}

// Value returns the named result value and whether it was present.
func (o CheckOutcome) Value(name string) (*string, bool) {
	for _, v := range o.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return nil, false
}

func StringValue(name, value string) ResultValue {
	return ResultValue{Name: name, Value: &value}
}

func NullValue(name string) ResultValue {
	return ResultValue{Name: name}
}
