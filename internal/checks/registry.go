package checks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/columnwatch/pkg/types"
)

// Registry maps a check kind to the validator implementing it.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// NewRegistry returns a registry with the built-in checks registered.
func NewRegistry(logger *zap.Logger) *Registry {
	r := &Registry{validators: map[string]Validator{}}
	r.validators[KindColumnValuesMissingCountToBeEqual] = NewMissingCountCheck(logger)
	return r
}

func (r *Registry) Register(kind string, v Validator) error {
	if kind == "" || v == nil {
		return fmt.Errorf("register check: kind and validator are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.validators[kind]; ok {
		return fmt.Errorf("check kind %s is already registered", kind)
	}
	r.validators[kind] = v
	return nil
}

func (r *Registry) Lookup(kind string) (Validator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, kind)
	}
	return v, nil
}

func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.validators))
	for k := range r.validators {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Evaluate runs def with the validator registered for def.Kind.
func (r *Registry) Evaluate(ctx context.Context, def Definition, ec ExecutionContext) (types.CheckOutcome, error) {
	v, err := r.Lookup(def.Kind)
	if err != nil {
		return types.CheckOutcome{}, err
	}
	return v.Evaluate(ctx, def, ec)
}
