// Package sink publishes a run report to its configured destination.
package sink

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/alexanderjulianmartinez/columnwatch/internal/config"
	"github.com/alexanderjulianmartinez/columnwatch/internal/suite"
)

type Publisher interface {
	Name() string
	Publish(ctx context.Context, report *suite.Report) error
	Close() error
}

// New returns the publisher for cfg. Stdout output goes to w.
func New(cfg config.OutputConfig, w io.Writer, logger *zap.Logger) (Publisher, error) {
	switch cfg.Type {
	case config.OutputStdout, "":
		return NewStdout(w), nil
	case config.OutputKafka:
		return NewKafka(cfg.Brokers, cfg.Topic, logger), nil
	default:
		return nil, fmt.Errorf("unsupported output type: %s", cfg.Type)
	}
}
