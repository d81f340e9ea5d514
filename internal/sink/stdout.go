package sink

import (
	"context"
	"encoding/json"
	"io"

	"github.com/alexanderjulianmartinez/columnwatch/internal/suite"
)

type Stdout struct {
	w io.Writer
}

func NewStdout(w io.Writer) *Stdout {
	return &Stdout{w: w}
}

func (s *Stdout) Name() string { return "stdout" }

func (s *Stdout) Publish(_ context.Context, report *suite.Report) error {
	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (s *Stdout) Close() error { return nil }
