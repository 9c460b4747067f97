package experiment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CodexForgeBR/llm-planner/internal/ledger"
)

// ResultSink receives one record per task attempt. ledger.Store is one.
type ResultSink interface {
	Record(ctx context.Context, r ledger.Record) error
}

var _ ResultSink = (*ledger.Store)(nil)

// FileSink writes each attempt's plan to results/<tag>/<domain>/<task>.pddl.
// Attempts without a plan leave an empty file.
type FileSink struct {
	Layout Layout
}

// Record implements ResultSink.
func (s FileSink) Record(_ context.Context, r ledger.Record) error {
	m, err := ParseMethod(r.Method)
	if err != nil {
		return err
	}

	path := s.Layout.Path(Results, m.Tag(), r.Task)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(r.Plan), 0644); err != nil {
		return fmt.Errorf("write result %s: %w", r.Task, err)
	}
	return nil
}
