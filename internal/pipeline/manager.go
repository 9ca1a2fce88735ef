package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Manager runs stages strictly in order on a single connection. The first
// failure aborts the run; there is no retry and no partial recovery — a rerun
// overwrites whatever a failed run left behind.
type Manager struct {
	stages []Stage
	logger *slog.Logger
}

// NewManager creates a manager over the given stages.
func NewManager(logger *slog.Logger, stages ...Stage) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{stages: stages, logger: logger}
}

// Run executes the pipeline. Each stage fully materializes its output table
// before the next begins.
func (m *Manager) Run(ctx context.Context, state *State) error {
	runID := uuid.NewString()
	logger := m.logger.With(slog.String("run_id", runID))
	state.Logger = logger

	start := time.Now()
	logger.Info("pipeline run starting", slog.Int("stages", len(m.stages)))

	for i, stage := range m.stages {
		stageLogger := logger.With(
			slog.String("stage", stage.ID()),
			slog.String("step", fmt.Sprintf("%d/%d", i+1, len(m.stages))))

		if cond, ok := stage.(conditionalStage); ok {
			if run, reason := cond.ShouldRun(state); !run {
				stageLogger.Info("stage skipped", slog.String("reason", reason))
				continue
			}
		}

		if err := stage.Validate(state); err != nil {
			stageLogger.Error("stage validation failed", slog.Any("error", err))
			return fmt.Errorf("stage %s validation failed: %w", stage.ID(), err)
		}

		stageStart := time.Now()
		stageLogger.Info("stage starting", slog.String("name", stage.Name()))
		if err := stage.Execute(ctx, state); err != nil {
			stageLogger.Error("stage failed",
				slog.Any("error", err),
				slog.Duration("elapsed", time.Since(stageStart)))
			return fmt.Errorf("stage %s failed: %w", stage.ID(), err)
		}
		stageLogger.Info("stage completed", slog.Duration("elapsed", time.Since(stageStart)))
	}

	logger.Info("pipeline run completed", slog.Duration("elapsed", time.Since(start)))
	return nil
}
