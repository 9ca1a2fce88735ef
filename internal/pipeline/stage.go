package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"avgsales/internal/config"
	"avgsales/internal/store"
)

// State carries the shared resources a stage needs. Stages communicate only
// through database tables: each stage's output table is the next stage's
// named input.
type State struct {
	DB     *store.DB
	Loader *store.Loader
	Config *config.Config
	Logger *slog.Logger
}

// Stage is a single step of the report pipeline.
type Stage interface {
	// ID returns the unique identifier for this stage
	ID() string

	// Name returns the human-readable name for this stage
	Name() string

	// Execute runs the stage against the shared state
	Execute(ctx context.Context, state *State) error

	// Validate checks if the stage can be executed with the current state
	Validate(state *State) error
}

// conditionalStage is implemented by stages that may be skipped for a run.
type conditionalStage interface {
	// ShouldRun reports whether the stage applies to this run; when false,
	// the returned reason is logged and the stage is skipped.
	ShouldRun(state *State) (bool, string)
}

// baseStage provides common identity plumbing for stage implementations.
type baseStage struct {
	id   string
	name string
}

func (b baseStage) ID() string   { return b.id }
func (b baseStage) Name() string { return b.name }

// Validate provides the default validation shared by all stages.
func (b baseStage) Validate(state *State) error {
	if state == nil || state.DB == nil {
		return fmt.Errorf("stage %s: no database in pipeline state", b.id)
	}
	if state.Config == nil {
		return fmt.Errorf("stage %s: no configuration in pipeline state", b.id)
	}
	return nil
}
