package mock

import (
	"context"

	"github.com/fwojciec/ramendb"
)

var _ ramendb.RunService = (*RunService)(nil)

// RunService is a mock implementation of ramendb.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *ramendb.Run) error
	FinishRunFn   func(ctx context.Context, run *ramendb.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*ramendb.Run, error)
	FindRunsFn    func(ctx context.Context, filter ramendb.RunFilter) ([]*ramendb.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *ramendb.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *ramendb.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*ramendb.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter ramendb.RunFilter) ([]*ramendb.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
