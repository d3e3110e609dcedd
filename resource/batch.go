package resource

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/stuck-lehnert/cloud/internal/debug"
	"github.com/stuck-lehnert/cloud/runtime/client"
)

// BatchFailure is a target a batch operation could not process.
type BatchFailure struct {
	Index  int
	Target map[string]any
	Err    error
}

// BatchResult collects the records produced by the successful targets, in
// target order, and the failed targets.
type BatchResult struct {
	Succeeded []Record
	Failed    []BatchFailure
}

// ModifyEach modifies each target, a filter, with data. Every target runs in
// its own transaction; a failing target does not affect the others. On a
// handle bound to a *client.Tx the targets run one after another, each in a
// savepoint.
func (h *Handle) ModifyEach(ctx context.Context, targets []map[string]any, data map[string]any) BatchResult {
	return h.each(ctx, "modify", targets, func(ctx context.Context, tx *Handle, target map[string]any) ([]Record, error) {
		return tx.Modify(ctx, target, data)
	})
}

// DeleteEach deletes each target, a filter. Every target runs in its own
// transaction; a failing target does not affect the others.
func (h *Handle) DeleteEach(ctx context.Context, targets []map[string]any) BatchResult {
	return h.each(ctx, "delete", targets, func(ctx context.Context, tx *Handle, target map[string]any) ([]Record, error) {
		return tx.Delete(ctx, target)
	})
}

type batchOp func(ctx context.Context, tx *Handle, target map[string]any) ([]Record, error)

func (h *Handle) each(ctx context.Context, name string, targets []map[string]any, op batchOp) BatchResult {
	records := make([][]Record, len(targets))
	errs := make([]error, len(targets))

	limit := h.concurrency
	if _, ok := h.exec.(*client.Tx); ok {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, target := range targets {
		g.Go(func() error {
			errs[i] = h.exec.Transaction(ctx, func(tx client.Executor) error {
				var err error
				records[i], err = op(ctx, h.on(tx), target)
				return err
			})
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{Succeeded: []Record{}}
	for i, err := range errs {
		if err != nil {
			debug.Warn("batch target failed", "resource", h.res.Name(), "op", name, "index", i, "error", err)
			result.Failed = append(result.Failed, BatchFailure{Index: i, Target: targets[i], Err: err})
			continue
		}
		result.Succeeded = append(result.Succeeded, records[i]...)
	}
	return result
}
