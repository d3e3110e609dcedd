package resource

import (
	"github.com/stuck-lehnert/cloud/runtime/client"
)

// DefaultBatchConcurrency bounds the number of batch targets processed at
// the same time.
const DefaultBatchConcurrency = 4

// Handle runs operations of a resource on an executor. The scope is passed
// to dynamic attributes, order expressions and filters.
type Handle struct {
	res         *Resource
	exec        client.Executor
	scope       any
	concurrency int
}

// Bind returns a handle running operations of r on exec.
func (r *Resource) Bind(exec client.Executor, scope any) *Handle {
	return &Handle{res: r, exec: exec, scope: scope, concurrency: DefaultBatchConcurrency}
}

// WithConcurrency returns a copy of h whose batch operations process at
// most n targets at the same time.
func (h *Handle) WithConcurrency(n int) *Handle {
	if n < 1 {
		n = 1
	}
	c := *h
	c.concurrency = n
	return &c
}

// Resource returns the bound resource.
func (h *Handle) Resource() *Resource {
	return h.res
}

// on returns a copy of h running on exec.
func (h *Handle) on(exec client.Executor) *Handle {
	c := *h
	c.exec = exec
	return &c
}
