package generation

import (
	"context"
	"sync"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// Operation is a handle on a running generation request.
type Operation struct {
	o       *Orchestrator
	ctx     context.Context
	cancel  context.CancelFunc
	release func()
	req     types.GenerationRequest

	once   sync.Once
	done   chan struct{}
	result *Result
	err    error
}

// Request returns the request as issued.
func (op *Operation) Request() types.GenerationRequest {
	return op.req
}

// Cancel aborts the request. The project is left unchanged.
func (op *Operation) Cancel() {
	op.cancel()
}

// Done is closed when the request finishes.
func (op *Operation) Done() <-chan struct{} {
	return op.done
}

// Wait blocks until the request finishes and returns its outcome.
func (op *Operation) Wait() (*Result, error) {
	<-op.done
	return op.result, op.err
}

func (op *Operation) run() {
	op.once.Do(func() {
		defer close(op.done)
		defer op.release()
		req := op.req
		op.result, op.err = op.o.execute(op.ctx, &req)
	})
}
