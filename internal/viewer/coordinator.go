// Package viewer holds the viewer's operation state machine, the turntable
// rotation controller, and the state struct that ties them to the scene.
//
// All mutation happens on the frame goroutine: operations run on background
// goroutines but only report back through a channel that Poll drains once
// per frame.
package viewer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/turntable/internal/logger"
	"github.com/Faultbox/turntable/pkg/formats"
)

// User-facing failure texts. Server detail goes to the log only.
const (
	loadFailedMessage     = "Failed to load model"
	generateFailedMessage = "Failed to generate model"
)

// Fetcher is the server surface the coordinator drives. network.Client
// implements it.
type Fetcher interface {
	FetchModel(ctx context.Context) (*formats.Mesh, error)
	TriggerGenerate(ctx context.Context) (string, error)
}

// completion carries one finished operation from its worker goroutine back
// to the frame goroutine.
type completion struct {
	gen     uint64
	op      Op
	mesh    *formats.Mesh
	message string
	err     error
}

// Coordinator runs model operations one at a time and owns the viewer's
// operation status. Start, Poll, Ack and Close must all be called from the
// frame goroutine.
type Coordinator struct {
	fetcher Fetcher
	status  Status

	// gen increments on every started operation; completions carrying an
	// older generation are discarded, so a cancelled operation can never
	// overwrite the state a newer one produced.
	gen     uint64
	cancel  context.CancelFunc
	results chan completion

	// Callbacks run from Poll, after the status transition they report.
	OnModel   func(*formats.Mesh)
	OnMessage func(string)
	OnFailure func(string)
}

// NewCoordinator returns an idle coordinator talking to the given fetcher.
func NewCoordinator(fetcher Fetcher) *Coordinator {
	return &Coordinator{
		fetcher: fetcher,
		results: make(chan completion, 4),
	}
}

// Status returns the current operation status.
func (c *Coordinator) Status() Status {
	return c.status
}

// StartLoad begins fetching the current model from the server. It returns
// false without starting anything while another operation is in flight or
// an unacknowledged failure is showing.
func (c *Coordinator) StartLoad(ctx context.Context) bool {
	return c.start(ctx, OpLoading)
}

// StartGenerate asks the server to generate a new model. Same admission
// rules as StartLoad.
func (c *Coordinator) StartGenerate(ctx context.Context) bool {
	return c.start(ctx, OpGenerating)
}

func (c *Coordinator) start(parent context.Context, op Op) bool {
	if !c.status.Idle() {
		logger.Debug("Operation rejected",
			zap.Stringer("requested", op),
			zap.Stringer("status", c.status))
		return false
	}

	c.gen++
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.status = Status{Phase: PhaseBusy, Op: op}

	logger.Info("Operation started", zap.Stringer("op", op), zap.Uint64("gen", c.gen))
	go c.run(ctx, c.gen, op)
	return true
}

func (c *Coordinator) run(ctx context.Context, gen uint64, op Op) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Operation panicked", zap.Stringer("op", op), zap.Any("panic", r))
			c.post(completion{gen: gen, op: op, err: fmt.Errorf("operation panicked: %v", r)})
		}
	}()

	switch op {
	case OpLoading:
		mesh, err := c.fetcher.FetchModel(ctx)
		c.post(completion{gen: gen, op: op, mesh: mesh, err: err})
	case OpGenerating:
		message, err := c.fetcher.TriggerGenerate(ctx)
		c.post(completion{gen: gen, op: op, message: message, err: err})
	}
}

// post hands a completion to the frame goroutine. Workers must never block
// on a full queue, so overflow is dropped.
func (c *Coordinator) post(done completion) {
	select {
	case c.results <- done:
	default:
		logger.Warn("Dropping operation result, queue full",
			zap.Stringer("op", done.op), zap.Uint64("gen", done.gen))
	}
}

// Poll applies any finished operations. Call once per frame.
func (c *Coordinator) Poll() {
	for {
		select {
		case done := <-c.results:
			c.apply(done)
		default:
			return
		}
	}
}

func (c *Coordinator) apply(done completion) {
	if done.gen != c.gen {
		logger.Debug("Discarding stale completion",
			zap.Stringer("op", done.op),
			zap.Uint64("gen", done.gen),
			zap.Uint64("current", c.gen))
		return
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if done.err != nil {
		message := loadFailedMessage
		if done.op == OpGenerating {
			message = generateFailedMessage
		}
		c.status = Status{Phase: PhaseFailed, Op: done.op, Message: message}
		logger.Warn("Operation failed", zap.Stringer("op", done.op), zap.Error(done.err))
		if c.OnFailure != nil {
			c.OnFailure(message)
		}
		return
	}

	// Back to idle before the callbacks, so the viewer is never stuck busy
	// even if a callback misbehaves.
	c.status = Status{}
	logger.Info("Operation finished", zap.Stringer("op", done.op))

	switch done.op {
	case OpLoading:
		if c.OnModel != nil {
			c.OnModel(done.mesh)
		}
	case OpGenerating:
		if c.OnMessage != nil {
			c.OnMessage(done.message)
		}
	}
}

// Ack dismisses a shown failure and returns the coordinator to idle. It
// does nothing in any other phase.
func (c *Coordinator) Ack() {
	if c.status.Failed() {
		c.status = Status{}
	}
}

// Close cancels any in-flight operation and returns to idle. The bumped
// generation makes late completions stale, so nothing the cancelled worker
// posts will be applied.
func (c *Coordinator) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	if c.status.Busy() {
		c.status = Status{}
	}
}
