package action

import "context"

// Pending is the result of an in-flight action creator.
type Pending struct {
	done   chan struct{}
	result Action
	err    error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(a Action, err error) {
	p.result = a
	p.err = err
	close(p.done)
}

// Done is closed once the request has settled and its action, if any, has
// been dispatched.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the request settles or ctx ends. It returns the
// dispatched action, or the request error.
func (p *Pending) Wait(ctx context.Context) (Action, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
