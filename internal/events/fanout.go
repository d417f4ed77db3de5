package events

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Fanout delivers every event to all of its publishers concurrently.
type Fanout []Publisher

// Combine returns a single Publisher for pubs: NopPublisher when empty, the
// publisher itself when there is one, a Fanout otherwise.
func Combine(pubs ...Publisher) Publisher {
	switch len(pubs) {
	case 0:
		return NopPublisher{}
	case 1:
		return pubs[0]
	default:
		return Fanout(pubs)
	}
}

// Publish implements Publisher. Every publisher is attempted; the first
// error is returned.
func (f Fanout) Publish(ctx context.Context, event Event) error {
	var g errgroup.Group
	for _, p := range f {
		p := p
		g.Go(func() error {
			return p.Publish(ctx, event)
		})
	}
	return g.Wait()
}

// Close implements Publisher.
func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
