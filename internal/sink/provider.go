// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package sink

import (
	"context"
	"sync"
)

// State is the acquisition state of an optional sink capability.
type State int32

const (
	Unavailable State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Unavailable:
		return "unavailable"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Loader acquires a capability value.
type Loader[T any] func(ctx context.Context) (T, error)

// Provider acquires a capability once, in the background, and exposes it without blocking.
type Provider[T any] struct {
	name string
	load Loader[T]

	once sync.Once
	done chan struct{}

	lock    sync.RWMutex
	state   State
	started bool
	value   T
	err     error
}

// NewProvider returns an Unavailable provider that runs load when started.
func NewProvider[T any](name string, load Loader[T]) *Provider[T] {
	return &Provider[T]{
		name: name,
		load: load,
		done: make(chan struct{}),
	}
}

// ReadyProvider returns a provider already holding value.
func ReadyProvider[T any](name string, value T) *Provider[T] {
	p := &Provider[T]{
		name:    name,
		done:    make(chan struct{}),
		state:   Ready,
		started: true,
		value:   value,
	}
	p.once.Do(func() { close(p.done) })
	return p
}

// Name returns the capability name, used in diagnostics.
func (p *Provider[T]) Name() string {
	return p.name
}

// Start launches the loader in a new goroutine. Only the first call has effect.
func (p *Provider[T]) Start(ctx context.Context) {
	p.once.Do(func() {
		p.lock.Lock()
		p.state = Loading
		p.started = true
		p.lock.Unlock()

		go func() {
			defer close(p.done)

			value, err := p.load(ctx)

			p.lock.Lock()
			defer p.lock.Unlock()
			if err != nil {
				p.state = Unavailable
				p.err = err
				return
			}
			p.value = value
			p.state = Ready
		}()
	})
}

// Get returns the capability when Ready.
func (p *Provider[T]) Get() (T, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	if p.state != Ready {
		var zero T
		return zero, false
	}
	return p.value, true
}

// State returns the current acquisition state.
func (p *Provider[T]) State() State {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.state
}

// Err returns the loading error of an Unavailable provider.
func (p *Provider[T]) Err() error {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.err
}

// Wait blocks until loading finished or ctx is done. A provider that was never started
// returns immediately.
func (p *Provider[T]) Wait(ctx context.Context) error {
	p.lock.RLock()
	started := p.started
	p.lock.RUnlock()
	if !started {
		return nil
	}

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
