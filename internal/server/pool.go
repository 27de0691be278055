// seehuhn.de/go/pdfedit - structural editing of PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package server

import (
	"context"
	"errors"
	"sync"
)

var errPoolClosed = errors.New("server is shutting down")

// result is the outcome of one job.
type result struct {
	data []byte
	err  error
}

type job struct {
	fn  func() ([]byte, error)
	res chan<- result
}

// pool runs PDF operations on a fixed number of goroutines, so that
// request handlers do not compete for CPU without bound.
type pool struct {
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func newPool(workers int) *pool {
	p := &pool{
		jobs: make(chan job),
	}
	p.wg.Add(workers)
	for range workers {
		go p.work()
	}
	return p
}

func (p *pool) work() {
	defer p.wg.Done()
	for j := range p.jobs {
		data, err := j.fn()
		j.res <- result{data, err}
	}
}

// Run executes fn on one of the workers and waits for the result.
// If ctx is cancelled before a worker becomes available, fn is not run.
// If ctx is cancelled while fn runs, Run returns immediately and the
// result of fn is discarded.
func (p *pool) Run(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	res := make(chan result, 1)

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return nil, errPoolClosed
	}
	select {
	case p.jobs <- job{fn: fn, res: res}:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case r := <-res:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the workers after the running jobs have finished.
func (p *pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}
