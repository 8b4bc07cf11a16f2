/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package resource adapts a strip pool to a generic allocate/deallocate interface.
package resource

import (
	"errors"
	"sync/atomic"

	"github.com/cloudwego/stripool/unsafex"
	"github.com/cloudwego/stripool/unsafex/stripool"
)

var (
	// ErrExhausted is returned when the pool has no room and there is no fallback.
	ErrExhausted = errors.New("resource: pool exhausted")

	// ErrAlignment is returned for an alignment the pool can't guarantee.
	ErrAlignment = errors.New("resource: unsupported alignment")
)

// Allocator is a generic memory allocator.
type Allocator interface {
	// Allocate returns size bytes aligned to align, 0 means unsafex.MaxAlign.
	Allocate(size, align int) ([]byte, error)

	// Deallocate returns b to the allocator which allocated it.
	Deallocate(b []byte)

	// IsEqual reports whether memory allocated by one can be deallocated by the other.
	IsEqual(other Allocator) bool
}

// Resource is an Allocator backed by a *stripool.Pool.
//
// Blocks can only be deallocated by a Resource of the same Pool,
// a strip pool has no way to release blocks of other pools.
type Resource struct {
	pool     *stripool.Pool
	fallback Allocator

	poolHits     atomic.Int64
	fallbackHits atomic.Int64
	failures     atomic.Int64
}

// ResourceOption configures a Resource.
type ResourceOption func(r *Resource)

// WithFallback sets the allocator used when the pool is exhausted.
func WithFallback(a Allocator) ResourceOption {
	return func(r *Resource) {
		r.fallback = a
	}
}

// New creates a Resource allocating from p.
func New(p *stripool.Pool, opts ...ResourceOption) *Resource {
	r := &Resource{pool: p}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pool returns the underlying pool.
func (r *Resource) Pool() *stripool.Pool { return r.pool }

// Allocate implements Allocator.
func (r *Resource) Allocate(size, align int) ([]byte, error) {
	if align < 0 || align > unsafex.MaxAlign || align&(align-1) != 0 {
		return nil, ErrAlignment
	}
	if b := r.pool.Acquire(size); b != nil {
		r.poolHits.Add(1)
		return b, nil
	}
	if r.fallback == nil {
		r.failures.Add(1)
		return nil, ErrExhausted
	}
	b, err := r.fallback.Allocate(size, align)
	if err != nil {
		r.failures.Add(1)
		return nil, err
	}
	r.fallbackHits.Add(1)
	return b, nil
}

// Deallocate implements Allocator.
func (r *Resource) Deallocate(b []byte) {
	if r.fallback != nil && !r.pool.Owns(b) {
		r.fallback.Deallocate(b)
		return
	}
	r.pool.Release(b)
}

// IsEqual implements Allocator.
func (r *Resource) IsEqual(other Allocator) bool {
	o, ok := other.(*Resource)
	return ok && o.pool == r.pool
}

// Stats is the counters of a Resource.
type Stats struct {
	PoolHits     int64 // Allocations served by the pool
	FallbackHits int64 // Allocations served by the fallback
	Failures     int64 // Allocations failed
}

// Stats returns the counters of r.
func (r *Resource) Stats() Stats {
	return Stats{
		PoolHits:     r.poolHits.Load(),
		FallbackHits: r.fallbackHits.Load(),
		Failures:     r.failures.Load(),
	}
}
