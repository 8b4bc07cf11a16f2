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

package resource

import (
	"github.com/cloudwego/stripool/unsafex"
	"github.com/cloudwego/stripool/unsafex/arena"
)

// GoAllocator allocates from the Go heap, memory is reclaimed by the GC.
type GoAllocator struct{}

// Allocate implements Allocator.
func (GoAllocator) Allocate(size, align int) ([]byte, error) {
	if align < 0 || align > unsafex.MaxAlign || align&(align-1) != 0 {
		return nil, ErrAlignment
	}
	if size == 0 {
		return []byte{}, nil
	}
	return arena.Heap{}.Alloc(size)
}

// Deallocate implements Allocator.
func (GoAllocator) Deallocate(b []byte) {}

// IsEqual implements Allocator.
func (GoAllocator) IsEqual(other Allocator) bool {
	_, ok := other.(GoAllocator)
	return ok
}
