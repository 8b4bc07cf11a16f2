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

// Package unsafex contains low level helpers for code that manages raw memory.
package unsafex

import "unsafe"

// MaxAlign is the largest alignment required by any Go scalar type on the target platform.
// Memory aligned to MaxAlign can hold any value that doesn't contain pointers.
const MaxAlign = int(max(
	unsafe.Alignof(uint64(0)),
	unsafe.Alignof(float64(0)),
	unsafe.Alignof(complex128(0)),
	unsafe.Alignof(uintptr(0)),
))

// MaxAlign must be a power of two for the mask based helpers below.
var _ [0]struct{} = [MaxAlign & (MaxAlign - 1)]struct{}{}

// AlignUp rounds n up to a multiple of MaxAlign.
func AlignUp(n int) int {
	return (n + MaxAlign - 1) &^ (MaxAlign - 1)
}

// AlignPad returns the bytes needed after n to reach the next MaxAlign boundary.
func AlignPad(n int) int {
	return -n & (MaxAlign - 1)
}

// IsAligned reports whether p is aligned to MaxAlign.
func IsAligned(p unsafe.Pointer) bool {
	return uintptr(p)&uintptr(MaxAlign-1) == 0
}

// DataPtr returns the data pointer of b.
//
// Unlike unsafe.SliceData it doesn't depend on cap(b), so it also works for
// a slice that was resliced down to zero length.
func DataPtr(b []byte) unsafe.Pointer {
	// for []byte, the Data ptr is always the 1st field
	return *(*unsafe.Pointer)(unsafe.Pointer(&b))
}
