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

// Package xfnv implements the 32-bit and 64-bit FNV-1a hash.
//
// Unlike hash/fnv it doesn't allocate a hash.Hash, and strings are hashed without conversion.
// Results are the same as the reference FNV-1a on every platform, so they're safe to store.
package xfnv

const (
	offset32 = uint32(0x811c9dc5)
	prime32  = uint32(0x01000193)
	offset64 = uint64(0xcbf29ce484222325)
	prime64  = uint64(0x00000100000001b3)
)

type bytesOrString interface {
	~[]byte | ~string
}

func sum32[T bytesOrString](data T) uint32 {
	h := offset32
	for i := 0; i < len(data); i++ {
		h ^= uint32(data[i])
		h *= prime32
	}
	return h
}

func sum64[T bytesOrString](data T) uint64 {
	h := offset64
	for i := 0; i < len(data); i++ {
		h ^= uint64(data[i])
		h *= prime64
	}
	return h
}

// Sum32 returns the 32-bit FNV-1a hash of b.
func Sum32(b []byte) uint32 { return sum32(b) }

// Sum64 returns the 64-bit FNV-1a hash of b.
func Sum64(b []byte) uint64 { return sum64(b) }

// Sum32String returns the 32-bit FNV-1a hash of s.
func Sum32String(s string) uint32 { return sum32(s) }

// Sum64String returns the 64-bit FNV-1a hash of s.
func Sum64String(s string) uint64 { return sum64(s) }
