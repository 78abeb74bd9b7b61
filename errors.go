// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TryEnqueue: the queue is full (backpressure)
// For TryDequeue: the queue is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller
// should retry later (with backoff or yield) or switch to the blocking
// variants rather than propagating the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// Construction errors. Once a queue is constructed, enqueue and
// dequeue cannot fail; the error surface of this package is confined
// to the constructors (New, NewWithAllocator, NewIndirect, NewPtr).
var (
	// ErrInvalidCapacity is returned when the requested capacity
	// is less than 1.
	ErrInvalidCapacity = errors.New("mpmc: capacity must be at least 1")

	// ErrAllocation is returned when the slot array could not be
	// allocated, or the allocator returned insufficiently aligned
	// storage.
	ErrAllocation = errors.New("mpmc: slot array allocation failed")
)

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
