// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// QueuePtr is a bounded MPMC queue for unsafe.Pointer values.
//
// QueuePtr passes pointers directly without copying the pointee,
// enabling zero-copy transfer of objects between goroutines.
//
// Ownership semantics: the producer transfers ownership to the
// consumer. After enqueueing, the producer should not access the
// object. The vacated slot is cleared on dequeue so the queue does
// not pin the pointee past the handoff.
type QueuePtr struct {
	_        pad
	head     atomix.Uint64
	_        pad
	tail     atomix.Uint64
	_        pad
	slots    []ptrSlot
	capacity uint64
}

type ptrSlot struct {
	turn atomix.Uint64
	data unsafe.Pointer
	_    [cacheLineSize - 8 - ptrSize]byte
}

// NewPtr creates a queue for unsafe.Pointer values with the given
// capacity. Returns ErrInvalidCapacity if capacity < 1.
func NewPtr(capacity int) (*QueuePtr, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &QueuePtr{
		slots:    make([]ptrSlot, capacity+1),
		capacity: uint64(capacity),
	}, nil
}

func (q *QueuePtr) idx(t uint64) uint64 { return t % q.capacity }
func (q *QueuePtr) gen(t uint64) uint64 { return t / q.capacity }

// Enqueue adds a pointer, spinning while the queue is full.
func (q *QueuePtr) Enqueue(elem unsafe.Pointer) {
	head := q.head.AddAcqRel(1) - 1
	slot := &q.slots[q.idx(head)]
	turn := q.gen(head) * 2

	sw := spin.Wait{}
	for slot.turn.LoadAcquire() != turn {
		sw.Once()
	}

	slot.data = elem
	slot.turn.StoreRelease(turn + 1)
}

// TryEnqueue adds a pointer without blocking.
// Returns ErrWouldBlock if the queue is full.
func (q *QueuePtr) TryEnqueue(elem unsafe.Pointer) error {
	head := q.head.LoadAcquire()
	for {
		slot := &q.slots[q.idx(head)]
		if slot.turn.LoadAcquire() == q.gen(head)*2 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				slot.data = elem
				slot.turn.StoreRelease(q.gen(head)*2 + 1)
				return nil
			}
			head = q.head.LoadAcquire()
		} else {
			prev := head
			head = q.head.LoadAcquire()
			if head == prev {
				return ErrWouldBlock
			}
		}
	}
}

// Dequeue removes and returns a pointer, spinning while the queue is
// empty.
func (q *QueuePtr) Dequeue() unsafe.Pointer {
	tail := q.tail.AddAcqRel(1) - 1
	slot := &q.slots[q.idx(tail)]
	turn := q.gen(tail)*2 + 1

	sw := spin.Wait{}
	for slot.turn.LoadAcquire() != turn {
		sw.Once()
	}

	elem := slot.data
	slot.data = nil
	slot.turn.StoreRelease(turn + 1)
	return elem
}

// TryDequeue removes and returns a pointer without blocking.
// Returns (nil, ErrWouldBlock) if the queue is empty.
func (q *QueuePtr) TryDequeue() (unsafe.Pointer, error) {
	tail := q.tail.LoadAcquire()
	for {
		slot := &q.slots[q.idx(tail)]
		if slot.turn.LoadAcquire() == q.gen(tail)*2+1 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				elem := slot.data
				slot.data = nil
				slot.turn.StoreRelease(q.gen(tail)*2 + 2)
				return elem, nil
			}
			tail = q.tail.LoadAcquire()
		} else {
			prev := tail
			tail = q.tail.LoadAcquire()
			if tail == prev {
				return nil, ErrWouldBlock
			}
		}
	}
}

// Size returns head - tail as a signed best-effort count.
func (q *QueuePtr) Size() int {
	return int(int64(q.head.LoadRelaxed() - q.tail.LoadRelaxed()))
}

// Empty reports whether Size() <= 0. Best-effort, like Size.
func (q *QueuePtr) Empty() bool {
	return q.Size() <= 0
}

// Cap returns the queue capacity.
func (q *QueuePtr) Cap() int {
	return int(q.capacity)
}
