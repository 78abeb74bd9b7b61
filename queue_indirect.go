// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// QueueIndirect is a bounded MPMC queue for uintptr values.
//
// QueueIndirect passes indices or handles instead of full objects,
// which keeps every slot at exactly one cache line. Useful for buffer
// pools, object pools, or any index-based data structure.
//
// The protocol is identical to [Queue]: per-slot turn counters paired
// with independent head/tail ticket dispensers.
type QueueIndirect struct {
	_        pad
	head     atomix.Uint64
	_        pad
	tail     atomix.Uint64
	_        pad
	slots    []indirectSlot
	capacity uint64
}

type indirectSlot struct {
	turn atomix.Uint64
	data uintptr
	_    [cacheLineSize - 8 - ptrSize]byte
}

// NewIndirect creates a queue for uintptr values with the given
// capacity. Returns ErrInvalidCapacity if capacity < 1.
func NewIndirect(capacity int) (*QueueIndirect, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &QueueIndirect{
		slots:    make([]indirectSlot, capacity+1),
		capacity: uint64(capacity),
	}, nil
}

func (q *QueueIndirect) idx(t uint64) uint64 { return t % q.capacity }
func (q *QueueIndirect) gen(t uint64) uint64 { return t / q.capacity }

// Enqueue adds a value, spinning while the queue is full.
func (q *QueueIndirect) Enqueue(elem uintptr) {
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

// TryEnqueue adds a value without blocking.
// Returns ErrWouldBlock if the queue is full.
func (q *QueueIndirect) TryEnqueue(elem uintptr) error {
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

// Dequeue removes and returns a value, spinning while the queue is
// empty.
func (q *QueueIndirect) Dequeue() uintptr {
	tail := q.tail.AddAcqRel(1) - 1
	slot := &q.slots[q.idx(tail)]
	turn := q.gen(tail)*2 + 1

	sw := spin.Wait{}
	for slot.turn.LoadAcquire() != turn {
		sw.Once()
	}

	elem := slot.data
	slot.turn.StoreRelease(turn + 1)
	return elem
}

// TryDequeue removes and returns a value without blocking.
// Returns (0, ErrWouldBlock) if the queue is empty.
func (q *QueueIndirect) TryDequeue() (uintptr, error) {
	tail := q.tail.LoadAcquire()
	for {
		slot := &q.slots[q.idx(tail)]
		if slot.turn.LoadAcquire() == q.gen(tail)*2+1 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				elem := slot.data
				slot.turn.StoreRelease(q.gen(tail)*2 + 2)
				return elem, nil
			}
			tail = q.tail.LoadAcquire()
		} else {
			prev := tail
			tail = q.tail.LoadAcquire()
			if tail == prev {
				return 0, ErrWouldBlock
			}
		}
	}
}

// Size returns head - tail as a signed best-effort count.
func (q *QueueIndirect) Size() int {
	return int(int64(q.head.LoadRelaxed() - q.tail.LoadRelaxed()))
}

// Empty reports whether Size() <= 0. Best-effort, like Size.
func (q *QueueIndirect) Empty() bool {
	return q.Size() <= 0
}

// Cap returns the queue capacity.
func (q *QueueIndirect) Cap() int {
	return int(q.capacity)
}
