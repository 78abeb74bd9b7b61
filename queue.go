// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import (
	"unsafe"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Queue is a bounded multi-producer multi-consumer FIFO queue.
//
// Producers and consumers rendezvous through per-slot turn counters:
// a slot with turn 2g is empty and awaits the generation-g producer,
// a slot with turn 2g+1 is full and awaits the generation-g consumer.
// Tickets are handed out by two independent monotonic counters (head
// for producers, tail for consumers), so producers never contend with
// consumers on a shared counter, and threads assigned to different
// slots never wait on each other.
//
// Capacity is fixed at construction and need not be a power of 2.
// A ticket t maps to slot t % capacity in generation t / capacity.
//
// Enqueue and Dequeue block by spinning on the slot turn. TryEnqueue
// and TryDequeue never spin on a full or empty queue; they return
// ErrWouldBlock only after observing the ticket counter unchanged
// across two consecutive loads, which distinguishes a genuinely
// unavailable slot from transient contention.
//
// A Queue must be used through the pointer returned by New and must
// not be copied: the interior atomics are the synchronization point
// referenced by every participating goroutine.
type Queue[T any] struct {
	_        pad
	head     atomix.Uint64 // Producer ticket dispenser
	_        pad
	tail     atomix.Uint64 // Consumer ticket dispenser
	_        pad
	slots    []Slot[T]
	capacity uint64
}

// Slot is a single cell of the ring: a turn counter plus storage for
// one element. Storage is occupied iff turn is odd. Exported only so
// that Allocator implementations can provide the backing array; the
// fields are owned by the queue.
type Slot[T any] struct {
	turn atomix.Uint64
	data T
	_    padShort // Separate adjacent turn counters
}

// New creates a queue with the given capacity using heap storage.
// Returns ErrInvalidCapacity if capacity < 1.
func New[T any](capacity int) (*Queue[T], error) {
	return NewWithAllocator[T](capacity, HeapAllocator[T]{})
}

// NewWithAllocator creates a queue whose slot array is obtained from
// alloc. The array is requested with one spare slot so the last live
// slot does not share a cache line with whatever follows the array.
// Returns ErrInvalidCapacity if capacity < 1, ErrAllocation if the
// allocator fails or returns storage that does not meet the slot
// type's alignment.
func NewWithAllocator[T any](capacity int, alloc Allocator[T]) (*Queue[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	slots := alloc.Allocate(capacity + 1)
	if len(slots) < capacity+1 {
		return nil, ErrAllocation
	}
	if uintptr(unsafe.Pointer(&slots[0]))%unsafe.Alignof(slots[0]) != 0 {
		alloc.Release(slots)
		return nil, ErrAllocation
	}

	// Allocators may hand back recycled storage; every slot starts
	// at turn 0 with empty storage.
	clear(slots)

	return &Queue[T]{
		slots:    slots,
		capacity: uint64(capacity),
	}, nil
}

// idx maps a ticket to its slot.
func (q *Queue[T]) idx(t uint64) uint64 { return t % q.capacity }

// gen maps a ticket to its generation, the number of complete laps
// around the ring.
func (q *Queue[T]) gen(t uint64) uint64 { return t / q.capacity }

// Enqueue adds an element to the queue, spinning while the claimed
// slot is still held by the previous generation's consumer. The
// element is copied from *elem into the queue.
func (q *Queue[T]) Enqueue(elem *T) {
	head := q.head.AddAcqRel(1) - 1
	slot := &q.slots[q.idx(head)]
	turn := q.gen(head) * 2

	sw := spin.Wait{}
	for slot.turn.LoadAcquire() != turn {
		sw.Once()
	}

	slot.data = *elem
	slot.turn.StoreRelease(turn + 1)
}

// TryEnqueue adds an element to the queue without blocking.
// Returns ErrWouldBlock if the queue is full.
func (q *Queue[T]) TryEnqueue(elem *T) error {
	head := q.head.LoadAcquire()
	for {
		slot := &q.slots[q.idx(head)]
		if slot.turn.LoadAcquire() == q.gen(head)*2 {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				slot.data = *elem
				slot.turn.StoreRelease(q.gen(head)*2 + 1)
				return nil
			}
			head = q.head.LoadAcquire()
		} else {
			prev := head
			head = q.head.LoadAcquire()
			if head == prev {
				// Nobody advanced head between the two
				// observations: the slot is genuinely
				// unavailable for this generation.
				return ErrWouldBlock
			}
		}
	}
}

// Dequeue removes and returns the element at the head of the queue,
// spinning until the claimed slot has been filled by its producer.
func (q *Queue[T]) Dequeue() T {
	tail := q.tail.AddAcqRel(1) - 1
	slot := &q.slots[q.idx(tail)]
	turn := q.gen(tail)*2 + 1

	sw := spin.Wait{}
	for slot.turn.LoadAcquire() != turn {
		sw.Once()
	}

	elem := slot.data
	var zero T
	slot.data = zero
	slot.turn.StoreRelease(turn + 1)
	return elem
}

// TryDequeue removes and returns an element without blocking.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Queue[T]) TryDequeue() (T, error) {
	tail := q.tail.LoadAcquire()
	for {
		slot := &q.slots[q.idx(tail)]
		if slot.turn.LoadAcquire() == q.gen(tail)*2+1 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.turn.StoreRelease(q.gen(tail)*2 + 2)
				return elem, nil
			}
			tail = q.tail.LoadAcquire()
		} else {
			prev := tail
			tail = q.tail.LoadAcquire()
			if tail == prev {
				var zero T
				return zero, ErrWouldBlock
			}
		}
	}
}

// Size returns the difference between enqueue and dequeue tickets.
// The result can be negative when consumers have claimed tickets that
// producers have not yet satisfied. While producers or consumers are
// active the value is a best-effort guess; it is exact once all
// participating goroutines have quiesced.
func (q *Queue[T]) Size() int {
	return int(int64(q.head.LoadRelaxed() - q.tail.LoadRelaxed()))
}

// Empty reports whether Size() <= 0. Best-effort, like Size.
func (q *Queue[T]) Empty() bool {
	return q.Size() <= 0
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}
