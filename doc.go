// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mpmc provides a bounded multi-producer multi-consumer FIFO
// queue that transfers typed values between goroutines without locks.
//
// The queue pairs two independent monotonic ticket dispensers (head
// for producers, tail for consumers) with a per-slot turn counter.
// A ticket t maps to slot t % capacity in generation t / capacity;
// the slot's turn counter holds 2g while empty and awaiting the
// generation-g producer, and 2g+1 while full and awaiting the
// generation-g consumer. Once a ticket is claimed, the enqueue or
// dequeue is wait-free with respect to other threads on other slots;
// threads sharing a slot across generations serialize through its
// turn counter alone.
//
// # Quick Start
//
//	q, err := mpmc.New[Event](1024)
//	if err != nil {
//	    return err
//	}
//
//	// Blocking operations spin until the slot is ready
//	ev := Event{ID: 1}
//	q.Enqueue(&ev)
//	got := q.Dequeue()
//
//	// Non-blocking operations report backpressure
//	if err := q.TryEnqueue(&ev); mpmc.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure
//	}
//
// # Queue Variants
//
// Three flavors share the same protocol:
//
//	Queue[T]      - Generic type-safe queue for any element type
//	QueueIndirect - Queue for uintptr values (pool indices, handles)
//	QueuePtr      - Queue for unsafe.Pointer (zero-copy pointer passing)
//
// The indirect and pointer flavors keep every slot at exactly one
// cache line, verified at compile time. The generic flavor pads each
// slot so that adjacent turn counters never share a cache line; the
// exact slot size depends on the element type.
//
// # Blocking and Non-Blocking Operations
//
// Enqueue and Dequeue claim a ticket unconditionally and busy-wait
// (with a CPU pause hint, no OS wake-ups) until the claimed slot
// reaches the expected turn. They offer no cancellation; callers that
// need an escape hatch should poll the Try variants instead:
//
//	backoff := iox.Backoff{}
//	for q.TryEnqueue(&item) != nil {
//	    backoff.Wait()
//	}
//
// TryEnqueue and TryDequeue fail only when the ticket counter is
// observed unchanged across two consecutive loads while the target
// slot is not in the expected turn. A failure therefore means the
// queue was genuinely full (or empty) at that generation, not that
// the caller lost a race.
//
// # Size and Ordering
//
// Size returns head - tail with relaxed loads on both counters. The
// value can be negative when consumers have claimed tickets that no
// producer has satisfied yet; it is exact only once all participating
// goroutines have quiesced. Elements are delivered in ticket order per
// dispenser; there is no cross-slot ordering between elements that
// distinct producers insert concurrently.
//
// # Memory Model
//
// Every load of a turn counter consulted for readiness uses acquire
// ordering and every publish uses release ordering, so the producer's
// element write happens-before the consumer's read, and the consumer's
// slot release happens-before the next generation's write. Ticket
// counters are 64-bit and assumed never to wrap in practical
// lifetimes. head and tail live on distinct cache lines, and adjacent
// slots keep their turn counters at least a cache line apart.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but
// cannot observe happens-before relationships established through
// atomic memory orderings on separate variables. The turn handshake
// is exactly such a relationship, so concurrent tests of this package
// are excluded from race runs via the RaceEnabled constant.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package mpmc
