// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !race

// This file contains examples that use atomix concurrency primitives.
// These trigger false positives with Go's race detector because atomix
// atomic operations appear as regular memory accesses to the detector.
// The examples are correct; they're excluded from race testing.

package mpmc_test

import (
	"fmt"
	"sync"

	mpmc "github.com/redthing1/mpmcqueue"
)

// ExampleNew demonstrates basic FIFO usage on a single goroutine.
func ExampleNew() {
	q, err := mpmc.New[int](8)
	if err != nil {
		panic(err)
	}

	for i := 1; i <= 5; i++ {
		v := i * 10
		q.Enqueue(&v)
	}

	for range 5 {
		fmt.Println(q.Dequeue())
	}

	// Output:
	// 10
	// 20
	// 30
	// 40
	// 50
}

// ExampleQueue_TryEnqueue demonstrates backpressure handling with the
// non-blocking API.
func ExampleQueue_TryEnqueue() {
	q, err := mpmc.New[string](1)
	if err != nil {
		panic(err)
	}

	a, b := "first", "second"
	fmt.Println(q.TryEnqueue(&a))
	fmt.Println(mpmc.IsWouldBlock(q.TryEnqueue(&b)))

	// Output:
	// <nil>
	// true
}

// ExampleQueue_Enqueue demonstrates a worker-pool handoff: multiple
// submitters, multiple workers, blocking operations on both sides.
func ExampleQueue_Enqueue() {
	q, err := mpmc.New[int](16)
	if err != nil {
		panic(err)
	}

	var wg sync.WaitGroup
	var sum [4]int

	// Workers
	for w := range 4 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 8 {
				sum[id] += q.Dequeue()
			}
		}(w)
	}

	// Submitters
	for p := range 2 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range 16 {
				v := id*16 + i
				q.Enqueue(&v)
			}
		}(p)
	}

	wg.Wait()
	fmt.Println(sum[0] + sum[1] + sum[2] + sum[3])

	// Output:
	// 496
}

// ExampleNewIndirect demonstrates an index-based free list over a
// buffer pool.
func ExampleNewIndirect() {
	pool := make([][]byte, 4)
	freeList, err := mpmc.NewIndirect(4)
	if err != nil {
		panic(err)
	}

	// Initialize free list with buffer indices
	for i := range pool {
		pool[i] = make([]byte, 4096)
		freeList.Enqueue(uintptr(i))
	}

	// Allocate: take an index from the free list
	idx, err := freeList.TryDequeue()
	if err != nil {
		panic(err)
	}
	buf := pool[idx]
	fmt.Println(len(buf))

	// Free: return the index
	freeList.Enqueue(idx)
	fmt.Println(freeList.Size())

	// Output:
	// 4096
	// 4
}
