// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package testbench drives a queue with timed producer/consumer
// fleets and reports how much traffic actually moved. It exists for
// the mpmcbench command and for harness-level tests; the library
// itself does not depend on it.
package testbench

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	mpmc "github.com/redthing1/mpmcqueue"
)

// Config describes the concurrency shape of a run.
type Config struct {
	Producers int
	Consumers int
}

// Result reports the traffic a run moved.
type Result struct {
	Produced int64
	Consumed int64
	Elapsed  time.Duration
}

// RunTimed spawns cfg.Producers producers and cfg.Consumers consumers
// against q for roughly d. Producers stop claiming work when the
// window expires; consumers then drain whatever remains, so a
// completed run always satisfies Produced == Consumed.
//
// gen maps a global message index to the value enqueued for it.
func RunTimed[T any](q *mpmc.Queue[T], cfg Config, d time.Duration, gen func(int) T) Result {
	var produced, consumed atomix.Int64
	var windowOver, producersDone atomix.Bool
	var next atomix.Int64

	start := time.Now()
	timer := time.AfterFunc(d, func() { windowOver.Store(true) })
	defer timer.Stop()

	var prodWg sync.WaitGroup
	for range cfg.Producers {
		prodWg.Add(1)
		go func() {
			defer prodWg.Done()
			backoff := iox.Backoff{}
			for !windowOver.Load() {
				v := gen(int(next.Add(1) - 1))
				for q.TryEnqueue(&v) != nil {
					if windowOver.Load() {
						return
					}
					backoff.Wait()
				}
				backoff.Reset()
				produced.Add(1)
			}
		}()
	}

	go func() {
		prodWg.Wait()
		producersDone.Store(true)
	}()

	var consWg sync.WaitGroup
	for range cfg.Consumers {
		consWg.Add(1)
		go func() {
			defer consWg.Done()
			backoff := iox.Backoff{}
			for {
				if _, err := q.TryDequeue(); err == nil {
					consumed.Add(1)
					backoff.Reset()
					continue
				}
				if producersDone.Load() && consumed.Load() >= produced.Load() {
					return
				}
				backoff.Wait()
			}
		}()
	}

	consWg.Wait()
	return Result{
		Produced: produced.Load(),
		Consumed: consumed.Load(),
		Elapsed:  time.Since(start),
	}
}
