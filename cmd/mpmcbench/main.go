// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// mpmcbench measures queue throughput across a matrix of
// producer/consumer counts and prints a JSON report. It is a
// developer harness, not part of the library surface.
//
// Usage:
//
//	mpmcbench -capacity 1024 -duration 2s -max-producers 8 -max-consumers 8
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/valyala/fastrand"

	mpmc "github.com/redthing1/mpmcqueue"
	"github.com/redthing1/mpmcqueue/internal/testbench"
)

// BenchmarkResult holds results for one configuration.
type BenchmarkResult struct {
	NumProducers  int     `json:"num_producers"`
	NumConsumers  int     `json:"num_consumers"`
	Capacity      int     `json:"capacity"`
	NumProduced   int64   `json:"num_produced"`
	NumConsumed   int64   `json:"num_consumed"`
	ActualElapsed string  `json:"actual_elapsed"`
	Throughput    float64 `json:"throughput_msgs_sec"`
}

// SystemInfo holds host information for the report.
type SystemInfo struct {
	NumCPU      int     `json:"num_cpu"`
	CPUModel    string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH      string  `json:"go_arch"`
	GoVersion   string  `json:"go_version"`
	TotalMemory uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete bench session.
type FullReport struct {
	SystemInfo SystemInfo        `json:"system_info"`
	Benchmarks []BenchmarkResult `json:"benchmarks"`
}

func collectSystemInfo() SystemInfo {
	info := SystemInfo{
		NumCPU:    runtime.NumCPU(),
		GOARCH:    runtime.GOARCH,
		GoVersion: runtime.Version(),
	}
	if cpuInfos, err := cpu.Info(); err == nil && len(cpuInfos) > 0 {
		info.CPUModel = cpuInfos[0].ModelName
		info.CPUSpeedMHz = cpuInfos[0].Mhz
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}
	return info
}

func main() {
	capacity := flag.Int("capacity", 1024, "queue capacity")
	duration := flag.Duration("duration", 2*time.Second, "measurement window per configuration")
	maxProducers := flag.Int("max-producers", runtime.NumCPU()/2, "producer counts swept as 1,2,4,... up to this value")
	maxConsumers := flag.Int("max-consumers", runtime.NumCPU()/2, "consumer counts swept as 1,2,4,... up to this value")
	flag.Parse()

	if *capacity < 1 {
		fmt.Fprintln(os.Stderr, "capacity must be at least 1")
		os.Exit(1)
	}

	var configs []testbench.Config
	for p := 1; p <= max(*maxProducers, 1); p *= 2 {
		for c := 1; c <= max(*maxConsumers, 1); c *= 2 {
			configs = append(configs, testbench.Config{Producers: p, Consumers: c})
		}
	}

	report := FullReport{SystemInfo: collectSystemInfo()}
	bar := progressbar.Default(int64(len(configs)), "benchmarking")

	for _, cfg := range configs {
		q, err := mpmc.New[uint64](*capacity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating queue: %v\n", err)
			os.Exit(1)
		}

		// Payload carries the message index plus random low bits so
		// consumers cannot be satisfied from a constant cache line.
		res := testbench.RunTimed(q, cfg, *duration, func(i int) uint64 {
			return uint64(i)<<8 | uint64(fastrand.Uint32n(1<<8))
		})

		report.Benchmarks = append(report.Benchmarks, BenchmarkResult{
			NumProducers:  cfg.Producers,
			NumConsumers:  cfg.Consumers,
			Capacity:      *capacity,
			NumProduced:   res.Produced,
			NumConsumed:   res.Consumed,
			ActualElapsed: res.Elapsed.String(),
			Throughput:    float64(res.Consumed) / res.Elapsed.Seconds(),
		})
		_ = bar.Add(1)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshalling report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
