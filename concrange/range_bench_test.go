// ============================================================================
// CONCURRENT RANGE BENCHMARK SUITE
// ============================================================================
//
// Benchmark categories:
//   - Uncontended owner path: PopFront with no thief (lock never touched)
//   - Uncontended thief path: PopBack cost including lock round trip
//   - Contended: owner draining while a thief steals on another core
//   - Comparison: the same drain guarded by sync.Mutex

package concrange

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func BenchmarkPopFrontUncontended(b *testing.B) {
	for _, chunk := range []int64{1, 20, 256} {
		b.Run(fmt.Sprintf("chunk_%d", chunk), func(b *testing.B) {
			r := New(0, math.MaxInt64)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r.PopFront(chunk)
			}
		})
	}
}

func BenchmarkPopBackUncontended(b *testing.B) {
	r := New(0, math.MaxInt64)
	th, _ := r.ClaimThief()
	defer th.Release()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		th.PopBack(10)
	}
}

func BenchmarkSetUncontended(b *testing.B) {
	r := New(0, 1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Set(0, 1000)
	}
}

// BenchmarkDrainWithThief measures owner throughput while a thief steals concurrently.
func BenchmarkDrainWithThief(b *testing.B) {
	r := New(0, 0)
	th, _ := r.ClaimThief()
	defer th.Release()

	var stop atomic.Bool
	var steals atomic.Int64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			if _, _, ok := th.PopBack(10); ok {
				steals.Add(1)
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Set(0, 10_000)
		for {
			if s, e := r.PopFront(20); s == e {
				break
			}
		}
	}
	b.StopTimer()
	stop.Store(true)
	wg.Wait()
	b.ReportMetric(float64(steals.Load())/float64(b.N), "steals/op")
}

// BenchmarkDrainMutexBaseline is the same drain with a plain mutex on both sides.
func BenchmarkDrainMutexBaseline(b *testing.B) {
	var mu sync.Mutex
	var beg, end int64

	var stop atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			mu.Lock()
			if end-beg >= 10 {
				end -= 10
			}
			mu.Unlock()
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mu.Lock()
		beg, end = 0, 10_000
		mu.Unlock()
		for {
			mu.Lock()
			n := end - beg
			if n > 20 {
				n = 20
			}
			beg += n
			mu.Unlock()
			if n == 0 {
				break
			}
		}
	}
	b.StopTimer()
	stop.Store(true)
	wg.Wait()
}
