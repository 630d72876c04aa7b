package workerpool

import (
	"sync/atomic"
	"testing"
)

func TestParallelForRunsEveryWorker(t *testing.T) {
	p := New(4)
	defer p.Close()

	var seen [4]int32
	p.ParallelFor(func(worker int) {
		atomic.AddInt32(&seen[worker], 1)
	})

	for i, v := range seen {
		if v != 1 {
			t.Errorf("worker %d ran %d times, want 1", i, v)
		}
	}
}

func TestParallelForReusesWorkersAcrossRounds(t *testing.T) {
	p := New(3)
	defer p.Close()

	var total int64
	for round := 0; round < 5; round++ {
		p.ParallelFor(func(worker int) {
			atomic.AddInt64(&total, 1)
		})
	}
	if total != 15 {
		t.Errorf("total = %d, want 15", total)
	}
}

func TestN(t *testing.T) {
	p := New(7)
	defer p.Close()
	if p.N() != 7 {
		t.Errorf("N() = %d, want 7", p.N())
	}
}
