package profiler

import "runtime"

// Stats is a sample of the runtime counters.
type Stats struct {
	HeapAlloc  uint64 // bytes of live heap objects
	Mallocs    uint64 // cumulative heap allocations
	Goroutines int
	CPUs       int
}

// ReadStats samples the runtime. It stops the world briefly; call it at most
// a few times per second.
func ReadStats() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		HeapAlloc:  m.HeapAlloc,
		Mallocs:    m.Mallocs,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}

// HeapMB returns HeapAlloc in MiB.
func (s Stats) HeapMB() float64 { return float64(s.HeapAlloc) / (1 << 20) }
