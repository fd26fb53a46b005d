// Package profiler records named timing scopes and exports them as an
// evented speedscope profile. It also samples the runtime counters shown by
// the debug overlay.
//
// The package level Start only records in builds with the "profile" tag; in
// other builds it returns a no-op and costs one call.
package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNoEvents is returned when there is nothing to export.
var ErrNoEvents = errors.New("profiler: no events")

type event struct {
	at    int64 // ns
	frame int
	open  bool
}

// Recorder keeps the last capacity scope events in a ring. Start may be
// called from any goroutine.
type Recorder struct {
	cap   uint64
	write atomic.Uint64
	evs   []event

	mu    sync.Mutex
	names []string
	index map[string]int

	now func() int64
}

// NewRecorder returns a recorder holding up to capacity events; a
// non-positive capacity selects 1<<20.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	return &Recorder{
		cap:   uint64(capacity),
		evs:   make([]event, capacity),
		index: map[string]int{},
		now:   func() int64 { return time.Now().UnixNano() },
	}
}

// Start opens a scope and returns the func that closes it.
func (r *Recorder) Start(name string) func() {
	id := r.intern(name)
	start := r.now()
	r.push(event{at: start, frame: id, open: true})
	return func() {
		r.push(event{at: max(r.now(), start), frame: id})
	}
}

// Len returns the number of events currently retained.
func (r *Recorder) Len() int { return int(min(r.write.Load(), r.cap)) }

func (r *Recorder) push(e event) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// snapshot returns the retained events in write order.
func (r *Recorder) snapshot() []event {
	n := r.write.Load()
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

func (r *Recorder) intern(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.index[name]; ok {
		return id
	}
	id := len(r.names)
	r.index[name] = id
	r.names = append(r.names, name)
	return id
}

type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit"`
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"` // "O" or "C"
	At    int64  `json:"at"`   // µs since the first event
	Frame int    `json:"frame"`
}

// WriteSpeedscope encodes the retained events as an evented speedscope
// profile. Closes whose open fell out of the ring are dropped and scopes
// still open are closed at the last timestamp.
func (r *Recorder) WriteSpeedscope(w io.Writer) error {
	evs := r.snapshot()
	if len(evs) == 0 {
		return ErrNoEvents
	}

	r.mu.Lock()
	frames := make([]ssFrame, len(r.names))
	for i, name := range r.names {
		frames[i] = ssFrame{Name: name}
	}
	r.mu.Unlock()

	base := evs[0].at
	out := make([]ssEvent, 0, len(evs))
	stack := make([]int, 0, 64)
	var last int64
	for _, e := range evs {
		at := max((e.at-base)/1000, last)
		if e.open {
			out = append(out, ssEvent{Type: "O", At: at, Frame: e.frame})
			stack = append(stack, e.frame)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: at, Frame: e.frame})
		}
		last = at
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: last, Frame: stack[i]})
	}
	if len(out) == 0 {
		return ErrNoEvents
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: frames},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     "es2 frame scopes",
			Unit:     "microseconds",
			EndValue: last,
			Events:   out,
		}},
		Exporter: "es2-profiler",
		Name:     "es2 capture",
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// WriteFile writes the speedscope profile to path through a temporary file.
func (r *Recorder) WriteFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	if err := r.WriteSpeedscope(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("profiler: %w", err)
	}
	return os.Rename(tmp, path)
}
