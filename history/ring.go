// Package history keeps a bounded append-only log of attempted actions. The
// ring is consumed by diagnostic capture, which snapshots the trailing records
// that led up to a failure.
package history

import "time"

// DefaultCapacity bounds the ring when no capacity is configured.
const DefaultCapacity = 50

// Record is one attempted action, successful or not.
type Record struct {
	Step        int           `json:"step"`
	Participant string        `json:"participant"`
	Action      string        `json:"action"`
	Arg         any           `json:"arg,omitempty"`
	PreState    string        `json:"pre_state"`
	PostState   string        `json:"post_state,omitempty"`
	OK          bool          `json:"ok"`
	Elapsed     time.Duration `json:"elapsed"`
	Timestamp   time.Time     `json:"timestamp"`
	Error       string        `json:"error,omitempty"`
}

// Ring is a fixed-capacity append log. Once full, each append evicts the
// oldest record. The zero value is not usable; construct with NewRing.
type Ring struct {
	records  []Record
	capacity int
	start    int
	count    int
}

// NewRing returns a ring holding at most capacity records. Non-positive
// capacities fall back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		records:  make([]Record, capacity),
		capacity: capacity,
	}
}

// Append adds a record, evicting the oldest if the ring is full.
func (r *Ring) Append(rec Record) {
	if r.count < r.capacity {
		r.records[(r.start+r.count)%r.capacity] = rec
		r.count++
		return
	}
	r.records[r.start] = rec
	r.start = (r.start + 1) % r.capacity
}

// Len reports the number of records currently held.
func (r *Ring) Len() int { return r.count }

// Capacity reports the configured maximum.
func (r *Ring) Capacity() int { return r.capacity }

// Records returns the held records oldest-first.
func (r *Ring) Records() []Record {
	out := make([]Record, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.records[(r.start+i)%r.capacity]
	}
	return out
}

// Tail returns the most recent n records oldest-first. If fewer than n are
// held, all of them are returned.
func (r *Ring) Tail(n int) []Record {
	if n > r.count {
		n = r.count
	}
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		out[i] = r.records[(r.start+r.count-n+i)%r.capacity]
	}
	return out
}

// Last returns the most recent record, if any.
func (r *Ring) Last() (Record, bool) {
	if r.count == 0 {
		return Record{}, false
	}
	return r.records[(r.start+r.count-1)%r.capacity], true
}
