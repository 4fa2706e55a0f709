package domain

import (
	"sync"
	"time"
)

// Stream ids are ms*1000+seq. Real events use seq 0..998, ticks use 999.
const (
	idsPerMillisecond = 1000
	tickSequence      = 999
)

func IsTickID(id uint64) bool {
	return id%idsPerMillisecond == tickSequence
}

// TickTimestamp returns the unix ms carried by a tick id.
func TickTimestamp(id uint64) uint64 {
	return id / idsPerMillisecond
}

func TickID(ms uint64) uint64 {
	return ms*idsPerMillisecond + tickSequence
}

// IDAllocator hands out strictly increasing stream ids for events and ticks.
type IDAllocator struct {
	mu     sync.Mutex
	now    func() time.Time
	lastMs uint64
	seq    uint64
}

func NewIDAllocator(now func() time.Time) *IDAllocator {
	if now == nil {
		now = time.Now
	}
	return &IDAllocator{now: now}
}

// NextEvent returns the id and the receipt timestamp of a new event.
func (a *IDAllocator) NextEvent() (id uint64, ms uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ms = uint64(a.now().UnixMilli())
	if ms < a.lastMs {
		ms = a.lastMs
	}
	if ms == a.lastMs {
		a.seq++
		if a.seq >= tickSequence {
			ms++
			a.seq = 0
		}
	} else {
		a.seq = 0
	}
	a.lastMs = ms
	return ms*idsPerMillisecond + a.seq, ms
}

// NextTick returns a tick id no older than any id handed out so far.
func (a *IDAllocator) NextTick() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	ms := uint64(a.now().UnixMilli())
	if ms < a.lastMs {
		ms = a.lastMs
	}
	a.lastMs = ms
	// the next event in this millisecond rolls over to the next one
	a.seq = tickSequence
	return TickID(ms)
}
