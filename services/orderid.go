package services

import (
	"fmt"
	"sync"
	"time"
)

// orderIDGen produces timestamp-derived numeric order ids that stay unique
// when several orders land in the same millisecond: the base is the Unix
// millisecond shifted three decimal places, plus an in-millisecond
// sequence. Ids strictly increase within a process; the unique index on
// orders.orderId covers the cross-process case.
type orderIDGen struct {
	mu     sync.Mutex
	lastMs int64
	seq    int64
	now    func() time.Time
}

func newOrderIDGen(now func() time.Time) *orderIDGen {
	if now == nil {
		now = time.Now
	}
	return &orderIDGen{now: now}
}

func (g *orderIDGen) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms == g.lastMs {
		g.seq++
	} else {
		g.lastMs = ms
		g.seq = 0
	}
	// seq wraps at 1000; the id would collide only past a thousand
	// creations per millisecond in one process.
	return fmt.Sprintf("%d%03d", ms, g.seq%1000)
}
