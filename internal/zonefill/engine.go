// Package zonefill computes the copper pours of a board's zones: outline
// smoothing, clearance and thermal knockouts, spoke bridging, minimum
// width filtering, optional hatching and isolated island removal. A fill
// run is all-or-nothing: the board is only mutated after every zone and
// layer computed successfully.
package zonefill

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"pcb-copper/internal/board"
	"pcb-copper/internal/connectivity"
	"pcb-copper/internal/drc"
	"pcb-copper/pkg/geometry"
)

var (
	// ErrBusy means a connectivity rebuild holds the lock; retry later.
	ErrBusy = errors.New("zonefill: connectivity data is busy")

	// ErrCancelled means the run was cancelled; no zone was modified.
	ErrCancelled = errors.New("zonefill: fill cancelled")

	// ErrOutOfDate is returned by a check run when the stored fills no
	// longer match what a fresh fill would produce.
	ErrOutOfDate = errors.New("zonefill: zone fills are out of date")
)

// pollInterval is how often the driving loop pumps the progress reporter
// while workers run.
const pollInterval = 100 * time.Millisecond

// Filler runs fill computations over a board.
type Filler struct {
	board    *board.Board
	resolver drc.Resolver
	conn     *connectivity.Connectivity
	progress Progress
}

// NewFiller creates a fill engine. A nil progress gets NullProgress.
func NewFiller(b *board.Board, r drc.Resolver, conn *connectivity.Connectivity, progress Progress) *Filler {
	if progress == nil {
		progress = NullProgress{}
	}
	return &Filler{board: b, resolver: r, conn: conn, progress: progress}
}

// unit is one (zone, layer) fill computation and its result.
type unit struct {
	zone  *board.Zone
	layer board.LayerID

	raw, final *geometry.PolySet
	islands    []int // outline indices retained as islands
}

// Fill computes the pours for the given zones. In check mode the board is
// never modified: the computed fills are hashed against the stored ones
// and ErrOutOfDate reports a mismatch. In fill mode results are committed
// together at the end; cancellation at any point leaves every zone as it
// was.
func (f *Filler) Fill(zones []*board.Zone, check bool) error {
	if !f.conn.TryLock() {
		return ErrBusy
	}
	defer f.conn.Unlock()

	f.progress.AdvancePhase("preparing")
	f.board.WarmShapeCaches()

	var units []*unit
	for _, z := range zones {
		if z.Keepout {
			continue
		}
		for _, layer := range z.LayerSpan.Seq() {
			units = append(units, &unit{zone: z, layer: layer})
		}
	}

	f.progress.AdvancePhase("filling")
	f.progress.SetMaxProgress(len(units))
	err := f.runWorkers(len(units), func(i int) {
		u := units[i]
		u.raw, u.final = f.fillZoneLayer(u.zone, u.layer)
	})
	if err != nil {
		return err
	}

	f.progress.AdvancePhase("removing insulated copper")
	for _, u := range units {
		f.removeIslands(u)
		if f.progress.IsCancelled() {
			return ErrCancelled
		}
	}

	if check {
		for _, u := range units {
			if u.final.Hash() != u.zone.HashValue(u.layer) {
				return ErrOutOfDate
			}
		}
		return nil
	}

	f.progress.AdvancePhase("committing")
	for _, z := range zones {
		z.UnFill()
	}
	for _, u := range units {
		u.zone.SetFill(u.layer, u.raw, u.final)
		for _, idx := range u.islands {
			u.zone.MarkIsland(u.layer, idx)
		}
		u.zone.BuildHashValue(u.layer)
	}

	f.progress.AdvancePhase("caching polygons")
	f.progress.SetMaxProgress(len(zones))
	return f.runWorkers(len(zones), func(i int) {
		zones[i].CalculateFilledArea()
		zones[i].CacheRenderData()
	})
}

// runWorkers spreads n work items over a pool sized to the machine, while
// a driving loop pumps the progress reporter until the pool drains.
func (f *Filler) runWorkers(n int, work func(int)) error {
	if n == 0 {
		return nil
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n || f.progress.IsCancelled() {
					return
				}
				work(i)
				f.progress.AdvanceProgress()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			if f.progress.IsCancelled() {
				return ErrCancelled
			}
			return nil
		case <-ticker.C:
			f.progress.KeepRefreshing()
		}
	}
}

// removeIslands rebuilds a unit's final fill without the outlines the
// zone's island policy discards: isolated copper per the policy, plus
// anything that drifted outside the board edge. Retained isolated
// outlines are recorded so they can be flagged on commit.
func (f *Filler) removeIslands(u *unit) {
	if u.final == nil || u.final.IsEmpty() {
		return
	}

	isolated := make(map[int]bool)
	if u.zone.Net > 0 {
		for _, i := range connectivity.IsolatedOutlines(f.board, u.zone.Net, u.layer, u.final) {
			isolated[i] = true
		}
	}

	checkEdge := f.board.HasValidOutline()
	if checkEdge {
		f.board.Outline.BuildBBoxCaches()
	}

	kept := geometry.NewPolySet()
	var islands []int
	for i := 0; i < u.final.OutlineCount(); i++ {
		pts := u.final.Outline(i)
		outside := checkEdge && len(pts) > 0 && !f.board.Outline.Contains(pts[0])
		// Connected copper of a netted zone is never cut at the board
		// edge; only no-net pours and isolated islands are.
		if u.zone.Net <= 0 && outside {
			continue
		}
		if isolated[i] {
			if outside {
				continue
			}
			switch u.zone.IslandPolicy {
			case board.IslandAlways:
				continue
			case board.IslandByArea:
				if u.final.OutlineArea(i) < u.zone.MinIslandArea {
					continue
				}
			}
			islands = append(islands, kept.OutlineCount())
		}
		kept.AddOutline(pts)
	}
	u.final = kept
	u.islands = islands
}
