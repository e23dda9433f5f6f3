package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/systems"
)

// moveSnapshot captures read-only state for parallel movement.
type moveSnapshot struct {
	Entity ecs.Entity
	Pos    components.Position
	Target components.Position
	Speed  float32
}

// workChunk represents a range of snapshots for a worker to process.
type workChunk struct {
	start, end int
	dt         float32
}

// parallelState holds resources for parallel movement.
type parallelState struct {
	snapshots  []moveSnapshot
	intents    []components.Position
	numWorkers int
	halfExtent float32

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(workers int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &parallelState{
		numWorkers: workers,
		snapshots:  make([]moveSnapshot, 0, 64),
		intents:    make([]components.Position, 0, 64),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *parallelState) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.computeChunk(chunk.start, chunk.end, chunk.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// computeChunk moves a range of snapshots. It touches nothing but its own
// slice of intents.
func (p *parallelState) computeChunk(i0, i1 int, dt float32) {
	for i := i0; i < i1; i++ {
		snap := &p.snapshots[i]
		p.intents[i] = systems.ClampToArena(
			systems.MoveTowards(snap.Pos, snap.Target, snap.Speed*dt),
			p.halfExtent,
		)
	}
}

// moveParallel snapshots every moving creature, fans the work out to the
// pool and applies the results single-threaded.
func (g *Game) moveParallel(dt float32) {
	p := g.parallel
	p.halfExtent = float32(g.config().Arena.HalfExtent)

	// Phase A: Build snapshots (single-threaded)
	p.snapshots = p.snapshots[:0]
	query := g.filter.Query()
	for query.Next() {
		pos, beh, vigor, genes, _, _ := query.Get()
		if vigor.Depleted() || beh.State != components.Wandering {
			continue
		}
		p.snapshots = append(p.snapshots, moveSnapshot{
			Entity: query.Entity(),
			Pos:    *pos,
			Target: beh.TargetPos,
			Speed:  float32(genes.Traits.MoveSpeed),
		})
	}

	n := len(p.snapshots)
	if n == 0 {
		return
	}
	if cap(p.intents) < n {
		p.intents = make([]components.Position, n)
	}
	p.intents = p.intents[:n]

	// Phase B: Compute
	p.startWorkers()
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, dt: dt}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}

	// Phase C: Apply intents (single-threaded, preserves determinism)
	for i, snap := range p.snapshots {
		if pos := g.posMap.Get(snap.Entity); pos != nil {
			*pos = p.intents[i]
		}
	}
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
