package core

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Progress is a thread-safe snapshot of an in-flight engine run, polled by
// the optional status server while a long TPA or PDKind run is still in
// its main loop. The engine itself never shares frames across goroutines;
// Progress is the
// one piece of state an engine writes from its own goroutine and a status
// handler reads from another, so every access goes through the mutex.
type Progress struct {
	mu sync.RWMutex

	engine     string
	iteration  int
	power      int
	depth      int
	lemmaCount int
	frameSize  int
	queries    int

	// queriesThisPower and queriesByPower split the running query count into
	// a per-power history so the status server can report a mean/stddev of
	// queries-per-power instead of just the running total (TPA's power loop
	// is the natural unit of "how much work one round cost").
	queriesThisPower int
	queriesByPower   []float64
}

// NewProgress creates a Progress tracker labelled with the engine name.
func NewProgress(engine string) *Progress {
	return &Progress{engine: engine}
}

// Snapshot is a point-in-time copy of Progress's fields, safe to marshal.
type Snapshot struct {
	Engine     string `json:"engine"`
	Iteration  int    `json:"iteration"`
	Power      int    `json:"power"`
	Depth      int    `json:"depth"`
	LemmaCount int    `json:"lemma_count"`
	FrameSize  int    `json:"frame_size"`
	Queries    int    `json:"queries"`

	// QueriesPerPowerMean/StdDev are zero until at least one power has
	// completed; TPA's power loop is the only caller that ever moves
	// queriesByPower, so kind and pdkind always report zero here.
	QueriesPerPowerMean   float64 `json:"queries_per_power_mean"`
	QueriesPerPowerStdDev float64 `json:"queries_per_power_stddev"`
}

// Snapshot reads every field under the read lock.
func (p *Progress) Snapshot() Snapshot {
	if p == nil {
		return Snapshot{}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap := Snapshot{
		Engine:     p.engine,
		Iteration:  p.iteration,
		Power:      p.power,
		Depth:      p.depth,
		LemmaCount: p.lemmaCount,
		FrameSize:  p.frameSize,
		Queries:    p.queries,
	}
	if len(p.queriesByPower) > 0 {
		snap.QueriesPerPowerMean, snap.QueriesPerPowerStdDev = stat.MeanStdDev(p.queriesByPower, nil)
	}
	return snap
}

// SetDepth records PDKind's running depth n or kind's current k.
func (p *Progress) SetDepth(n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.depth = n
	p.mu.Unlock()
}

// SetPower records TPA's current doubling power, first archiving the query
// count spent on the power just finished so Snapshot can report a
// per-power mean/stddev.
func (p *Progress) SetPower(n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.power != 0 || p.queriesThisPower != 0 {
		p.queriesByPower = append(p.queriesByPower, float64(p.queriesThisPower))
	}
	p.queriesThisPower = 0
	p.power = n
	p.mu.Unlock()
}

// SetFrameSizes records PDKind's induction frame size and lemma count (the
// two coincide today since every element carries exactly one lemma, but are
// reported separately in case a future frame representation groups lemmas).
func (p *Progress) SetFrameSizes(frameSize, lemmaCount int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.frameSize = frameSize
	p.lemmaCount = lemmaCount
	p.mu.Unlock()
}

// IncrIteration bumps the outer main-loop iteration counter.
func (p *Progress) IncrIteration() {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.iteration++
	p.mu.Unlock()
}

// IncrQueries bumps the count of SMT queries issued so far, a cheap proxy
// for run cost that does not require instrumenting every call site equally.
func (p *Progress) IncrQueries(n int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.queries += n
	p.queriesThisPower += n
	p.mu.Unlock()
}
