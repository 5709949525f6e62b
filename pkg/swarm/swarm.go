// Package swarm implements the work-stealing coordinator/worker runtime that
// parallelizes Ite construction: a dynamically-growing, mutex-guarded job
// queue feeds N long-lived worker goroutines, all sharing one hash-consed
// node store and one memoization cache keyed by normalized ITE triple. The
// cache's entries track whether a triple's answer is still being assembled
// from two sub-jobs (Parts) or is already known (Answer), exactly mirroring
// how pkg/bdd.Store.Ite recurses, but with the two cofactor branches able to
// land on different workers.
package swarm

import (
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"

	"github.com/oisee/boolex/pkg/ite"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

type triple struct {
	F, G, H nid.NID
}

// node is the pool's own hash-consed store entry, identical in shape to
// pkg/bdd.Store's internal node.
type node struct {
	V  vid.VID
	Hi nid.NID
	Lo nid.NID
}

type cacheState int

const (
	stateFresh cacheState = iota
	stateParts
	stateAnswer
)

// dep records a job waiting on this triple: either outer query qid (parent
// nil) or the parent entry whose hi (part==0) or lo (part==1) slot the
// answer fills, with invert telling the waiter whether to negate the
// filled-in child before using it.
type dep struct {
	qid    uint64
	parent *triple
	part   int
	invert bool
}

type cacheEntry struct {
	state  cacheState
	v      vid.VID
	hi, lo nid.NID // valid once both are filled (state == stateParts with both set, or stateAnswer)
	hiSet  bool
	loSet  bool
	answer nid.NID
	waiter []dep // jobs blocked on this entry resolving
}

// job is one unit of work: compute the NID for a normalized ITE triple and
// either answer the coordinator's query qid directly (parent == nil) or fill
// in a dependent entry's hi/lo slot.
type job struct {
	qid    uint64
	key    triple
	parent *triple // if non-nil, the entry to notify (by key) once this job answers
	part   int
	invert bool
}

// Pool is the coordinator plus its worker goroutines. The zero value is not
// usable; construct with New.
type Pool struct {
	// NumWorkers is the number of long-lived worker goroutines, mirroring
	// pkg/search's WorkerPool.NumWorkers field.
	NumWorkers int

	mu    sync.Mutex
	nodes []node
	index map[node]uint32
	cache map[triple]*cacheEntry
	queue []job
	cond  *sync.Cond

	tests atomic64
	hits  atomic64

	outerMu sync.Mutex
	pending map[uint64]chan nid.NID
	nextQid uint64
	running bool
}

// atomic64 is a tiny counter; pkg/search's teacher uses sync/atomic.Int64
// directly, reproduced here under the pool's own mutex instead since the
// pool already serializes cache access on every worker step.
type atomic64 struct{ v int64 }

func (a *atomic64) add(n int64) { a.v += n }
func (a *atomic64) load() int64 { return a.v }

// New starts a pool with numWorkers long-lived goroutines (default:
// runtime.NumCPU(), mirroring the teacher's search.Config/stoke.Config
// zero-value convention).
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	p := &Pool{
		NumWorkers: numWorkers,
		index:      make(map[node]uint32),
		cache:      make(map[triple]*cacheEntry),
		pending:    make(map[uint64]chan nid.NID),
	}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < numWorkers; i++ {
		go p.workerLoop(i)
	}
	return p
}

// Reset clears the shared ITE cache without tearing down the worker
// goroutines; the node store, its hash index and the Stats counters are
// kept. Panics if a query is still outstanding.
func (p *Pool) Reset() {
	p.outerMu.Lock()
	defer p.outerMu.Unlock()
	if p.running {
		panic("swarm: Reset called while a query is outstanding")
	}
	p.mu.Lock()
	p.cache = make(map[triple]*cacheEntry)
	p.mu.Unlock()
}

// Stats returns the cumulative (tests, hits) counters across every worker
// since the pool was created (Reset does not zero them), mirroring pkg/search's
// WorkerPool.Stats().
func (p *Pool) Stats() (tests, hits int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tests.load(), p.hits.load()
}

// Ite computes if f then g else h, dispatching the outermost normalized
// triple as a single Job and blocking for its Ret.
func (p *Pool) Ite(f, g, h nid.NID) nid.NID {
	norm := ite.Normalize(f, g, h)
	if norm.Kind == ite.KindNid {
		return norm.N
	}
	key := triple{norm.F, norm.G, norm.H}
	outerInv := norm.Kind == ite.KindNotIte

	p.outerMu.Lock()
	p.running = true
	qid := p.nextQid
	p.nextQid++
	ch := make(chan nid.NID, 1)
	p.pending[qid] = ch
	p.outerMu.Unlock()

	p.submit(job{qid: qid, key: key})
	n := <-ch

	p.outerMu.Lock()
	delete(p.pending, qid)
	p.running = false
	p.outerMu.Unlock()

	if outerInv {
		n = nid.Not(n)
	}
	return n
}

func (p *Pool) submit(j job) {
	p.mu.Lock()
	p.queue = append(p.queue, j)
	p.cond.Signal()
	p.mu.Unlock()
}

func (p *Pool) workerLoop(id int) {
	rng := rand.New(rand.NewPCG(uint64(id)+1, 0x9E3779B97F4A7C15))
	for {
		p.mu.Lock()
		for len(p.queue) == 0 {
			p.cond.Wait()
		}
		// jitter which queued job this worker takes, per SPEC_FULL.md's
		// note that dequeue order (and hence assigned node indices) is
		// intentionally nondeterministic across runs.
		i := rng.IntN(len(p.queue))
		j := p.queue[i]
		p.queue[i] = p.queue[len(p.queue)-1]
		p.queue = p.queue[:len(p.queue)-1]
		p.mu.Unlock()

		p.process(j)
	}
}

func (p *Pool) process(j job) {
	p.mu.Lock()
	p.tests.add(1)
	entry, ok := p.cache[j.key]
	if ok && entry.state == stateAnswer {
		p.hits.add(1)
		ans := entry.answer
		p.mu.Unlock()
		p.resolve(j, ans)
		return
	}
	if !ok {
		entry = &cacheEntry{state: stateFresh}
		p.cache[j.key] = entry
	}
	entry.waiter = append(entry.waiter, dep{qid: j.qid, parent: j.parent, part: j.part, invert: j.invert})
	if entry.state != stateFresh {
		p.mu.Unlock()
		return
	}
	entry.state = stateParts
	f, g, h := j.key.F, j.key.G, j.key.H
	v := topmostOf3(nidVid(f), nidVid(g), nidVid(h))
	hi1, hi2, hi3 := p.whenHiLocked(v, f), p.whenHiLocked(v, g), p.whenHiLocked(v, h)
	lo1, lo2, lo3 := p.whenLoLocked(v, f), p.whenLoLocked(v, g), p.whenLoLocked(v, h)
	entry.v = v
	p.mu.Unlock()

	hiNorm := ite.Normalize(hi1, hi2, hi3)
	loNorm := ite.Normalize(lo1, lo2, lo3)

	p.dispatchHalf(j.key, 0, hiNorm)
	p.dispatchHalf(j.key, 1, loNorm)
}

// dispatchHalf resolves one cofactor (hi when part==0, lo when part==1) of
// key's entry, either immediately (the cofactor normalized directly to a
// NID) or by submitting a sub-job that will call back into fill once it
// answers.
func (p *Pool) dispatchHalf(key triple, part int, norm ite.Norm) {
	if norm.Kind == ite.KindNid {
		p.fill(key, part, norm.N)
		return
	}
	invert := norm.Kind == ite.KindNotIte
	sub := job{key: triple{norm.F, norm.G, norm.H}, parent: &key, part: part, invert: invert}
	p.submit(sub)
}

// fill records that key's hi (part==0) or lo (part==1) slot is n, and if
// both slots are now known, interns (v, hi, lo) and resolves every waiter.
func (p *Pool) fill(key triple, part int, n nid.NID) {
	p.mu.Lock()
	entry := p.cache[key]
	if part == 0 {
		entry.hi, entry.hiSet = n, true
	} else {
		entry.lo, entry.loSet = n, true
	}
	if !(entry.hiSet && entry.loSet) {
		p.mu.Unlock()
		return
	}
	var ans nid.NID
	if entry.hi == entry.lo {
		ans = entry.hi
	} else {
		ans = p.mkNodeLocked(entry.v, entry.hi, entry.lo)
	}
	entry.answer = ans
	entry.state = stateAnswer
	waiters := entry.waiter
	entry.waiter = nil
	p.mu.Unlock()

	for _, w := range waiters {
		p.resolve(job{qid: w.qid, parent: w.parent, part: w.part, invert: w.invert}, ans)
	}
}

// resolve delivers a job's computed answer either to the outer caller
// waiting on query qid (parent unset) or, if this job was a sub-job of some
// other entry, into that entry's slot via fill.
func (p *Pool) resolve(j job, ans nid.NID) {
	if j.invert {
		ans = nid.Not(ans)
	}
	if j.parent != nil {
		p.fill(*j.parent, j.part, ans)
		return
	}
	p.outerMu.Lock()
	ch, ok := p.pending[j.qid]
	p.outerMu.Unlock()
	if !ok {
		fmt.Fprintf(os.Stderr, "swarm: answer for unknown outer query %d dropped\n", j.qid)
		return
	}
	select {
	case ch <- ans:
	default:
		fmt.Fprintf(os.Stderr, "swarm: outer query %d answered more than once\n", j.qid)
	}
}

func (p *Pool) mkNodeLocked(v vid.VID, hi, lo nid.NID) nid.NID {
	if hi == lo {
		return hi
	}
	inv := nid.IsInv(lo)
	if inv {
		hi, lo = nid.Not(hi), nid.Not(lo)
	}
	key := node{V: v, Hi: hi, Lo: lo}
	idx, ok := p.index[key]
	if !ok {
		idx = uint32(len(p.nodes))
		p.nodes = append(p.nodes, key)
		p.index[key] = idx
	}
	n := nid.FromVidIdx(v, idx)
	if inv {
		n = nid.Not(n)
	}
	return n
}

// Fetch decomposes a NID produced by this pool into its (v, hi, lo) triple,
// applying n's own inversion. Exported so a caller folding the pool's
// result back into a different store (pkg/bdd's Parallel path) can walk
// the produced sub-DAG.
func (p *Pool) Fetch(n nid.NID) (v vid.VID, hi, lo nid.NID) {
	if nid.IsConst(n) {
		panic("swarm: Fetch called on a constant")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchLocked(n)
}

// MkNode interns (v, hi, lo) directly into the pool's node store, bypassing
// job dispatch. Used by pkg/bdd to fold a store-addressed sub-DAG into the
// pool's node space before submitting a query built from it.
func (p *Pool) MkNode(v vid.VID, hi, lo nid.NID) nid.NID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mkNodeLocked(v, hi, lo)
}

func nidVid(n nid.NID) vid.VID {
	if nid.IsConst(n) {
		return vid.Top
	}
	return nid.Vid(n)
}

func topmostOf3(a, b, c vid.VID) vid.VID {
	top := a
	if vid.CmpDepth(b, top) == vid.Above {
		top = b
	}
	if vid.CmpDepth(c, top) == vid.Above {
		top = c
	}
	return top
}

// fetchLocked decomposes n into its (v, hi, lo) triple; p.mu must be held.
func (p *Pool) fetchLocked(n nid.NID) (v vid.VID, hi, lo nid.NID) {
	raw := nid.Raw(n)
	if nid.IsLit(raw) {
		v = nid.Vid(raw)
		hi, lo = nid.I, nid.O
	} else {
		e := p.nodes[nid.Idx(raw)]
		v, hi, lo = e.V, e.Hi, e.Lo
	}
	if nid.IsInv(n) {
		hi, lo = nid.Not(hi), nid.Not(lo)
	}
	return
}

// whenHiLocked/whenLoLocked cofactor n by assigning v to I/O respectively,
// the same recursive rebuild pkg/bdd.Store.WhenHi/WhenLo perform; p.mu must
// be held throughout since a rebuild may intern a fresh node.
func (p *Pool) whenHiLocked(v vid.VID, n nid.NID) nid.NID {
	if nid.IsConst(n) {
		return n
	}
	nv, hi, lo := p.fetchLocked(n)
	switch vid.CmpDepth(v, nv) {
	case vid.Above:
		return n
	case vid.Level:
		return hi
	default:
		return p.mkNodeLocked(nv, p.whenHiLocked(v, hi), p.whenHiLocked(v, lo))
	}
}

func (p *Pool) whenLoLocked(v vid.VID, n nid.NID) nid.NID {
	if nid.IsConst(n) {
		return n
	}
	nv, hi, lo := p.fetchLocked(n)
	switch vid.CmpDepth(v, nv) {
	case vid.Above:
		return n
	case vid.Level:
		return lo
	default:
		return p.mkNodeLocked(nv, p.whenLoLocked(v, hi), p.whenLoLocked(v, lo))
	}
}
