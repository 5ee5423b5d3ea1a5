package stream

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/time/rate"

	"github.com/OCharnyshevich/meinkraft/internal/engine/chunk"
	"github.com/OCharnyshevich/meinkraft/internal/engine/gpu"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

// evictSlack keeps chunks sitting exactly on the render distance from
// flickering between eviction and creation.
const evictSlack = 1e-3

// Queue accepts generation requests.
type Queue interface {
	Enqueue(c *chunk.Chunk) error
	Free() int
}

// Options bounds the controller's work.
type Options struct {
	RenderDistance        float64 // chunks
	MaxRequestsPerTick    int
	RequestsPerSecond     float64 // 0 = unlimited
	MaxGenerationAttempts int
}

// Report lists what one Tick did, in request order.
type Report struct {
	Player    world.ChunkPos
	Requested []world.ChunkPos
	Evicted   []world.ChunkPos
	Retried   []world.ChunkPos
	Skipped   bool // nothing changed since the last idle tick
}

// Controller keeps the chunks around the viewpoint resident. It runs on the
// main thread and is the only writer of the store's key set.
type Controller struct {
	log     *slog.Logger
	layout  world.Layout
	store   *chunk.Store
	queue   Queue
	dev     gpu.Device
	pool    *world.Pool
	opts    Options
	limiter *rate.Limiter

	idle        bool
	idlePlayer  world.ChunkPos
	idleVersion uint64

	picked map[world.ChunkPos]struct{}
	seeds  []world.ChunkPos
	nbrs   []world.ChunkPos
}

// NewController creates a Controller.
func NewController(log *slog.Logger, layout world.Layout, store *chunk.Store, queue Queue, dev gpu.Device, pool *world.Pool, opts Options) *Controller {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &Controller{
		log:     log,
		layout:  layout,
		store:   store,
		queue:   queue,
		dev:     dev,
		pool:    pool,
		opts:    opts,
		limiter: rate.NewLimiter(limit, max(opts.MaxRequestsPerTick, 1)),
		picked:  make(map[world.ChunkPos]struct{}),
	}
}

// Wake forces the next Tick to rescan, e.g. after a generation failure left
// a chunk Empty.
func (c *Controller) Wake() { c.idle = false }

// Tick evicts chunks beyond the render distance and requests missing ones
// next to resident chunks, within the per-tick budget.
func (c *Controller) Tick(viewpoint mgl32.Vec3) Report {
	r := Report{Player: c.layout.ChunkOf(viewpoint)}
	if c.idle && r.Player == c.idlePlayer && c.store.Version() == c.idleVersion {
		r.Skipped = true
		return r
	}

	r.Evicted = c.evict(r.Player)

	a := &allowance{left: min(c.opts.MaxRequestsPerTick, c.queue.Free()), limiter: c.limiter}
	r.Retried = c.retry(a)
	var ok bool
	r.Requested, ok = c.expand(r.Player, a)
	starved := a.starved || !ok

	c.idle = !starved && len(r.Requested) == 0 && len(r.Retried) == 0
	c.idlePlayer = r.Player
	c.idleVersion = c.store.Version()

	if len(r.Requested)+len(r.Evicted)+len(r.Retried) > 0 {
		c.log.Debug("stream tick",
			"player", r.Player,
			"requested", len(r.Requested),
			"evicted", len(r.Evicted),
			"retried", len(r.Retried),
			"resident", c.store.Len(),
		)
	}
	return r
}

// allowance is the number of requests one Tick may still make. Budget and
// limiter tokens are only spent once a request went through.
type allowance struct {
	left    int
	limiter *rate.Limiter
	starved bool
}

func (a *allowance) available() bool {
	if a.left <= 0 || (a.limiter.Limit() != rate.Inf && a.limiter.Tokens() < 1) {
		a.starved = true
		return false
	}
	return true
}

func (a *allowance) spend() {
	a.left--
	a.limiter.Allow()
}

func (c *Controller) evict(player world.ChunkPos) []world.ChunkPos {
	var out []world.ChunkPos
	limit := c.opts.RenderDistance + evictSlack
	for _, pos := range c.store.Positions() {
		if c.layout.Distance(pos, player) <= limit {
			continue
		}
		ch, _ := c.store.Remove(pos)
		if !ch.Evict() {
			ch.Release(c.dev, c.pool)
		}
		out = append(out, pos)
	}
	return out
}

// retry re-requests chunks left Empty by a failed generation or a rejected
// enqueue, up to the attempt limit.
func (c *Controller) retry(a *allowance) []world.ChunkPos {
	var out []world.ChunkPos
	for _, pos := range c.store.Positions() {
		ch, _ := c.store.Get(pos)
		if ch.State() != chunk.Empty || ch.Attempts() >= c.opts.MaxGenerationAttempts {
			continue
		}
		if !a.available() {
			break
		}
		if err := c.queue.Enqueue(ch); err != nil {
			c.log.Warn("retry enqueue failed", "pos", pos, "error", err)
			continue
		}
		a.spend()
		out = append(out, pos)
	}
	return out
}

// expand requests the player chunk when absent, then the absent neighbours
// of resident chunks, nearest residents first. It reports false when it ran
// out of budget or could not allocate buffers.
func (c *Controller) expand(player world.ChunkPos, a *allowance) ([]world.ChunkPos, bool) {
	clear(c.picked)
	var out []world.ChunkPos

	consider := func(pos world.ChunkPos) bool {
		if c.store.Has(pos) {
			return true
		}
		if _, dup := c.picked[pos]; dup {
			return true
		}
		if c.layout.Distance(pos, player) > c.opts.RenderDistance {
			return true
		}
		if !a.available() {
			return false
		}
		if !c.create(pos) {
			return false
		}
		a.spend()
		c.picked[pos] = struct{}{}
		out = append(out, pos)
		return true
	}

	if !consider(player) {
		return out, false
	}

	c.seeds = append(c.seeds[:0], c.store.Positions()...)
	slices.SortStableFunc(c.seeds, func(a, b world.ChunkPos) int {
		return cmp.Compare(a.DistSq(player), b.DistSq(player))
	})
	for _, seed := range c.seeds {
		if _, fresh := c.picked[seed]; fresh {
			continue
		}
		c.nbrs = c.layout.Neighbours(c.nbrs[:0], seed)
		for _, n := range c.nbrs {
			if !consider(n) {
				return out, false
			}
		}
	}
	return out, true
}

func (c *Controller) create(pos world.ChunkPos) bool {
	h, err := c.dev.CreateBuffers()
	if err != nil {
		c.log.Warn("create chunk buffers", "pos", pos, "error", err)
		return false
	}
	ch := chunk.New(pos, c.layout.Origin(pos), h)
	if err := c.store.Insert(ch); err != nil {
		c.dev.Release(h)
		return true
	}
	if err := c.queue.Enqueue(ch); err != nil {
		c.log.Warn("enqueue chunk", "pos", pos, "error", err)
	}
	return true
}
