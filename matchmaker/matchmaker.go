// Package matchmaker implements the match manager: the orchestrator that
// owns the pool and the candidate-game heap, keeps the invariant linking
// them after every insert/remove, and exposes the public insert/create-match
// surface plus its async counterparts.
package matchmaker

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LukeAtkinz/matchcore/candheap"
	"github.com/LukeAtkinz/matchcore/clock"
	"github.com/LukeAtkinz/matchcore/game"
	"github.com/LukeAtkinz/matchcore/internal/config"
	"github.com/LukeAtkinz/matchcore/internal/mmerrors"
	"github.com/LukeAtkinz/matchcore/observer"
	"github.com/LukeAtkinz/matchcore/partition"
	"github.com/LukeAtkinz/matchcore/player"
	"github.com/LukeAtkinz/matchcore/pool"
	"github.com/LukeAtkinz/matchcore/search"
)

// Parameters is the snapshot returned by Manager.Parameters, for frontend
// or diagnostic state management.
type Parameters struct {
	TeamSize       int      `json:"team_size"`
	PNorm          float64  `json:"p_norm"`
	QNorm          float64  `json:"q_norm"`
	FairnessWeight float64  `json:"fairness_weight"`
	SkillWindow    int      `json:"skill_window"`
	QueueWeight    *float64 `json:"queue_weight,omitempty"`
}

// Manager orchestrates the matchmaking pool, the candidate-game heap, and
// the finalized match list. It is not safe for concurrent external use
// beyond its single-background-worker async model; its own mutex only
// protects that invariant, not arbitrary concurrent calls.
type Manager struct {
	mu sync.Mutex

	params Parameters

	pool    *pool.Pool
	heap    *candheap.Heap
	matches []*game.CandidateGame
	nextID  int

	solver   *partition.Solver
	searcher *search.Searcher
	obs      observer.Observer
	clk      clock.Clock
	log      *zap.Logger
	rng      *rand.Rand

	useHistoricalWindow bool
	timeout             time.Duration
	recording           bool

	execMu    sync.Mutex
	executing bool
}

// Option configures optional Manager collaborators.
type Option func(*Manager)

// WithObserver installs a step-event sink.
func WithObserver(obs observer.Observer) Option {
	return func(m *Manager) { m.obs = obs }
}

// WithClock overrides the default system clock, e.g. with clock.Fake in
// tests.
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) { m.clk = clk }
}

// WithLogger overrides the default no-op zap logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithHistoricalWindow selects the historical-approximation skill window
// W = 2k-1 instead of the full W = ceil(4*(1+α)*k^(1+1/q)) formula, per
// spec.md §9's flagged alternative.
func WithHistoricalWindow(enabled bool) Option {
	return func(m *Manager) { m.useHistoricalWindow = enabled }
}

// WithExecutionTimeout overrides the anchor search's soft wall-clock budget,
// which otherwise defaults to search.DefaultTimeout.
func WithExecutionTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithRecording installs a default LogObserver when enabled and no observer
// has been set by WithObserver, mirroring spec.md §6's recording flag
// ("installs observer"). WithObserver always takes precedence.
func WithRecording(enabled bool) Option {
	return func(m *Manager) { m.recording = enabled }
}

func newManager(teamSize int, pNorm, qNorm, fairnessWeight float64, queueWeight *float64, approximate bool, opts []Option) (*Manager, error) {
	teamSize, err := mmerrors.ValidateConfig(teamSize, func(v int) bool { return v >= 1 && v <= 5 }, "team_size", "between 1 and 5")
	if err != nil {
		return nil, err
	}
	pNorm, err = mmerrors.ValidateConfig(pNorm, func(v float64) bool { return v >= 1 }, "p_norm", "greater than or equal to 1.0")
	if err != nil {
		return nil, err
	}
	qNorm, err = mmerrors.ValidateConfig(qNorm, func(v float64) bool { return v >= 1 }, "q_norm", "greater than or equal to 1.0")
	if err != nil {
		return nil, err
	}
	fairnessWeight, err = mmerrors.ValidateConfig(fairnessWeight, func(v float64) bool { return v > 0 }, "fairness_weight", "greater than 0.0")
	if err != nil {
		return nil, err
	}
	if queueWeight != nil {
		if _, err := mmerrors.ValidateConfig(*queueWeight, func(v float64) bool { return v >= 0 }, "queue_weight", "greater than or equal to 0.0"); err != nil {
			return nil, err
		}
	}

	skillWindow := int(math.Ceil(4 * (1 + fairnessWeight) * math.Pow(float64(teamSize), 1+1/qNorm)))

	strategy := partition.Exact
	if approximate {
		strategy = partition.Greedy
	}
	solver := partition.New(teamSize, pNorm, qNorm, fairnessWeight, queueWeight, strategy)

	m := &Manager{
		params: Parameters{
			TeamSize:       teamSize,
			PNorm:          pNorm,
			QNorm:          qNorm,
			FairnessWeight: fairnessWeight,
			SkillWindow:    skillWindow,
			QueueWeight:    queueWeight,
		},
		pool: pool.New(),
		heap: candheap.New(),
		clk:  clock.NewSystem(),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.useHistoricalWindow {
		skillWindow = 2*teamSize - 1
		m.params.SkillWindow = skillWindow
	}
	if m.timeout <= 0 {
		m.timeout = search.DefaultTimeout
	}
	if m.recording && m.obs == nil {
		m.obs = observer.NewLogObserver(nil)
	}

	m.searcher = search.New(teamSize, skillWindow, solver, m.timeout, m.log)
	m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))

	return m, nil
}

// NewUnrestricted builds a Manager with no time-sensitive priority: games
// are ordered purely by imbalance.
func NewUnrestricted(teamSize int, pNorm, qNorm, fairnessWeight float64, approximate bool, opts ...Option) (*Manager, error) {
	return newManager(teamSize, pNorm, qNorm, fairnessWeight, nil, approximate, opts)
}

// NewTimeSensitive builds a Manager whose candidate games are ordered by
// priority (imbalance plus queueWeight times the oldest player's enqueue
// time), so stale players get matched sooner.
func NewTimeSensitive(teamSize int, pNorm, qNorm, fairnessWeight, queueWeight float64, approximate bool, opts ...Option) (*Manager, error) {
	qw := queueWeight
	return newManager(teamSize, pNorm, qNorm, fairnessWeight, &qw, approximate, opts)
}

// NewFromOverrides builds a Manager from spec.md §6's configuration
// defaults (team_size=2, p_norm=1, q_norm=1, fairness_weight=0.1,
// recording=false, approximate=false), with any field present in o applied
// on top. A present queue_weight override selects NewTimeSensitive; its
// absence selects NewUnrestricted. o may be nil, in which case every
// default applies. Options passed here are applied after the
// overrides-derived ones, so an explicit WithObserver always wins over a
// config-driven WithRecording.
func NewFromOverrides(o *config.Overrides, opts ...Option) (*Manager, error) {
	teamSize := 2
	pNorm, qNorm, fairnessWeight := 1.0, 1.0, 0.1
	approximate := false

	var configOpts []Option
	if o != nil {
		if o.HasTeamSize {
			teamSize = o.TeamSize
		}
		if o.HasPNorm {
			pNorm = o.PNorm
		}
		if o.HasQNorm {
			qNorm = o.QNorm
		}
		if o.HasFairnessWeight {
			fairnessWeight = o.FairnessWeight
		}
		if o.HasApproximate {
			approximate = o.Approximate
		}
		if o.HasUseHistoricalWindow {
			configOpts = append(configOpts, WithHistoricalWindow(o.UseHistoricalWindow))
		}
		if o.HasExecutionTimeout {
			configOpts = append(configOpts, WithExecutionTimeout(time.Duration(o.ExecutionTimeoutSeconds*float64(time.Second))))
		}
		if o.HasRecording {
			configOpts = append(configOpts, WithRecording(o.Recording))
		}
	}
	configOpts = append(configOpts, opts...)

	if o != nil && o.HasQueueWeight {
		return NewTimeSensitive(teamSize, pNorm, qNorm, fairnessWeight, o.QueueWeight, approximate, configOpts...)
	}
	return NewUnrestricted(teamSize, pNorm, qNorm, fairnessWeight, approximate, configOpts...)
}

// Parameters returns a snapshot of the manager's configuration.
func (m *Manager) Parameters() Parameters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.params
}

// IsExecutingAsync reports whether a background worker launched by one of
// the *Async methods is currently running.
func (m *Manager) IsExecutingAsync() bool {
	m.execMu.Lock()
	defer m.execMu.Unlock()
	return m.executing
}

func (m *Manager) startAsync(fn func()) (string, error) {
	m.execMu.Lock()
	if m.executing {
		m.execMu.Unlock()
		return "", mmerrors.Busy()
	}
	m.executing = true
	m.execMu.Unlock()

	runID := uuid.NewString()
	go func() {
		defer func() {
			m.execMu.Lock()
			m.executing = false
			m.execMu.Unlock()
		}()
		fn()
	}()
	return runID, nil
}

// InsertManualAsync runs InsertManual on a background worker. It fails with
// a Busy error if another async operation is already in flight.
func (m *Manager) InsertManualAsync(skill int) (string, error) {
	return m.startAsync(func() {
		if err := m.InsertManual(skill); err != nil {
			m.log.Warn("async insert_manual failed", zap.Error(err))
		}
	})
}

// InsertBulkAsync runs InsertBulk on a background worker.
func (m *Manager) InsertBulkAsync(n int, mean, stddev float64) (string, error) {
	return m.startAsync(func() {
		if err := m.InsertBulk(n, mean, stddev); err != nil {
			m.log.Warn("async insert_bulk failed", zap.Error(err))
		}
	})
}

// CreateMatchAsync runs CreateMatch on a background worker.
func (m *Manager) CreateMatchAsync() (string, error) {
	return m.startAsync(func() {
		if _, err := m.CreateMatch(); err != nil {
			m.log.Warn("async create_match failed", zap.Error(err))
		}
	})
}

func ptrInt(v int) *int { return &v }

func (m *Manager) snapshotPool() []player.Record {
	all := m.pool.All()
	records := make([]player.Record, len(all))
	for i, p := range all {
		records[i] = p.ToRecord()
	}
	return records
}

func (m *Manager) snapshotHeap() []game.Record {
	records := make([]game.Record, m.heap.Len())
	for i := range records {
		records[i] = m.heap.At(i).ToRecord()
	}
	return records
}

func (m *Manager) snapshotMatches() []game.Record {
	records := make([]game.Record, len(m.matches))
	for i, g := range m.matches {
		records[i] = g.ToRecord()
	}
	return records
}

func (m *Manager) emit(e observer.Event) {
	if m.obs == nil {
		return
	}
	e.Timestamp = m.clk.Now()
	e.Pool = m.snapshotPool()
	e.Heap = m.snapshotHeap()
	e.Match = m.snapshotMatches()
	m.obs.RecordEvent(e)
}

// ranksOf returns the pool rank of each player, for observer team snapshots.
func (m *Manager) ranksOf(players []*player.Player) []int {
	ranks := make([]int, 0, len(players))
	for _, p := range players {
		if rank, err := m.pool.Rank(p); err == nil {
			ranks = append(ranks, rank)
		}
	}
	return ranks
}

// belowWindow returns the players in rank-range [max(0, rank-W), rank), the
// "affected-below anchors" whose above-window may now include the player at
// rank.
func (m *Manager) belowWindow(rank int) []*player.Player {
	lo := rank - m.params.SkillWindow
	if lo < 0 {
		lo = 0
	}
	below, err := m.pool.Slice(lo, rank)
	if err != nil {
		return nil
	}
	return below
}

// calculateBestGameIncludingPlayer runs anchor search for p and emits the
// corresponding observer event.
func (m *Manager) calculateBestGameIncludingPlayer(p *player.Player) (*game.CandidateGame, error) {
	rank, err := m.pool.Rank(p)
	if err != nil {
		return nil, err
	}

	result, err := m.searcher.Find(p, m.pool)
	if err != nil {
		return nil, err
	}

	m.emit(observer.Event{
		QueueAction:      observer.QueueAnchor,
		TargetPlayerRank: ptrInt(rank),
		Window:           &result.Window,
	})

	return result.Game, nil
}

// updateCandidateGamesForList recomputes the best-anchored game for each
// player in affected (deduplicated, in pool order) and reconciles the heap.
func (m *Manager) updateCandidateGamesForList(affected []*player.Player) error {
	seen := make(map[int]bool, len(affected))
	unique := make([]*player.Player, 0, len(affected))
	for _, p := range affected {
		if !seen[p.ID] {
			seen[p.ID] = true
			unique = append(unique, p)
		}
	}
	sortByPoolOrder(unique)

	for _, p := range unique {
		if !m.pool.Contains(p) {
			continue
		}
		best, err := m.calculateBestGameIncludingPlayer(p)
		if err != nil {
			return err
		}
		if best != nil {
			m.emit(observer.Event{
				QueueAction: observer.QueueGameFound,
				TeamXRanks:  m.ranksOf(best.TeamX),
				TeamYRanks:  m.ranksOf(best.TeamY),
			})
			m.heap.Push(best)
			idx := m.heap.IndexOf(best.Anchor.ID)
			m.emit(observer.Event{HeapAction: observer.HeapInsert, TargetGameHeapIndex: ptrInt(idx)})
		} else if m.heap.Contains(p.ID) {
			idx := m.heap.IndexOf(p.ID)
			m.emit(observer.Event{
				QueueAction:         observer.QueueGameNotFound,
				HeapAction:          observer.HeapRemove,
				TargetGameHeapIndex: ptrInt(idx),
			})
			m.heap.Remove(p.ID)
		}
	}
	return nil
}

func sortByPoolOrder(players []*player.Player) {
	// Insertion sort is adequate: affected-below windows are bounded by the
	// skill window, never the full pool.
	for i := 1; i < len(players); i++ {
		for j := i; j > 0 && players[j].Less(players[j-1]); j-- {
			players[j], players[j-1] = players[j-1], players[j]
		}
	}
}

// insertOne adds p to the pool and, unless bulk, immediately computes its
// own best game and reconciles its affected-below anchors. It always
// returns the affected-below anchors so bulk callers can accumulate them.
func (m *Manager) insertOne(p *player.Player, bulk bool) ([]*player.Player, error) {
	m.pool.Add(p)
	rank, err := m.pool.Rank(p)
	if err != nil {
		return nil, err
	}
	m.emit(observer.Event{QueueAction: observer.QueueInsert, TargetPlayerRank: ptrInt(rank)})

	affectedBelow := m.belowWindow(rank)

	if !bulk {
		best, err := m.calculateBestGameIncludingPlayer(p)
		if err != nil {
			return nil, err
		}
		if best != nil {
			m.emit(observer.Event{
				QueueAction: observer.QueueGameFound,
				TeamXRanks:  m.ranksOf(best.TeamX),
				TeamYRanks:  m.ranksOf(best.TeamY),
			})
			m.heap.Push(best)
			idx := m.heap.IndexOf(best.Anchor.ID)
			m.emit(observer.Event{HeapAction: observer.HeapInsert, TargetGameHeapIndex: ptrInt(idx)})
		} else {
			m.emit(observer.Event{QueueAction: observer.QueueGameNotFound})
		}
		if err := m.updateCandidateGamesForList(affectedBelow); err != nil {
			return nil, err
		}
	}

	return affectedBelow, nil
}

// removeOne removes p from the pool and its own heap entry (if any) and,
// unless bulk, immediately reconciles its affected-below anchors. It always
// returns the affected-below anchors, computed before removal, so
// bulk callers can accumulate them.
func (m *Manager) removeOne(p *player.Player, bulk bool) ([]*player.Player, error) {
	rank, err := m.pool.Rank(p)
	if err != nil {
		return nil, err
	}
	affectedBelow := m.belowWindow(rank)

	m.emit(observer.Event{QueueAction: observer.QueueRemove, TargetPlayerRank: ptrInt(rank)})
	if err := m.pool.Remove(p); err != nil {
		return nil, err
	}
	p.MarkExited()

	// The heap's own-anchor entry for p must go regardless of bulk/single,
	// or a stale entry would stay keyed to a player no longer in the pool
	// once the match-creation batch completes. Heap.Remove is a documented
	// no-op when absent, so this is always safe to call.
	if m.heap.Contains(p.ID) {
		idx := m.heap.IndexOf(p.ID)
		m.emit(observer.Event{HeapAction: observer.HeapRemove, TargetGameHeapIndex: ptrInt(idx)})
		m.heap.Remove(p.ID)
	}

	if !bulk {
		if err := m.updateCandidateGamesForList(affectedBelow); err != nil {
			return nil, err
		}
	}

	return affectedBelow, nil
}

// Remove deletes a specific player from the pool, exposed primarily for
// testing and for CreateMatch.
func (m *Manager) Remove(p *player.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.removeOne(p, false)
	return err
}

// InsertManual mints a fresh player with the next id and inserts it.
func (m *Manager) InsertManual(skill int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	p := player.New(id, skill, m.clk)
	_, err := m.insertOne(p, false)
	return err
}

// InsertBulk mints n players with skills drawn from a Gaussian clamped to
// >= 0 and rounded, then inserts all of them, deferring heap reconciliation
// until every insertion has landed.
func (m *Manager) InsertBulk(n int, mean, stddev float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	players := make([]*player.Player, n)
	affected := make([]*player.Player, 0, n)
	for i := 0; i < n; i++ {
		skill := int(math.Round(math.Max(0, mean+stddev*m.rng.NormFloat64())))
		id := m.nextID
		m.nextID++
		p := player.New(id, skill, m.clk)
		players[i] = p
		affected = append(affected, p)
	}

	for _, p := range players {
		below, err := m.insertOne(p, true)
		if err != nil {
			return err
		}
		affected = append(affected, below...)
	}

	return m.updateCandidateGamesForList(affected)
}

// CreateMatch pops the best candidate game from the heap, appends it to the
// match list, and removes its 2k players from the pool as a single batch.
// It is a no-op if the heap is empty.
func (m *Manager) CreateMatch() (*game.CandidateGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	best := m.heap.Peek()
	if best == nil {
		m.emit(observer.Event{QueueAction: observer.QueueGameNotFound})
		return nil, nil
	}

	m.emit(observer.Event{HeapAction: observer.HeapCreate, TargetGameHeapIndex: ptrInt(0)})
	m.matches = append(m.matches, best)

	players := best.Players()
	affected := make([]*player.Player, 0, len(players))
	for _, p := range players {
		below, err := m.removeOne(p, true)
		if err != nil {
			return nil, err
		}
		affected = append(affected, below...)
	}

	if err := m.updateCandidateGamesForList(affected); err != nil {
		return nil, err
	}

	m.emit(observer.Event{QueueAction: observer.QueueIdle, HeapAction: observer.HeapIdle})
	return best, nil
}

// Matches returns every finalized match created so far, in creation order.
func (m *Manager) Matches() []*game.CandidateGame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*game.CandidateGame, len(m.matches))
	copy(out, m.matches)
	return out
}

// PoolSize returns the number of players currently waiting.
func (m *Manager) PoolSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pool.Len()
}

// HeapSize returns the number of live candidate games.
func (m *Manager) HeapSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.heap.Len()
}
