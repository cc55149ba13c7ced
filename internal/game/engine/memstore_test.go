package engine_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/deltaland/internal/game/combat"
	"github.com/cory-johannsen/deltaland/internal/game/dice"
	"github.com/cory-johannsen/deltaland/internal/game/engine"
	"github.com/cory-johannsen/deltaland/internal/game/player"
	"github.com/cory-johannsen/deltaland/internal/game/quest"
)

// memStore is an in-memory engine.Store for unit tests. It hands out deep
// copies on read so only SavePlayer makes a mutation stick, matching the
// transactional store's semantics.
type memStore struct {
	mu           sync.Mutex
	players      map[int64]*player.Player
	world        map[player.State]player.Cooldown
	tactics      map[int64]combat.Tactic
	reports      map[int64]combat.Report
	diceRanks    map[int64]int
	battleRanks  map[int64]int
	sentinelStop map[int64]int
	invSlots     map[int64]int
	seasonResets int
}

func newMemStore() *memStore {
	return &memStore{
		players:      make(map[int64]*player.Player),
		world:        make(map[player.State]player.Cooldown),
		tactics:      make(map[int64]combat.Tactic),
		reports:      make(map[int64]combat.Report),
		diceRanks:    make(map[int64]int),
		battleRanks:  make(map[int64]int),
		sentinelStop: make(map[int64]int),
		invSlots:     make(map[int64]int),
	}
}

func clonePlayer(p *player.Player) *player.Player {
	c := *p
	c.Cooldowns = append([]player.Cooldown(nil), p.Cooldowns...)
	return &c
}

func (s *memStore) InTx(_ context.Context, fn func(tx engine.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func (s *memStore) sortedIDs() []int64 {
	ids := make([]int64, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *memStore) Player(_ context.Context, id int64) (*player.Player, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, engine.ErrPlayerNotFound
	}
	return clonePlayer(p), nil
}

func (s *memStore) SavePlayer(_ context.Context, p *player.Player) error {
	s.players[p.ID] = clonePlayer(p)
	return nil
}

func (s *memStore) CooldownHolder(_ context.Context, kind player.State) (*player.Player, error) {
	for _, id := range s.sortedIDs() {
		if id == player.WorldID {
			continue
		}
		if _, ok := s.players[id].CooldownFor(kind); ok {
			return clonePlayer(s.players[id]), nil
		}
	}
	return nil, nil
}

func (s *memStore) Expired(_ context.Context, now int64) ([]engine.ExpiredCooldown, error) {
	var rows []engine.ExpiredCooldown
	for _, id := range s.sortedIDs() {
		if id == player.WorldID {
			continue
		}
		for _, c := range s.players[id].Cooldowns {
			if c.Expired(now) {
				rows = append(rows, engine.ExpiredCooldown{PlayerID: id, Kind: c.Kind, EndsAt: c.EndsAt})
			}
		}
	}
	for _, c := range s.world {
		if c.Expired(now) {
			rows = append(rows, engine.ExpiredCooldown{PlayerID: player.WorldID, Kind: c.Kind, EndsAt: c.EndsAt})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EndsAt != rows[j].EndsAt {
			return rows[i].EndsAt < rows[j].EndsAt
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows, nil
}

func (s *memStore) RandomRestingPlayer(_ context.Context, excludeID int64) (*player.Player, error) {
	for _, id := range s.sortedIDs() {
		if id == player.WorldID || id == excludeID {
			continue
		}
		if s.players[id].State == player.StateRest {
			return clonePlayer(s.players[id]), nil
		}
	}
	return nil, nil
}

func (s *memStore) UsedInventorySlots(_ context.Context, playerID int64) (int, error) {
	return s.invSlots[playerID], nil
}

func (s *memStore) WorldCooldown(_ context.Context, kind player.State) (player.Cooldown, error) {
	c, ok := s.world[kind]
	if !ok {
		return player.Cooldown{}, engine.ErrCooldownNotFound
	}
	return c, nil
}

func (s *memStore) DeleteWorldCooldown(_ context.Context, kind player.State) error {
	delete(s.world, kind)
	return nil
}

func (s *memStore) SaveWorldCooldown(_ context.Context, c player.Cooldown) error {
	s.world[c.Kind] = c
	return nil
}

func (s *memStore) SaveTactic(_ context.Context, playerID int64, t combat.Tactic) error {
	s.tactics[playerID] = t
	return nil
}

func (s *memStore) Tactics(_ context.Context) (map[int64]combat.Tactic, error) {
	out := make(map[int64]combat.Tactic, len(s.tactics))
	for id, t := range s.tactics {
		out[id] = t
	}
	return out, nil
}

func (s *memStore) ClearTactics(_ context.Context) error {
	s.tactics = make(map[int64]combat.Tactic)
	return nil
}

func (s *memStore) SaveReport(_ context.Context, r combat.Report) error {
	s.reports[r.PlayerID] = r
	return nil
}

func (s *memStore) Report(_ context.Context, playerID int64) (combat.Report, error) {
	r, ok := s.reports[playerID]
	if !ok {
		return combat.Report{}, engine.ErrReportNotFound
	}
	return r, nil
}

func (s *memStore) ClearReports(_ context.Context) error {
	s.reports = make(map[int64]combat.Report)
	return nil
}

func (s *memStore) AddDiceRank(_ context.Context, playerID int64, gold int) error {
	s.diceRanks[playerID] += gold
	return nil
}

func (s *memStore) AddBattleVictory(_ context.Context, playerID int64) error {
	s.battleRanks[playerID]++
	return nil
}

func (s *memStore) AddSentinelStop(_ context.Context, playerID int64) error {
	s.sentinelStop[playerID]++
	return nil
}

func (s *memStore) ResetSeasonRanks(_ context.Context) error {
	s.diceRanks = make(map[int64]int)
	s.battleRanks = make(map[int64]int)
	s.seasonResets++
	return nil
}

type note struct {
	playerID int64
	text     string
	image    string
}

type fakeNotifier struct {
	notes []note
}

func (f *fakeNotifier) Notify(_ context.Context, playerID int64, text, image string) {
	f.notes = append(f.notes, note{playerID: playerID, text: text, image: image})
}

func (f *fakeNotifier) textsFor(playerID int64) []string {
	var out []string
	for _, n := range f.notes {
		if n.playerID == playerID {
			out = append(out, n.text)
		}
	}
	return out
}

func (f *fakeNotifier) lastFor(playerID int64) string {
	texts := f.textsFor(playerID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// scriptedSource replays Intn results in order, reduced modulo n.
type scriptedSource struct {
	vals []int
	i    int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func testCatalog(t *testing.T) *quest.Catalog {
	t.Helper()
	c, err := quest.NewCatalog([]*quest.Quest{
		{
			ID:          1,
			Kind:        quest.KindWander,
			Name:        "Wander around the town",
			Command:     "/wander",
			Description: "Wandering around the town",
			PartingMsg:  "You start to wander around the town",
			Duration:    3 * time.Minute,
			StaminaCost: 1,
		},
		{
			ID:            2,
			Kind:          quest.KindThieve,
			Name:          "Thieve",
			Command:       "/thieve",
			PartingMsg:    `This is not a fair world so you decide to take "what you deserve" with your own hands`,
			Duration:      2 * time.Minute,
			StaminaCost:   2,
			RequiredLevel: 3,
		},
	})
	require.NoError(t, err)
	return c
}

// newTestEngine builds an engine over the in-memory store with the world
// schedule in place. The clock starts at 10:30 so the first raid is hours
// out, clear of the imminent-raid margin.
func newTestEngine(t *testing.T, src dice.Source) (*engine.Engine, *memStore, *fakeNotifier, *fixedClock) {
	t.Helper()
	store := newMemStore()
	notifier := &fakeNotifier{}
	clock := &fixedClock{now: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)}
	eng := engine.New(store, notifier, clock, src, testCatalog(t), engine.Options{}, zap.NewNop())
	require.NoError(t, eng.EnsureWorld(context.Background()))
	return eng, store, notifier, clock
}

func addPlayer(store *memStore, clock *fixedClock, id int64, name string) *player.Player {
	p := player.New(id, name, clock.now.Unix())
	store.players[id] = p
	return p
}
