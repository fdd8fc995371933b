package game

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/scores"
	"github.com/milk9111/platformer/session"
)

type fakeScore struct {
	score     int
	best      int
	bestOK    bool
	bestCalls int
}

func (f *fakeScore) SetScore(n int) { f.score = n }
func (f *fakeScore) SetBest(best int, ok bool) {
	f.best, f.bestOK = best, ok
	f.bestCalls++
}

type fakeStore struct {
	runs    []scores.Run
	saveErr error
}

func (s *fakeStore) SaveRun(_ context.Context, r scores.Run) (scores.Run, error) {
	if s.saveErr != nil {
		return scores.Run{}, s.saveErr
	}
	r.ID = "run"
	s.runs = append(s.runs, r)
	return r, nil
}

func (s *fakeStore) Best(_ context.Context, level string) (int, bool, error) {
	best, ok := 0, false
	for _, r := range s.runs {
		if r.Level == level && (!ok || r.Gems > best) {
			best, ok = r.Gems, true
		}
	}
	return best, ok, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newHostWorld(t *testing.T) (*ecs.World, *worldHost, *fakeScore, *int) {
	t.Helper()
	w := ecs.NewWorld()
	score := &fakeScore{}
	reloads := 0
	h := &worldHost{
		world:  func() *ecs.World { return w },
		score:  score,
		reload: func() { reloads++ },
	}
	return w, h, score, &reloads
}

func TestWorldHostDoorsAndDestroy(t *testing.T) {
	w, h, score, reloads := newHostWorld(t)

	var doors []ecs.Entity
	for i := 0; i < 3; i++ {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.DoorComponent.Kind(), &component.Door{Group: entity.DoorGroup}); err != nil {
			t.Fatal(err)
		}
		doors = append(doors, e)
	}
	other := ecs.CreateEntity(w)
	if err := ecs.Add(w, other, component.DoorComponent.Kind(), &component.Door{Group: "gate"}); err != nil {
		t.Fatal(err)
	}

	if got := h.DoorSegments(); len(got) != len(doors) {
		t.Fatalf("expected %d door segments, got %v", len(doors), got)
	}

	h.Destroy(doors[1])
	if h.Alive(doors[1]) {
		t.Fatalf("destroyed door still alive")
	}
	if got := h.DoorSegments(); len(got) != 2 {
		t.Fatalf("expected 2 live segments after destroy, got %v", got)
	}

	h.SetScore(4)
	if score.score != 4 {
		t.Fatalf("score not forwarded, got %d", score.score)
	}
	h.Reload()
	if *reloads != 1 {
		t.Fatalf("expected one reload request, got %d", *reloads)
	}
}

func TestWorldHostPlaySoundFlagsBank(t *testing.T) {
	w, h, _, _ := newHostWorld(t)
	bank := &component.Audio{Names: []string{"gem", "win"}, Play: []bool{false, false}}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.AudioComponent.Kind(), bank); err != nil {
		t.Fatal(err)
	}

	h.PlaySound("win")
	h.PlaySound("missing")
	if bank.Play[0] || !bank.Play[1] {
		t.Fatalf("expected only win flagged, got %v", bank.Play)
	}
}

func TestSessionThroughWorldHost(t *testing.T) {
	w, h, score, reloads := newHostWorld(t)
	s := session.New[ecs.Entity](h)

	gem := ecs.CreateEntity(w)
	key := ecs.CreateEntity(w)
	keyhole := ecs.CreateEntity(w)
	exit := ecs.CreateEntity(w)
	door := ecs.CreateEntity(w)
	if err := ecs.Add(w, door, component.DoorComponent.Kind(), &component.Door{Group: entity.DoorGroup}); err != nil {
		t.Fatal(err)
	}

	s.Confirm()
	s.OnGemTouched(gem)
	s.OnGemTouched(gem)
	s.OnKeyholeTouched(keyhole)
	if !ecs.IsAlive(w, door) {
		t.Fatalf("door opened without the key")
	}
	s.OnKeyTouched(key)
	s.OnKeyholeTouched(keyhole)
	if ecs.IsAlive(w, door) || ecs.IsAlive(w, keyhole) {
		t.Fatalf("keyhole with key should remove the door group")
	}
	s.OnExitTouched(exit)
	if score.score != 1 || s.State() != session.Won {
		t.Fatalf("expected won with 1 gem, got state %s score %d", s.State(), score.score)
	}

	s.Confirm()
	if *reloads != 1 || s.State() != session.Restarting {
		t.Fatalf("expected a restart request, got %d reloads in state %s", *reloads, s.State())
	}
}

func TestRecorderSavesWonRun(t *testing.T) {
	store := &fakeStore{}
	best := &fakeScore{}
	r := &recorder{level: "level-1", tps: 60, store: store, best: best, log: quietLogger()}

	r.observe(session.Event{Kind: session.EventStarted})
	for i := 0; i < 90; i++ {
		r.tick()
	}
	r.observe(session.Event{Kind: session.EventWon, Snapshot: session.SessionState{GemCount: 7}})
	// ticks after the win are not counted
	r.tick()

	if len(store.runs) != 1 {
		t.Fatalf("expected one saved run, got %d", len(store.runs))
	}
	run := store.runs[0]
	if run.Level != "level-1" || run.Gems != 7 || run.Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected run %+v", run)
	}
	if !best.bestOK || best.best != 7 {
		t.Fatalf("best not shown, got %d ok=%v", best.best, best.bestOK)
	}
	if r.duration() != 1500*time.Millisecond {
		t.Fatalf("timer kept running after the win: %v", r.duration())
	}
}

func TestRecorderStoreFailures(t *testing.T) {
	tests := []struct {
		name  string
		store RunStore
	}{
		{name: "no_store", store: nil},
		{name: "save_error", store: &fakeStore{saveErr: errors.New("disk full")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			best := &fakeScore{}
			r := &recorder{level: "level-1", tps: 60, store: tc.store, best: best, log: quietLogger()}
			r.observe(session.Event{Kind: session.EventStarted})
			r.observe(session.Event{Kind: session.EventWon})
			if best.bestCalls != 0 {
				t.Fatalf("best must not be shown when nothing was saved")
			}
		})
	}
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Mute = true
	opts.Logger = quietLogger()
	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func pickupsByKind(w *ecs.World) map[component.PickupKind][]ecs.Entity {
	out := make(map[component.PickupKind][]ecs.Entity)
	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		out[p.Kind] = append(out[p.Kind], e)
	})
	return out
}

func assertInitialLayout(t *testing.T, w *ecs.World) {
	t.Helper()
	got := pickupsByKind(w)
	want := map[component.PickupKind]int{
		component.PickupGem:     14,
		component.PickupKey:     1,
		component.PickupKeyhole: 1,
		component.PickupExit:    1,
	}
	for kind, n := range want {
		if len(got[kind]) != n {
			t.Fatalf("expected %d %s pickups, got %d", n, kind, len(got[kind]))
		}
	}
	if n := ecs.Count(w, component.DoorComponent.Kind()); n != 5 {
		t.Fatalf("expected 5 door segments, got %d", n)
	}
}

func TestRestartRebuildsLevel(t *testing.T) {
	g := newTestGame(t, Options{})
	s := g.Session()
	assertInitialLayout(t, g.World())

	tick := func() {
		t.Helper()
		if err := g.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	s.Confirm()
	tick()
	if s.State() != session.Playing {
		t.Fatalf("expected playing, got %s", s.State())
	}

	p := pickupsByKind(g.World())
	s.OnGemTouched(p[component.PickupGem][0])
	s.OnGemTouched(p[component.PickupGem][1])
	s.OnKeyTouched(p[component.PickupKey][0])
	s.OnKeyholeTouched(p[component.PickupKeyhole][0])
	tick()
	if n := ecs.Count(g.World(), component.DoorComponent.Kind()); n != 0 {
		t.Fatalf("doors should be gone after the keyhole, %d left", n)
	}
	s.OnExitTouched(p[component.PickupExit][0])
	tick()
	if s.State() != session.Won || s.GemCount() != 2 {
		t.Fatalf("expected won with 2 gems, got %s with %d", s.State(), s.GemCount())
	}

	before := g.World()
	s.Confirm()
	if s.State() != session.Restarting {
		t.Fatalf("expected restarting, got %s", s.State())
	}
	tick()

	if g.World() == before {
		t.Fatalf("world was not rebuilt")
	}
	assertInitialLayout(t, g.World())
	if s.State() != session.TitleShown || !s.TitleVisible() {
		t.Fatalf("expected the title after restart, got %s", s.State())
	}
	if s.GemCount() != 0 || s.KeyGet() {
		t.Fatalf("progress not reset: gems=%d key=%v", s.GemCount(), s.KeyGet())
	}
}

func TestTickRateIsFixedFromTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  tps: 120\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g := newTestGame(t, Options{ConfigPath: path})
	if g.TPS() != 120 || g.recorder.tps != 120 {
		t.Fatalf("expected 120 tps everywhere, got game %d recorder %d", g.TPS(), g.recorder.tps)
	}

	changed := prefabs.DefaultTuning()
	changed.Physics.TPS = 30
	g.applyTuning(changed)
	if g.TPS() != 120 || g.tuning.Physics.TPS != 120 {
		t.Fatalf("tick rate changed while running: game %d tuning %d", g.TPS(), g.tuning.Physics.TPS)
	}
}

func TestConfirmRunsAfterMovement(t *testing.T) {
	g := newTestGame(t, Options{})
	controller, confirm := -1, -1
	for i, sys := range g.scheduler.Systems() {
		switch sys.(type) {
		case *system.PlayerControllerSystem:
			controller = i
		case *system.ConfirmSystem:
			confirm = i
		}
	}
	if controller < 0 || confirm < 0 || confirm < controller {
		t.Fatalf("confirm must follow the player controller, got controller=%d confirm=%d", controller, confirm)
	}
}
