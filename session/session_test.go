package session

import (
	"slices"
	"testing"
)

type fakeHost struct {
	alive   map[int]bool
	doors   []int
	sounds  []string
	score   int
	reloads int

	// reloadNow makes Reload finish synchronously.
	reloadNow bool
	sess      *Session[int]
}

func newFakeHost(ids ...int) *fakeHost {
	h := &fakeHost{alive: make(map[int]bool)}
	for _, id := range ids {
		h.alive[id] = true
	}
	return h
}

func (h *fakeHost) Alive(e int) bool   { return h.alive[e] }
func (h *fakeHost) Destroy(e int)      { delete(h.alive, e) }
func (h *fakeHost) PlaySound(n string) { h.sounds = append(h.sounds, n) }
func (h *fakeHost) SetScore(c int)     { h.score = c }

func (h *fakeHost) DoorSegments() []int {
	var out []int
	for _, d := range h.doors {
		if h.alive[d] {
			out = append(out, d)
		}
	}
	return out
}

func (h *fakeHost) Reload() {
	h.reloads++
	if h.reloadNow && h.sess != nil {
		h.sess.LevelLoaded()
	}
}

const (
	gemA = iota + 1
	gemB
	gemC
	key
	keyhole
	doorTop
	doorMid
	doorBottom
	exit
)

func newLevel() (*fakeHost, *Session[int]) {
	h := newFakeHost(gemA, gemB, gemC, key, keyhole, doorTop, doorMid, doorBottom, exit)
	h.doors = []int{doorTop, doorMid, doorBottom}
	s := New[int](h)
	h.sess = s
	return h, s
}

func TestNewSessionStartsAtTitle(t *testing.T) {
	_, s := newLevel()
	if s.State() != TitleShown {
		t.Fatalf("expected title state, got %v", s.State())
	}
	if s.PlayMode() || s.KeyGet() || s.GemCount() != 0 {
		t.Fatalf("expected zero progress, got %+v", s.Snapshot())
	}
	if !s.TitleVisible() || s.EndVisible() || s.ScoreVisible() {
		t.Fatalf("unexpected screen visibility title=%v end=%v score=%v", s.TitleVisible(), s.EndVisible(), s.ScoreVisible())
	}
}

func TestGemTouches(t *testing.T) {
	cases := []struct {
		name    string
		touches []int
		want    int
	}{
		{"none", nil, 0},
		{"one", []int{gemA}, 1},
		{"three_distinct", []int{gemA, gemB, gemC}, 3},
		{"repeat_is_noop", []int{gemA, gemA, gemB, gemA}, 2},
		{"unknown_entity", []int{42}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, s := newLevel()
			for _, g := range c.touches {
				s.OnGemTouched(g)
			}
			if s.GemCount() != c.want {
				t.Fatalf("expected %d gems, got %d", c.want, s.GemCount())
			}
			if h.score != c.want {
				t.Fatalf("expected displayed score %d, got %d", c.want, h.score)
			}
			for _, g := range c.touches {
				if h.Alive(g) {
					t.Fatalf("gem %d should have been removed", g)
				}
			}
			gemSounds := 0
			for _, snd := range h.sounds {
				if snd == SoundGem {
					gemSounds++
				}
			}
			if gemSounds != c.want {
				t.Fatalf("expected %d gem sounds, got %d", c.want, gemSounds)
			}
		})
	}
}

func TestKeyholeRequiresKey(t *testing.T) {
	cases := []struct {
		name     string
		steps    []func(s *Session[int])
		wantOpen bool
	}{
		{
			name:     "keyhole_without_key",
			steps:    []func(s *Session[int]){func(s *Session[int]) { s.OnKeyholeTouched(keyhole) }},
			wantOpen: false,
		},
		{
			name: "keyhole_then_key",
			steps: []func(s *Session[int]){
				func(s *Session[int]) { s.OnKeyholeTouched(keyhole) },
				func(s *Session[int]) { s.OnKeyTouched(key) },
			},
			wantOpen: false,
		},
		{
			name: "key_then_keyhole",
			steps: []func(s *Session[int]){
				func(s *Session[int]) { s.OnKeyTouched(key) },
				func(s *Session[int]) { s.OnKeyholeTouched(keyhole) },
			},
			wantOpen: true,
		},
		{
			name: "keyhole_key_keyhole",
			steps: []func(s *Session[int]){
				func(s *Session[int]) { s.OnKeyholeTouched(keyhole) },
				func(s *Session[int]) { s.OnKeyTouched(key) },
				func(s *Session[int]) { s.OnKeyholeTouched(keyhole) },
			},
			wantOpen: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, s := newLevel()
			for _, step := range c.steps {
				step(s)
			}
			open := !h.Alive(keyhole) && len(h.DoorSegments()) == 0
			if open != c.wantOpen {
				t.Fatalf("expected door open=%v, got keyhole alive=%v doors=%v", c.wantOpen, h.Alive(keyhole), h.DoorSegments())
			}
			if !c.wantOpen && slices.Contains(h.sounds, SoundDoor) {
				t.Fatalf("door sound played without opening")
			}
		})
	}
}

func TestKeyPickupIsOneShot(t *testing.T) {
	h, s := newLevel()
	s.OnKeyTouched(key)
	s.OnKeyTouched(key)
	if !s.KeyGet() {
		t.Fatalf("expected key to be held")
	}
	if h.Alive(key) {
		t.Fatalf("key should be destroyed")
	}
	if n := len(h.sounds); n != 1 {
		t.Fatalf("expected one key sound, got %d (%v)", n, h.sounds)
	}
}

func TestStartOnlyFromTitle(t *testing.T) {
	var events []EventKind
	h := newFakeHost(exit)
	s := New[int](h, WithObserver[int](func(e Event) { events = append(events, e.Kind) }))

	s.OnStartRequested()
	if !s.PlayMode() || s.TitleVisible() || s.State() != Playing {
		t.Fatalf("expected playing after start, got state=%v play=%v", s.State(), s.PlayMode())
	}

	s.OnStartRequested()
	s.Confirm()
	if len(events) != 1 || events[0] != EventStarted {
		t.Fatalf("expected a single start transition, got %v", events)
	}

	s.OnExitTouched(exit)
	s.OnStartRequested()
	if s.PlayMode() {
		t.Fatalf("start after exit should be ignored")
	}
}

func TestExitEndsPlaythrough(t *testing.T) {
	h, s := newLevel()
	s.OnStartRequested()
	s.OnExitTouched(exit)

	if s.PlayMode() {
		t.Fatalf("expected play mode off after exit")
	}
	if !s.EndVisible() || !s.ScoreVisible() {
		t.Fatalf("expected end screen and score visible")
	}
	if s.State() != Won {
		t.Fatalf("expected won, got %v", s.State())
	}
	if h.Alive(exit) {
		t.Fatalf("exit should be destroyed")
	}
	if !slices.Contains(h.sounds, SoundWin) {
		t.Fatalf("expected win sound, got %v", h.sounds)
	}
}

func TestRestartGuards(t *testing.T) {
	cases := []struct {
		name        string
		setup       func(s *Session[int])
		wantReloads int
	}{
		{"from_title", func(s *Session[int]) {}, 0},
		{"playing_with_key", func(s *Session[int]) {
			s.OnStartRequested()
			s.OnKeyTouched(key)
		}, 0},
		{"won_without_key", func(s *Session[int]) {
			s.OnStartRequested()
			s.OnExitTouched(exit)
		}, 0},
		{"won_with_key", func(s *Session[int]) {
			s.OnStartRequested()
			s.OnKeyTouched(key)
			s.OnExitTouched(exit)
		}, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, s := newLevel()
			c.setup(s)
			s.OnRestartRequested()
			if h.reloads != c.wantReloads {
				t.Fatalf("expected %d reloads, got %d", c.wantReloads, h.reloads)
			}
		})
	}
}

func TestRestartResetsProgress(t *testing.T) {
	for _, sync := range []bool{false, true} {
		name := "deferred_reload"
		if sync {
			name = "synchronous_reload"
		}
		t.Run(name, func(t *testing.T) {
			h, s := newLevel()
			h.reloadNow = sync

			s.OnStartRequested()
			s.OnGemTouched(gemA)
			s.OnGemTouched(gemB)
			s.OnKeyTouched(key)
			s.OnKeyholeTouched(keyhole)
			s.OnExitTouched(exit)
			before := s.PlayMode()

			s.Confirm()

			if s.GemCount() != 0 || s.KeyGet() {
				t.Fatalf("expected reset progress, got %+v", s.Snapshot())
			}
			if s.PlayMode() != before {
				t.Fatalf("play mode should be left unchanged by restart")
			}
			if !sync {
				if s.State() != Restarting {
					t.Fatalf("expected restarting until the host reloads, got %v", s.State())
				}
				s.LevelLoaded()
			}
			if s.State() != TitleShown {
				t.Fatalf("expected title after reload, got %v", s.State())
			}
			if s.EndVisible() || s.ScoreVisible() {
				t.Fatalf("end screen should be hidden after reload")
			}
			if h.score != 0 {
				t.Fatalf("expected displayed score reset, got %d", h.score)
			}

			s.Confirm()
			if !s.PlayMode() || s.State() != Playing {
				t.Fatalf("expected a second playthrough to start, got %v", s.State())
			}
		})
	}
}

func TestLevelLoadedWithoutRestartIsNoop(t *testing.T) {
	_, s := newLevel()
	s.OnStartRequested()
	s.LevelLoaded()
	if s.State() != Playing {
		t.Fatalf("expected playing, got %v", s.State())
	}
}

func TestEndToEndScenario(t *testing.T) {
	var events []EventKind
	h := newFakeHost(gemA, gemB, gemC, key, keyhole, doorTop, doorMid, doorBottom, exit)
	h.doors = []int{doorTop, doorMid, doorBottom}
	s := New[int](h, WithObserver[int](func(e Event) { events = append(events, e.Kind) }))

	s.Confirm()
	for _, g := range []int{gemA, gemB, gemC} {
		s.OnGemTouched(g)
	}
	if h.score != 3 {
		t.Fatalf("expected score 3, got %d", h.score)
	}

	s.OnKeyTouched(key)
	s.OnKeyholeTouched(keyhole)
	if doors := h.DoorSegments(); len(doors) != 0 {
		t.Fatalf("expected empty door group, got %v", doors)
	}

	s.OnExitTouched(exit)
	if s.PlayMode() || !s.EndVisible() || !s.ScoreVisible() {
		t.Fatalf("expected end screen with score, got state=%v", s.State())
	}

	want := []EventKind{
		EventStarted,
		EventGemCollected, EventGemCollected, EventGemCollected,
		EventKeyCollected,
		EventDoorOpened,
		EventWon,
	}
	if !slices.Equal(events, want) {
		t.Fatalf("expected events %v, got %v", want, events)
	}
	wantSounds := []string{SoundGem, SoundGem, SoundGem, SoundKey, SoundDoor, SoundWin}
	if !slices.Equal(h.sounds, wantSounds) {
		t.Fatalf("expected sounds %v, got %v", wantSounds, h.sounds)
	}
}
