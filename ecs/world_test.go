package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/platformer/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if got := len(Entities(w)); got != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, got)
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("second DestroyEntity should return false")
			}
			if got := EntityCount(w); got != c.create-1 {
				t.Fatalf("expected %d live entities, got %d", c.create-1, got)
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if err := Add(w, old, h.Kind(), intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse, got %v then %v", old, fresh)
	}
	if fresh == old {
		t.Fatalf("reused slot must carry a new generation")
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle reported alive")
	}
	if Has(w, fresh, h.Kind()) {
		t.Fatalf("fresh entity inherited a destroyed component")
	}
	if err := Add(w, old, h.Kind(), intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
}

func TestAddGetRemove(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	names := component.NewComponent[string]()
	e := CreateEntity(w)

	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "add_and_get",
			run: func(t *testing.T) {
				if err := Add(w, e, ints.Kind(), intPtr(10)); err != nil {
					t.Fatal(err)
				}
				v, ok := Get(w, e, ints.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
		},
		{
			name: "replace",
			run: func(t *testing.T) {
				if err := Add(w, e, ints.Kind(), intPtr(11)); err != nil {
					t.Fatal(err)
				}
				if v, _ := Get(w, e, ints.Kind()); *v != 11 {
					t.Fatalf("expected replaced value 11, got %d", *v)
				}
				if Count(w, ints.Kind()) != 1 {
					t.Fatalf("replace must not duplicate the entry")
				}
			},
		},
		{
			name: "kinds_are_independent",
			run: func(t *testing.T) {
				if Has(w, e, names.Kind()) {
					t.Fatalf("string kind should be empty")
				}
				s := "gem"
				if err := Add(w, e, names.Kind(), &s); err != nil {
					t.Fatal(err)
				}
				if !Has(w, e, names.Kind()) || !Has(w, e, ints.Kind()) {
					t.Fatalf("expected both kinds present")
				}
			},
		},
		{
			name: "remove",
			run: func(t *testing.T) {
				if !Remove(w, e, ints.Kind()) {
					t.Fatalf("remove should report true")
				}
				if Remove(w, e, ints.Kind()) {
					t.Fatalf("second remove should report false")
				}
				if Has(w, e, ints.Kind()) {
					t.Fatalf("component still present")
				}
			},
		},
		{
			name: "rejects_nil_and_invalid",
			run: func(t *testing.T) {
				if err := Add[int](w, e, ints.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
					t.Fatalf("expected ErrNilComponent, got %v", err)
				}
				var zero component.ComponentKind[int]
				if err := Add(w, e, zero, intPtr(1)); !errors.Is(err, component.ErrInvalidComponentKind) {
					t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestForEachQueries(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	// only e2 carries all four
	mustAdd := func(e Entity, k component.ComponentKind[int], v int) {
		t.Helper()
		if err := Add(w, e, k, intPtr(v)); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(e1, ka, 1)
	mustAdd(e2, ka, 2)
	mustAdd(e2, kb, 3)
	mustAdd(e2, kc, 4)
	mustAdd(e2, kd, 5)
	mustAdd(e3, kb, 6)

	t.Run("single", func(t *testing.T) {
		got := Collect(w, ka)
		if len(got) != 2 {
			t.Fatalf("expected e1 and e2, got %v", got)
		}
	})

	t.Run("pair", func(t *testing.T) {
		var res []Entity
		ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
		if len(res) != 1 || res[0] != e2 {
			t.Fatalf("expected only e2, got %v", res)
		}
	})

	t.Run("triple_and_quad", func(t *testing.T) {
		var three, four []Entity
		ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { three = append(three, e) })
		ForEach4(w, ka, kb, kc, kd, func(e Entity, _, _, _, _ *int) { four = append(four, e) })
		if len(three) != 1 || three[0] != e2 || len(four) != 1 || four[0] != e2 {
			t.Fatalf("expected only e2, got %v and %v", three, four)
		}
	})

	t.Run("missing_store", func(t *testing.T) {
		empty := component.NewComponentKind[int]()
		called := false
		ForEach2(w, ka, empty, func(Entity, *int, *int) { called = true })
		if called {
			t.Fatalf("query over a missing store should not call fn")
		}
	})

	t.Run("destroy_during_iteration", func(t *testing.T) {
		visited := 0
		ForEach(w, ka, func(e Entity, _ *int) {
			visited++
			for _, other := range []Entity{e1, e2} {
				if other != e {
					DestroyEntity(w, other)
				}
			}
		})
		if visited != 1 {
			t.Fatalf("expected destroyed entity to be skipped, visited %d", visited)
		}
	})
}

func TestFirstAndEvents(t *testing.T) {
	w := NewWorld()
	tag := component.NewComponent[struct{}]()
	if _, ok := First(w, tag.Kind()); ok {
		t.Fatalf("empty world has no first entity")
	}
	e := CreateEntity(w)
	if err := Add(w, e, tag.Kind(), &struct{}{}); err != nil {
		t.Fatal(err)
	}
	if got, ok := First(w, tag.Kind()); !ok || got != e {
		t.Fatalf("expected %v, got %v ok=%v", e, got, ok)
	}

	q := w.Events()
	q.Push(Event{Type: EventOverlap, Data: OverlapEvent{Player: e, Other: e}})
	if q.Len() != 1 {
		t.Fatalf("expected one queued event")
	}
	if evts := q.Drain(); len(evts) != 1 || evts[0].Type != EventOverlap {
		t.Fatalf("unexpected drain result %v", evts)
	}
	if q.Drain() != nil {
		t.Fatalf("drain should clear the queue")
	}
}
