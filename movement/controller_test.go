package movement

import (
	"math"
	"testing"
)

func TestIntentFrom(t *testing.T) {
	cases := []struct {
		name              string
		left, right, play bool
		want              Intent
	}{
		{"idle", false, false, true, Idle},
		{"left", true, false, true, MoveLeft},
		{"right", false, true, true, MoveRight},
		{"both_left_wins", true, true, true, MoveLeft},
		{"left_not_playing", true, false, false, Idle},
		{"right_not_playing", false, true, false, Idle},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IntentFrom(c.left, c.right, c.play); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestDecideHorizontal(t *testing.T) {
	ctrl := DefaultController()

	cases := []struct {
		name      string
		in        Input
		grounded  bool
		play      bool
		accel     float64
		drag      bool
		facing    Facing
		anim      string
		walk      Emit
		walkSpeed float64
	}{
		{"left_grounded", Input{Left: true}, true, true, -200, false, FacingLeft, AnimWalk, EmitStart, 50},
		{"right_grounded", Input{Right: true}, true, true, 200, false, FacingRight, AnimWalk, EmitStart, -50},
		{"left_airborne", Input{Left: true}, false, true, -200, false, FacingLeft, AnimJump, EmitKeep, 50},
		{"idle_grounded", Input{}, true, true, 0, true, FacingKeep, AnimIdle, EmitStop, 0},
		{"idle_airborne", Input{}, false, true, 0, true, FacingKeep, AnimJump, EmitStop, 0},
		{"left_not_playing", Input{Left: true}, true, false, 0, true, FacingKeep, AnimIdle, EmitStop, 0},
		{"right_not_playing_airborne", Input{Right: true}, false, false, 0, true, FacingKeep, AnimJump, EmitStop, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := ctrl.Decide(c.in, c.grounded, c.play)
			if d.AccelX != c.accel {
				t.Fatalf("expected accel %v, got %v", c.accel, d.AccelX)
			}
			if d.ApplyDrag != c.drag {
				t.Fatalf("expected drag=%v, got %v", c.drag, d.ApplyDrag)
			}
			if c.drag && d.Drag != 700 {
				t.Fatalf("expected drag 700, got %v", d.Drag)
			}
			if d.Facing != c.facing {
				t.Fatalf("expected facing %v, got %v", c.facing, d.Facing)
			}
			if d.Animation != c.anim {
				t.Fatalf("expected animation %q, got %q", c.anim, d.Animation)
			}
			if d.Walk != c.walk {
				t.Fatalf("expected walk emit %v, got %v", c.walk, d.Walk)
			}
			if d.WalkSpeedX != c.walkSpeed {
				t.Fatalf("expected walk particle speed %v, got %v", c.walkSpeed, d.WalkSpeedX)
			}
		})
	}
}

func TestDecideJump(t *testing.T) {
	ctrl := DefaultController()

	cases := []struct {
		name     string
		pressed  bool
		grounded bool
		play     bool
		want     bool
	}{
		{"grounded_pressed_playing", true, true, true, true},
		{"airborne_pressed", true, false, true, false},
		{"not_playing", true, true, false, false},
		{"not_pressed", false, true, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := ctrl.Decide(Input{JumpPressed: c.pressed}, c.grounded, c.play)
			if d.Jump != c.want || d.JumpSound != c.want {
				t.Fatalf("expected jump=%v, got jump=%v sound=%v", c.want, d.Jump, d.JumpSound)
			}
			if c.want {
				if d.VelocityY != -450 {
					t.Fatalf("expected jump velocity -450, got %v", d.VelocityY)
				}
				if d.JumpParticles != EmitStart {
					t.Fatalf("expected jump particles to start")
				}
			} else if d.JumpParticles != EmitStop {
				t.Fatalf("expected jump particles to stop")
			}
		})
	}
}

func TestJumpOncePerEdge(t *testing.T) {
	ctrl := DefaultController()

	// up held for ten ticks: only the first reports the edge
	jumps := 0
	for tick := 0; tick < 10; tick++ {
		d := ctrl.Decide(Input{JumpPressed: tick == 0}, true, true)
		if d.Jump {
			jumps++
		}
	}
	if jumps != 1 {
		t.Fatalf("expected one jump for a held key, got %d", jumps)
	}
}

func TestApplyHorizontal(t *testing.T) {
	const dt = 1.0 / 60.0
	ctrl := DefaultController()

	t.Run("accelerates", func(t *testing.T) {
		d := ctrl.Decide(Input{Left: true}, true, true)
		vx := 0.0
		for i := 0; i < 60; i++ {
			vx = ApplyHorizontal(vx, d, dt)
		}
		if math.Abs(vx+200) > 1e-9 {
			t.Fatalf("expected -200 after one second, got %v", vx)
		}
	})

	t.Run("drag_decays_to_zero", func(t *testing.T) {
		d := ctrl.Decide(Input{}, true, true)
		vx := 140.0
		prev := vx
		for i := 0; i < 11; i++ {
			vx = ApplyHorizontal(vx, d, dt)
			if vx > prev {
				t.Fatalf("speed increased under drag: %v -> %v", prev, vx)
			}
			prev = vx
		}
		// 140 px/s at 700 px/s^2 stops within 0.2s
		if vx >= 140-700*dt*10 || vx < 0 {
			t.Fatalf("unexpected speed after drag: %v", vx)
		}
		for i := 0; i < 60; i++ {
			vx = ApplyHorizontal(vx, d, dt)
		}
		if vx != 0 {
			t.Fatalf("expected drag to stop the player, got %v", vx)
		}
	})

	t.Run("drag_never_reverses", func(t *testing.T) {
		d := ctrl.Decide(Input{}, true, true)
		if got := ApplyHorizontal(-3, d, dt); got != 0 {
			t.Fatalf("expected 0, got %v", got)
		}
	})

	t.Run("deceleration_outpaces_acceleration", func(t *testing.T) {
		tn := ctrl.Tuning()
		if tn.Drag <= tn.Acceleration {
			t.Fatalf("drag %v should exceed acceleration %v", tn.Drag, tn.Acceleration)
		}
	})
}

func TestSetTuning(t *testing.T) {
	ctrl := DefaultController()
	ctrl.SetTuning(Tuning{Acceleration: 10, Drag: 20, JumpVelocity: -5, ParticleVelocity: 1})
	d := ctrl.Decide(Input{Right: true, JumpPressed: true}, true, true)
	if d.AccelX != 10 || d.VelocityY != -5 || d.WalkSpeedX != -1 {
		t.Fatalf("tuning not applied: %+v", d)
	}
}
