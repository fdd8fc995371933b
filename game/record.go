package game

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/scores"
	"github.com/milk9111/platformer/session"
)

// RunStore persists finished runs.
type RunStore interface {
	SaveRun(ctx context.Context, r scores.Run) (scores.Run, error)
	Best(ctx context.Context, level string) (int, bool, error)
}

// BestDisplay shows the best recorded result on the end screen.
type BestDisplay interface {
	SetBest(best int, ok bool)
}

// recorder observes session transitions: it logs them, times the run in
// ticks and saves it once the exit is reached.
type recorder struct {
	level string
	tps   int
	store RunStore
	best  BestDisplay
	log   *log.Logger

	ticks   int
	playing bool
}

func (r *recorder) tick() {
	if r.playing {
		r.ticks++
	}
}

func (r *recorder) duration() time.Duration {
	tps := r.tps
	if tps <= 0 {
		tps = common.TPS
	}
	return time.Duration(r.ticks) * time.Second / time.Duration(tps)
}

func (r *recorder) observe(evt session.Event) {
	r.log.Debug("session", "event", evt.Kind, "state", evt.State, "gems", evt.Snapshot.GemCount, "key", evt.Snapshot.KeyGet)

	switch evt.Kind {
	case session.EventStarted:
		r.ticks = 0
		r.playing = true
	case session.EventWon:
		r.playing = false
		r.save(evt.Snapshot.GemCount)
	case session.EventRestarted:
		r.playing = false
		r.log.Info("restarting level", "level", r.level)
	}
}

func (r *recorder) save(gems int) {
	d := r.duration()
	r.log.Info("level complete", "level", r.level, "gems", gems, "time", d.Round(10*time.Millisecond))
	if r.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	run, err := r.store.SaveRun(ctx, scores.Run{Level: r.level, Gems: gems, Duration: d})
	if err != nil {
		r.log.Warn("could not save run", "error", err)
		return
	}
	r.log.Debug("run saved", "id", run.ID)

	best, ok, err := r.store.Best(ctx, r.level)
	if err != nil {
		r.log.Warn("could not read best run", "error", err)
		return
	}
	if r.best != nil {
		r.best.SetBest(best, ok)
	}
}
