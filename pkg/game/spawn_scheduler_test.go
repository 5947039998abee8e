package game

import (
	"testing"

	"github.com/decker502/planetdrop/pkg/components"
	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/decker502/planetdrop/pkg/sound"
)

func TestSpawnNextActivatesPlanet(t *testing.T) {
	r := newTestRig(t, 5)

	r.scheduler.SpawnNext()

	id, ok := r.scheduler.Current()
	if !ok {
		t.Fatal("expected a live entity after SpawnNext")
	}
	if last, ok := r.session.LastSpawned(); !ok || last != id {
		t.Errorf("session.LastSpawned() = (%d, %v), want (%d, true)", last, ok, id)
	}

	planet, ok := ecs.GetComponent[*components.PlanetComponent](r.em, id)
	if !ok {
		t.Fatal("planet component missing")
	}
	if !planet.Active {
		t.Error("spawned planet should be active")
	}
	if planet.Level < 0 || planet.Level >= r.session.MaxLevel() {
		t.Errorf("level %d out of [0, %d)", planet.Level, r.session.MaxLevel())
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](r.em, id)
	if !ok || pos.X != 240 || pos.Y != 60 {
		t.Errorf("planet should be placed at the spawn point, got %+v", pos)
	}

	if r.audio.count(sound.CueNext) != 1 {
		t.Errorf("expected one Next cue, got %d", r.audio.count(sound.CueNext))
	}
}

func TestSpawnLevelsStayInRange(t *testing.T) {
	r := newTestRig(t, 1)

	for i := 0; i < 50; i++ {
		r.scheduler.SpawnNext()
		id, _ := r.scheduler.Current()
		planet, _ := ecs.GetComponent[*components.PlanetComponent](r.em, id)
		if planet.Level < 0 || planet.Level >= 3 {
			t.Fatalf("spawn %d: level %d out of range", i, planet.Level)
		}
		r.scheduler.Release(id)
		r.scheduler.Stop()
	}
}

func TestSpawnNextRefusedWhileLive(t *testing.T) {
	r := newTestRig(t, 5)

	r.scheduler.SpawnNext()
	first, _ := r.scheduler.Current()
	r.scheduler.SpawnNext()

	if r.scheduler.SpawnCount() != 1 {
		t.Errorf("second spawn should be refused, count=%d", r.scheduler.SpawnCount())
	}
	if current, _ := r.scheduler.Current(); current != first {
		t.Errorf("current changed from %d to %d", first, current)
	}
	if r.pool.ActiveCount() != 1 {
		t.Errorf("expected one active planet, got %d", r.pool.ActiveCount())
	}
}

func TestSpawnNextSkippedWhenSessionOver(t *testing.T) {
	r := newTestRig(t, 5)
	r.session.markOver()

	r.scheduler.SpawnNext()

	if _, ok := r.scheduler.Current(); ok {
		t.Error("no entity should spawn after the session is over")
	}
	if r.pool.ActiveCount() != 0 {
		t.Errorf("pool should stay dormant, active=%d", r.pool.ActiveCount())
	}
}

func TestReleaseStartsCooldown(t *testing.T) {
	r := newTestRig(t, 5)

	r.scheduler.SpawnNext()
	id, _ := r.scheduler.Current()
	r.scheduler.Release(id)

	if _, ok := r.scheduler.Current(); ok {
		t.Error("current should be cleared after release")
	}
	if !r.scheduler.CooldownPending() {
		t.Fatal("cooldown should be pending after release")
	}

	r.advance(2.4)
	if r.scheduler.SpawnCount() != 1 {
		t.Fatalf("spawned before cooldown elapsed, count=%d", r.scheduler.SpawnCount())
	}

	r.advance(0.2)
	if r.scheduler.SpawnCount() != 2 {
		t.Fatalf("expected exactly one spawn after cooldown, count=%d", r.scheduler.SpawnCount())
	}

	// 没有新的松手通知时不会继续出生
	r.advance(10)
	if r.scheduler.SpawnCount() != 2 {
		t.Errorf("spawned without release, count=%d", r.scheduler.SpawnCount())
	}
}

func TestReleaseIgnoresMismatch(t *testing.T) {
	r := newTestRig(t, 5)

	// 没有当前行星
	r.scheduler.Release(ecs.EntityID(99))
	if r.scheduler.CooldownPending() {
		t.Fatal("release without a live entity must not start a cooldown")
	}

	r.scheduler.SpawnNext()
	id, _ := r.scheduler.Current()

	r.scheduler.Release(id + 1000)
	if _, ok := r.scheduler.Current(); !ok {
		t.Error("mismatched release must not clear the current entity")
	}

	r.scheduler.Release(id)
	r.scheduler.Release(id)
	if r.tl.Pending() != 1 {
		t.Errorf("duplicate release should schedule one cooldown, pending=%d", r.tl.Pending())
	}
}

func TestStopCancelsCooldown(t *testing.T) {
	r := newTestRig(t, 5)

	r.scheduler.SpawnNext()
	id, _ := r.scheduler.Current()
	r.scheduler.Release(id)
	r.scheduler.Stop()

	r.advance(5)
	if r.scheduler.SpawnCount() != 1 {
		t.Errorf("cancelled cooldown must not spawn, count=%d", r.scheduler.SpawnCount())
	}
}

func TestCooldownSpawnBlockedBySessionOver(t *testing.T) {
	r := newTestRig(t, 5)

	r.scheduler.SpawnNext()
	id, _ := r.scheduler.Current()
	r.scheduler.Release(id)

	// 冷却期间会话结束，但计时器未被取消
	r.session.markOver()
	r.advance(3)

	if r.scheduler.SpawnCount() != 1 {
		t.Errorf("spawn after session over, count=%d", r.scheduler.SpawnCount())
	}
}

func TestSpawnGrowsPoolWhenExhausted(t *testing.T) {
	r := newTestRig(t, 2)

	for i := 0; i < 4; i++ {
		r.scheduler.SpawnNext()
		id, _ := r.scheduler.Current()
		// 落下的行星保持激活（模拟留在棋盘上）
		r.scheduler.Release(id)
		r.scheduler.Stop()
	}

	if r.pool.Len() != 4 {
		t.Errorf("pool should grow to 4, got %d", r.pool.Len())
	}
	if r.pool.ActiveCount() != 4 {
		t.Errorf("expected 4 active planets, got %d", r.pool.ActiveCount())
	}
}
