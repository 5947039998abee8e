package game

import (
	"testing"

	"github.com/decker502/planetdrop/pkg/sound"
)

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StatePlaying, "Playing"},
		{StateGameOver, "GameOver"},
		{StateResetting, "Resetting"},
		{State(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestNewStateMachinePushesStoredBest(t *testing.T) {
	r := newTestRig(t, 5)
	r.scores.value = 77
	r.withMachine()

	if r.machine.State() != StateIdle {
		t.Errorf("initial state = %v, want Idle", r.machine.State())
	}
	if r.ui.maxScore != 77 {
		t.Errorf("SetMaxScore got %d, want 77", r.ui.maxScore)
	}
	if !r.ui.startVisible {
		t.Error("start panel should be visible in Idle")
	}
}

func TestNewStateMachineLoadErrorDefaultsToZero(t *testing.T) {
	r := newTestRig(t, 5)
	r.scores.loadErr = errStorage
	r.withMachine()

	if r.machine.Best() != 0 || r.ui.maxScore != 0 {
		t.Errorf("best = %d, ui = %d, want 0", r.machine.Best(), r.ui.maxScore)
	}
}

func TestStartSpawnsAfterDelay(t *testing.T) {
	r := newTestRig(t, 5).withMachine()

	r.machine.Start()

	if r.machine.State() != StatePlaying {
		t.Fatalf("state = %v, want Playing", r.machine.State())
	}
	if r.ui.startVisible {
		t.Error("start panel should be hidden")
	}
	if !r.audio.musicPlaying {
		t.Error("music should be playing")
	}
	if r.audio.count(sound.CueButton) != 1 {
		t.Errorf("expected one Button cue, got %d", r.audio.count(sound.CueButton))
	}

	r.advance(1.4)
	if r.scheduler.SpawnCount() != 0 {
		t.Fatal("spawned before the start delay elapsed")
	}
	r.advance(0.2)
	if r.scheduler.SpawnCount() != 1 {
		t.Fatalf("expected first spawn after 1.5s, count=%d", r.scheduler.SpawnCount())
	}
}

func TestStartIgnoredOutsideIdle(t *testing.T) {
	r := newTestRig(t, 5).withMachine()

	r.machine.Start()
	r.machine.Start()
	r.advance(2)

	if r.scheduler.SpawnCount() != 1 {
		t.Errorf("double start must schedule one spawn, count=%d", r.scheduler.SpawnCount())
	}
	if r.audio.musicStarts != 1 {
		t.Errorf("music started %d times", r.audio.musicStarts)
	}
}

func TestDragCycleDrivesScheduler(t *testing.T) {
	r := newTestRig(t, 5).withMachine()
	r.machine.Start()
	r.advance(1.6)

	id, ok := r.session.LastSpawned()
	if !ok {
		t.Fatal("expected a spawned planet")
	}

	r.machine.DragBegin()
	if len(r.behavior.dragged) != 1 || r.behavior.dragged[0] != id {
		t.Errorf("drag should target %d, got %v", id, r.behavior.dragged)
	}

	r.machine.DragEnd()
	if len(r.behavior.dropped) != 1 || r.behavior.dropped[0] != id {
		t.Errorf("drop should target %d, got %v", id, r.behavior.dropped)
	}
	if r.machine.HasLiveEntity() {
		t.Error("lastSpawned should be cleared after drop")
	}

	// 松手后 2.5 秒出生下一个
	r.advance(2.4)
	if r.scheduler.SpawnCount() != 1 {
		t.Fatalf("spawned during cooldown, count=%d", r.scheduler.SpawnCount())
	}
	r.advance(0.2)
	if r.scheduler.SpawnCount() != 2 {
		t.Fatalf("expected second spawn after cooldown, count=%d", r.scheduler.SpawnCount())
	}
}

func TestDragIgnoredWithoutLiveEntity(t *testing.T) {
	r := newTestRig(t, 5).withMachine()

	// Idle
	r.machine.DragBegin()
	r.machine.DragEnd()

	r.machine.Start()
	// Playing，但尚未出生
	r.machine.DragBegin()
	r.machine.DragEnd()

	if len(r.behavior.dragged) != 0 || len(r.behavior.dropped) != 0 {
		t.Errorf("no drag/drop expected, got %v / %v", r.behavior.dragged, r.behavior.dropped)
	}
}

func TestGameOverDuringStartDelayCancelsFirstSpawn(t *testing.T) {
	r := newTestRig(t, 5).withMachine()
	r.machine.Start()
	r.advance(0.5)

	r.machine.GameOver()
	r.advance(5)

	if r.scheduler.SpawnCount() != 0 {
		t.Errorf("no spawn expected after game over, count=%d", r.scheduler.SpawnCount())
	}
}

func TestGameOverDuringCooldownBlocksSpawn(t *testing.T) {
	r := newTestRig(t, 5).withMachine()
	r.machine.Start()
	r.advance(1.6)
	r.machine.DragBegin()
	r.machine.DragEnd()

	r.advance(1)
	r.machine.GameOver()
	r.advance(5)

	if r.scheduler.SpawnCount() != 1 {
		t.Errorf("cooldown spawn must not happen after game over, count=%d", r.scheduler.SpawnCount())
	}
	if r.machine.State() != StateGameOver {
		t.Errorf("state = %v, want GameOver", r.machine.State())
	}
}

func TestGameOverFinalizesAfterDelay(t *testing.T) {
	r := newTestRig(t, 5).withMachine()
	r.machine.Start()
	r.session.AddScore(12)

	r.machine.GameOver()
	if r.terminals != 1 {
		t.Errorf("terminal effect spawned %d times", r.terminals)
	}

	r.advance(0.9)
	if r.machine.Finalized() || r.ui.resultShown != 0 {
		t.Fatal("finalized before delay elapsed")
	}

	r.advance(0.2)
	if !r.machine.Finalized() {
		t.Fatal("expected finalize after 1s")
	}
	if r.ui.resultShown != 1 || r.ui.resultScore != 12 || r.ui.resultBest != 12 {
		t.Errorf("result = (%d, %d) shown %d times, want (12, 12) once",
			r.ui.resultScore, r.ui.resultBest, r.ui.resultShown)
	}
	if r.audio.musicPlaying {
		t.Error("music should stop on finalize")
	}
	if r.audio.count(sound.CueOver) != 1 {
		t.Errorf("expected one Over cue, got %d", r.audio.count(sound.CueOver))
	}
}

func TestGameOverIsIdempotent(t *testing.T) {
	r := newTestRig(t, 5).withMachine()
	r.machine.Start()

	r.machine.GameOver()
	r.machine.GameOver()
	r.advance(3)
	r.machine.GameOver()
	r.advance(3)

	if r.terminals != 1 {
		t.Errorf("terminal effect spawned %d times, want 1", r.terminals)
	}
	if r.ui.resultShown != 1 {
		t.Errorf("result shown %d times, want 1", r.ui.resultShown)
	}
	if r.scores.saves != 1 {
		t.Errorf("high score saved %d times, want 1", r.scores.saves)
	}
}

func TestGameOverFromIdle(t *testing.T) {
	r := newTestRig(t, 5).withMachine()

	r.machine.GameOver()
	r.advance(1.1)

	if r.machine.State() != StateGameOver || !r.machine.Finalized() {
		t.Errorf("state = %v finalized = %v", r.machine.State(), r.machine.Finalized())
	}
}

func TestHighScorePersistence(t *testing.T) {
	tests := []struct {
		name      string
		stored    int
		score     int
		wantBest  int
		wantSaved int
	}{
		{"keeps higher stored score", 50, 30, 50, 50},
		{"records new best", 50, 80, 80, 80},
		{"first game", 0, 15, 15, 15},
		{"zero score", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRig(t, 5)
			r.scores.value = tt.stored
			r.withMachine()

			r.machine.Start()
			r.session.AddScore(tt.score)
			r.machine.GameOver()
			r.advance(1.1)

			if r.scores.value != tt.wantSaved {
				t.Errorf("stored = %d, want %d", r.scores.value, tt.wantSaved)
			}
			if r.ui.resultScore != tt.score || r.ui.resultBest != tt.wantBest {
				t.Errorf("result = (%d, %d), want (%d, %d)",
					r.ui.resultScore, r.ui.resultBest, tt.score, tt.wantBest)
			}
			if r.machine.Best() != tt.wantBest {
				t.Errorf("Best() = %d, want %d", r.machine.Best(), tt.wantBest)
			}
		})
	}
}

func TestFinalizeSurvivesStorageErrors(t *testing.T) {
	r := newTestRig(t, 5)
	r.scores.value = 40
	r.withMachine()

	r.machine.Start()
	r.session.AddScore(10)
	r.scores.loadErr = errStorage
	r.scores.saveErr = errStorage
	r.machine.GameOver()
	r.advance(1.1)

	if !r.machine.Finalized() {
		t.Fatal("finalize should complete despite storage errors")
	}
	// 读取失败时退回到创建时读到的最高分
	if r.ui.resultBest != 40 {
		t.Errorf("best = %d, want 40", r.ui.resultBest)
	}
}

func TestResetReloadsAfterDelay(t *testing.T) {
	r := newTestRig(t, 5).withMachine()
	r.machine.Start()
	r.advance(1.6)
	r.machine.GameOver()
	r.advance(1.1)

	r.machine.Reset()
	if r.machine.State() != StateResetting {
		t.Fatalf("state = %v, want Resetting", r.machine.State())
	}

	r.advance(0.9)
	if r.reloader.reloads != 0 {
		t.Fatal("reloaded before delay elapsed")
	}
	r.advance(0.2)
	if r.reloader.reloads != 1 {
		t.Fatalf("expected one reload, got %d", r.reloader.reloads)
	}
	if r.pool.ActiveCount() != 0 {
		t.Errorf("all planets should be dormant after reload, active=%d", r.pool.ActiveCount())
	}

	r.machine.Reset()
	r.advance(2)
	if r.reloader.reloads != 1 {
		t.Errorf("reset from Resetting must be ignored, reloads=%d", r.reloader.reloads)
	}
}

func TestResetIgnoredOutsideGameOver(t *testing.T) {
	r := newTestRig(t, 5).withMachine()

	r.machine.Reset()
	r.machine.Start()
	r.machine.Reset()
	r.advance(3)

	if r.reloader.reloads != 0 {
		t.Errorf("reset must be ignored, reloads=%d", r.reloader.reloads)
	}
	if r.machine.State() != StatePlaying {
		t.Errorf("state = %v, want Playing", r.machine.State())
	}
}

func TestNilPortsUseNoops(t *testing.T) {
	r := newTestRig(t, 5)
	m := NewGameStateMachine(StateMachineDeps{
		Session:       r.session,
		Scheduler:     r.scheduler,
		Timeline:      r.tl,
		StartDelay:    DefaultStartDelay,
		FinalizeDelay: DefaultFinalizeDelay,
		ResetDelay:    DefaultResetDelay,
	})

	m.Start()
	r.advance(1.6)
	m.DragBegin()
	m.DragEnd()
	m.GameOver()
	r.advance(1.1)
	m.Reset()
	r.advance(1.1)

	if m.State() != StateResetting {
		t.Errorf("state = %v, want Resetting", m.State())
	}
}
