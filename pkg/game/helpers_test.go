package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/decker502/planetdrop/pkg/entities"
	"github.com/decker502/planetdrop/pkg/pool"
	"github.com/decker502/planetdrop/pkg/sound"
	"github.com/decker502/planetdrop/pkg/timeline"
)

// frame 测试用的固定帧间隔（60 TPS）
const frame = 1.0 / 60.0

// recordingAudio 记录所有音频调用
type recordingAudio struct {
	cues         []sound.Cue
	musicPlaying bool
	musicStarts  int
	musicStops   int
}

func (a *recordingAudio) PlayCue(cue sound.Cue) bool {
	a.cues = append(a.cues, cue)
	return true
}

func (a *recordingAudio) PlayMusic() {
	a.musicPlaying = true
	a.musicStarts++
}

func (a *recordingAudio) StopMusic() {
	a.musicPlaying = false
	a.musicStops++
}

func (a *recordingAudio) count(cue sound.Cue) int {
	n := 0
	for _, c := range a.cues {
		if c == cue {
			n++
		}
	}
	return n
}

// recordingUI 记录界面调用
type recordingUI struct {
	startVisible bool
	resultShown  int
	resultScore  int
	resultBest   int
	maxScore     int
}

func (u *recordingUI) ShowStart(visible bool) { u.startVisible = visible }
func (u *recordingUI) ShowResult(score, best int) {
	u.resultShown++
	u.resultScore = score
	u.resultBest = best
}
func (u *recordingUI) SetMaxScore(best int) { u.maxScore = best }

// memoryScores 内存最高分存储
type memoryScores struct {
	value   int
	saves   int
	loadErr error
	saveErr error
}

func (s *memoryScores) Load() (int, error) {
	if s.loadErr != nil {
		return 0, s.loadErr
	}
	return s.value, nil
}

func (s *memoryScores) Save(score int) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.value = score
	return nil
}

// countingReloader 记录重载次数
type countingReloader struct {
	reloads int
}

func (r *countingReloader) Reload() { r.reloads++ }

// recordingBehavior 记录拖拽/落下
type recordingBehavior struct {
	dragged []ecs.EntityID
	dropped []ecs.EntityID
	onDrop  func(id ecs.EntityID)
}

func (b *recordingBehavior) Drag(id ecs.EntityID) { b.dragged = append(b.dragged, id) }
func (b *recordingBehavior) Drop(id ecs.EntityID) {
	b.dropped = append(b.dropped, id)
	if b.onDrop != nil {
		b.onDrop(id)
	}
}

// testRig 完整的核心逻辑装配
type testRig struct {
	em        *ecs.EntityManager
	tl        *timeline.Timeline
	session   *Session
	pool      *pool.ObjectPool
	scheduler *SpawnScheduler
	machine   *GameStateMachine
	audio     *recordingAudio
	ui        *recordingUI
	scores    *memoryScores
	reloader  *countingReloader
	behavior  *recordingBehavior
	terminals int
}

func newTestRig(t *testing.T, poolSize int) *testRig {
	t.Helper()

	r := &testRig{
		em:       ecs.NewEntityManager(),
		tl:       timeline.New(nil),
		session:  NewSession(3),
		audio:    &recordingAudio{},
		ui:       &recordingUI{},
		scores:   &memoryScores{},
		reloader: &countingReloader{},
		behavior: &recordingBehavior{},
	}

	r.pool = pool.New(r.em, func(index int) ecs.EntityID {
		id, err := entities.NewPlanetPair(r.em, index, 0, 0)
		if err != nil {
			t.Fatalf("NewPlanetPair(%d) error: %v", index, err)
		}
		return id
	}, poolSize, nil)

	r.scheduler = NewSpawnScheduler(r.session, r.pool, r.em, r.tl, r.audio,
		rand.New(rand.NewSource(42)),
		SpawnSchedulerConfig{Cooldown: DefaultSpawnCooldown, SpawnX: 240, SpawnY: 60}, nil)

	return r
}

// withMachine 在 rig 上创建状态机（最高分需在此之前设置）
func (r *testRig) withMachine() *testRig {
	r.machine = NewGameStateMachine(StateMachineDeps{
		Session:             r.session,
		Scheduler:           r.scheduler,
		Pool:                r.pool,
		Timeline:            r.tl,
		Audio:               r.audio,
		UI:                  r.ui,
		Scores:              r.scores,
		Reloader:            r.reloader,
		Behavior:            r.behavior,
		SpawnTerminalEffect: func() { r.terminals++ },
		StartDelay:          DefaultStartDelay,
		FinalizeDelay:       DefaultFinalizeDelay,
		ResetDelay:          DefaultResetDelay,
	})
	return r
}

// advance 以固定帧步长推进 seconds 秒
func (r *testRig) advance(seconds float64) {
	frames := int(seconds/frame + 0.5)
	for i := 0; i < frames; i++ {
		r.tl.Update(frame)
	}
}

var errStorage = errors.New("storage unavailable")
