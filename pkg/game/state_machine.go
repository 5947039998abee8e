package game

import (
	"github.com/decker502/planetdrop/pkg/pool"
	"github.com/decker502/planetdrop/pkg/sound"
	"github.com/decker502/planetdrop/pkg/timeline"
	"go.uber.org/zap"
)

// 默认状态切换延时（秒）
const (
	DefaultStartDelay    = 1.5
	DefaultFinalizeDelay = 1.0
	DefaultResetDelay    = 1.0
)

// State 游戏状态
type State int

const (
	// StateIdle 初始状态，显示开始面板
	StateIdle State = iota
	// StatePlaying 游戏进行中
	StatePlaying
	// StateGameOver 游戏结束，结算中或已结算
	StateGameOver
	// StateResetting 等待场景重载（终态）
	StateResetting
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StateGameOver:
		return "GameOver"
	case StateResetting:
		return "Resetting"
	default:
		return "Unknown"
	}
}

// StateMachineDeps 状态机依赖
type StateMachineDeps struct {
	Session   *Session
	Scheduler *SpawnScheduler
	Pool      *pool.ObjectPool
	Timeline  *timeline.Timeline

	Audio    AudioPort
	UI       UIPort
	Scores   HighScoreStore
	Reloader SceneReloader
	Behavior PlanetBehavior

	// SpawnTerminalEffect 游戏结束时播放的特效，可为 nil
	SpawnTerminalEffect func()

	StartDelay    float64
	FinalizeDelay float64
	ResetDelay    float64

	Logger *zap.Logger
}

// GameStateMachine 游戏状态机
//
// Idle → Playing → GameOver → Resetting。当前状态下不合法的调用是空操作。
type GameStateMachine struct {
	state State
	deps  StateMachineDeps

	startTimer    *timeline.Timer
	finalizeTimer *timeline.Timer
	resetTimer    *timeline.Timer

	finalized bool
	best      int

	logger *zap.Logger
}

// NewGameStateMachine 创建状态机
//
// 创建时读取已存储的最高分并推送给界面（不存在时为 0）。
func NewGameStateMachine(deps StateMachineDeps) *GameStateMachine {
	if deps.Audio == nil {
		deps.Audio = nopAudio{}
	}
	if deps.UI == nil {
		deps.UI = nopUI{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	m := &GameStateMachine{
		state:  StateIdle,
		deps:   deps,
		logger: deps.Logger.Named("state"),
	}

	if deps.Scores != nil {
		stored, err := deps.Scores.Load()
		if err != nil {
			m.logger.Warn("failed to load high score, using 0", zap.Error(err))
			stored = 0
		}
		m.best = stored
	}
	deps.UI.ShowStart(true)
	deps.UI.SetMaxScore(m.best)
	return m
}

// State 返回当前状态
func (m *GameStateMachine) State() State {
	return m.state
}

// Finalized 返回结算是否已完成（结算面板已显示）
func (m *GameStateMachine) Finalized() bool {
	return m.finalized
}

// Best 返回已知的最高分
func (m *GameStateMachine) Best() int {
	return m.best
}

// Session 返回当前会话
func (m *GameStateMachine) Session() *Session {
	return m.deps.Session
}

// HasLiveEntity 返回是否有等待操作的行星
func (m *GameStateMachine) HasLiveEntity() bool {
	_, ok := m.deps.Session.LastSpawned()
	return ok
}

func (m *GameStateMachine) transition(to State) {
	m.logger.Info("state transition",
		zap.Stringer("from", m.state),
		zap.Stringer("to", to),
		zap.Float64("at", m.deps.Timeline.Now()))
	m.state = to
}

// Start 开始游戏（仅 Idle 有效）
//
// 隐藏开始面板，播放背景音乐和按钮音效，StartDelay 秒后第一次出生。
func (m *GameStateMachine) Start() {
	if m.state != StateIdle {
		m.logger.Debug("start ignored", zap.Stringer("state", m.state))
		return
	}

	m.deps.UI.ShowStart(false)
	m.deps.Audio.PlayMusic()
	m.deps.Audio.PlayCue(sound.CueButton)
	m.transition(StatePlaying)

	m.startTimer = m.deps.Timeline.After("start-delay", m.deps.StartDelay, m.deps.Scheduler.SpawnNext)
}

// DragBegin 按下：把拖拽交给当前行星（仅 Playing 且存在 lastSpawned 时有效）
func (m *GameStateMachine) DragBegin() {
	if m.state != StatePlaying {
		return
	}
	id, ok := m.deps.Session.LastSpawned()
	if !ok {
		return
	}
	if m.deps.Behavior != nil {
		m.deps.Behavior.Drag(id)
	}
}

// DragEnd 松手：让当前行星落下，并把控制权交还给出生调度器
//
// 无论行星落下后是合并还是落位，lastSpawned 都会被清空。
func (m *GameStateMachine) DragEnd() {
	if m.state != StatePlaying {
		return
	}
	id, ok := m.deps.Session.LastSpawned()
	if !ok {
		return
	}
	if m.deps.Behavior != nil {
		m.deps.Behavior.Drop(id)
	}
	m.deps.Session.clearLastSpawned()
	m.deps.Scheduler.Release(id)
}

// GameOver 结束游戏（幂等）
//
// 标记会话结束，停止出生循环，播放结束特效，FinalizeDelay 秒后结算分数。
func (m *GameStateMachine) GameOver() {
	if m.state == StateGameOver || m.state == StateResetting {
		m.logger.Debug("game over ignored", zap.Stringer("state", m.state))
		return
	}

	m.deps.Session.markOver()
	m.transition(StateGameOver)

	m.startTimer.Cancel()
	m.deps.Scheduler.Stop()

	if m.deps.SpawnTerminalEffect != nil {
		m.deps.SpawnTerminalEffect()
	}

	m.finalizeTimer = m.deps.Timeline.After("finalize-score", m.deps.FinalizeDelay, m.finalize)
}

// finalize 结算：持久化 max(本局分数, 已存最高分)，显示结算面板，停止音乐
func (m *GameStateMachine) finalize() {
	score := m.deps.Session.Score()

	stored := 0
	if m.deps.Scores != nil {
		var err error
		stored, err = m.deps.Scores.Load()
		if err != nil {
			m.logger.Warn("failed to read high score before finalize", zap.Error(err))
			stored = m.best
		}
	}

	best := max(score, stored)
	if m.deps.Scores != nil {
		if err := m.deps.Scores.Save(best); err != nil {
			m.logger.Error("failed to persist high score", zap.Int("best", best), zap.Error(err))
		}
	}

	m.best = best
	m.finalized = true

	m.deps.UI.ShowResult(score, best)
	m.deps.UI.SetMaxScore(best)
	m.deps.Audio.StopMusic()
	m.deps.Audio.PlayCue(sound.CueOver)

	m.logger.Info("score finalized", zap.Int("score", score), zap.Int("best", best))
}

// Reset 重新开始（仅 GameOver 有效）
//
// 播放按钮音效，ResetDelay 秒后拆除会话并重载场景。
func (m *GameStateMachine) Reset() {
	if m.state != StateGameOver {
		m.logger.Debug("reset ignored", zap.Stringer("state", m.state))
		return
	}

	m.deps.Audio.PlayCue(sound.CueButton)
	m.transition(StateResetting)

	m.resetTimer = m.deps.Timeline.After("scene-reload", m.deps.ResetDelay, m.reload)
}

// reload 拆除会话并调用重载入口
func (m *GameStateMachine) reload() {
	m.deps.Scheduler.Stop()
	if m.deps.Pool != nil {
		m.deps.Pool.DeactivateAll()
	}
	m.deps.Session.clearLastSpawned()

	if m.deps.Reloader == nil {
		m.logger.Warn("no scene reloader registered")
		return
	}
	m.logger.Info("reloading scene")
	m.deps.Reloader.Reload()
}
