package scenes

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/decker502/planetdrop/pkg/board"
	"github.com/decker502/planetdrop/pkg/config"
	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/decker502/planetdrop/pkg/entities"
	"github.com/decker502/planetdrop/pkg/game"
	"github.com/decker502/planetdrop/pkg/input"
	"github.com/decker502/planetdrop/pkg/pool"
	"github.com/decker502/planetdrop/pkg/systems"
	"github.com/decker502/planetdrop/pkg/timeline"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// hudHeight 棋盘上方留给 HUD 和出生点的高度
const hudHeight = 110

var (
	backgroundColor = color.RGBA{0x0b, 0x0d, 0x1a, 0xff}
	boardColor      = color.RGBA{0x16, 0x1a, 0x30, 0xff}
	gridLineColor   = color.RGBA{0x26, 0x2c, 0x4a, 0xff}
)

// GameSceneDeps 跨场景共享的依赖（音频、存储、输入、退出钩子）
type GameSceneDeps struct {
	Config   *config.GameConfig
	Audio    game.AudioPort
	Scores   game.HighScoreStore
	Reloader game.SceneReloader
	Pointer  input.PointerSource
	Exit     func()
	Rand     *rand.Rand
	Logger   *zap.Logger
}

// GameScene 主场景
//
// 每次重新开始都会创建新的 GameScene：实体管理器、对象池、会话、时间线
// 全部随场景重建，旧场景整体丢弃。
type GameScene struct {
	em        *ecs.EntityManager
	timeline  *timeline.Timeline
	session   *game.Session
	pool      *pool.ObjectPool
	board     *board.Board
	scheduler *game.SpawnScheduler
	machine   *game.GameStateMachine
	bridge    *input.Bridge
	hud       *HUD

	effectSystem *systems.EffectSystem
	renderSystem *systems.RenderSystem

	width, height float64
	logger        *zap.Logger
}

// ComputeLayout 根据窗口尺寸计算棋盘几何和出生点
//
// 返回：
//   - board.Layout: 棋盘几何（水平居中，贴近底部）
//   - float64, float64: 出生点（水平居中，HUD 区域内）
func ComputeLayout(cfg *config.GameConfig) (board.Layout, float64, float64) {
	width := float64(cfg.Window.Width)
	height := float64(cfg.Window.Height)
	cols := float64(cfg.Board.Columns)
	rows := float64(cfg.Board.Rows)

	cell := min(width/cols, (height-hudHeight)/rows)
	layout := board.Layout{
		Columns:       cfg.Board.Columns,
		Rows:          cfg.Board.Rows,
		CellSize:      cell,
		OriginX:       (width - cell*cols) / 2,
		OriginY:       height - cell*rows,
		MaxMergeLevel: cfg.Board.MaxMergeLevel,
	}
	return layout, width / 2, layout.OriginY - cell/2
}

// NewGameScene 创建主场景并装配一局游戏
//
// 返回：
//   - *GameScene: 场景
//   - error: 配置不合法导致棋盘创建失败时返回错误
func NewGameScene(deps GameSceneDeps) (*GameScene, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("game config cannot be nil")
	}
	if deps.Pointer == nil {
		return nil, fmt.Errorf("pointer source cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	cfg := deps.Config

	s := &GameScene{
		em:       ecs.NewEntityManager(),
		width:    float64(cfg.Window.Width),
		height:   float64(cfg.Window.Height),
		logger:   deps.Logger.Named("scene"),
		hud:      NewHUD(float64(cfg.Window.Width), float64(cfg.Window.Height)),
		timeline: timeline.New(deps.Logger),
		session:  game.NewSession(cfg.Spawn.MaxLevel),
	}

	layout, spawnX, spawnY := ComputeLayout(cfg)

	var err error
	s.board, err = board.New(s.em, layout, s.session, deps.Audio, s.onOverflow, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.pool = pool.New(s.em, func(index int) ecs.EntityID {
		id, err := entities.NewPlanetPair(s.em, index, spawnX, spawnY)
		if err != nil {
			s.logger.Error("planet construction failed", zap.Int("index", index), zap.Error(err))
		}
		s.logger.Debug("planet created",
			zap.String("planet", fmt.Sprintf("Planet %d", index)),
			zap.String("effect", fmt.Sprintf("Effect %d", index)))
		return id
	}, cfg.Pool.Size, deps.Logger)

	s.scheduler = game.NewSpawnScheduler(s.session, s.pool, s.em, s.timeline, deps.Audio, deps.Rand,
		game.SpawnSchedulerConfig{
			Cooldown: cfg.Spawn.Cooldown,
			SpawnX:   spawnX,
			SpawnY:   spawnY,
		}, deps.Logger)

	s.machine = game.NewGameStateMachine(game.StateMachineDeps{
		Session:             s.session,
		Scheduler:           s.scheduler,
		Pool:                s.pool,
		Timeline:            s.timeline,
		Audio:               deps.Audio,
		UI:                  s.hud,
		Scores:              deps.Scores,
		Reloader:            deps.Reloader,
		Behavior:            s.board,
		SpawnTerminalEffect: s.spawnTerminalEffect,
		StartDelay:          cfg.Spawn.StartDelay,
		FinalizeDelay:       cfg.Timing.FinalizeDelay,
		ResetDelay:          cfg.Timing.ResetDelay,
		Logger:              deps.Logger,
	})

	s.bridge = input.NewBridge(deps.Pointer, s.machine, s.follow, deps.Exit, deps.Logger)
	s.effectSystem = systems.NewEffectSystem(s.em)
	s.renderSystem = systems.NewRenderSystem(s.em, layout.CellSize)

	s.logger.Info("game scene created",
		zap.Int("poolSize", s.pool.Len()),
		zap.Int("columns", layout.Columns),
		zap.Int("rows", layout.Rows))
	return s, nil
}

// Machine 返回状态机
func (s *GameScene) Machine() *game.GameStateMachine {
	return s.machine
}

// Session 返回本局会话
func (s *GameScene) Session() *game.Session {
	return s.session
}

// Board 返回棋盘
func (s *GameScene) Board() *board.Board {
	return s.board
}

// Pool 返回对象池
func (s *GameScene) Pool() *pool.ObjectPool {
	return s.pool
}

// HUD 返回 HUD
func (s *GameScene) HUD() *HUD {
	return s.hud
}

// Update 输入 → 时间线 → 特效 → 分数显示
func (s *GameScene) Update(deltaTime float64) {
	s.bridge.Update()
	s.timeline.Update(deltaTime)
	s.effectSystem.Update(deltaTime)
	s.hud.SetScore(s.session.Score())
}

// Draw 背景 → 棋盘 → 行星与特效 → HUD
func (s *GameScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.drawBoard(screen)
	s.renderSystem.Draw(screen)
	s.hud.Draw(screen)
}

func (s *GameScene) drawBoard(screen *ebiten.Image) {
	l := s.board.Layout()
	x, y := float32(l.OriginX), float32(l.OriginY)
	w := float32(l.CellSize * float64(l.Columns))
	h := float32(l.CellSize * float64(l.Rows))
	vector.DrawFilledRect(screen, x, y, w, h, boardColor, false)

	for c := 1; c < l.Columns; c++ {
		cx := x + float32(l.CellSize*float64(c))
		vector.StrokeLine(screen, cx, y, cx, y+h, 1, gridLineColor, false)
	}
	// 第 0 行为警戒行
	vector.StrokeLine(screen, x, y+float32(l.CellSize), x+w, y+float32(l.CellSize), 1, color.RGBA{0x80, 0x30, 0x30, 0xff}, false)
}

// follow 拖拽中的行星跟随指针
func (s *GameScene) follow(x float64) {
	if id, ok := s.session.LastSpawned(); ok {
		s.board.Follow(id, x)
	}
}

// onOverflow 棋盘堆满时结束游戏
func (s *GameScene) onOverflow() {
	s.machine.GameOver()
}

// spawnTerminalEffect 在棋盘中央播放游戏结束特效
func (s *GameScene) spawnTerminalEffect() {
	l := s.board.Layout()
	x := l.OriginX + l.CellSize*float64(l.Columns)/2
	y := l.OriginY + l.CellSize*float64(l.Rows)/2
	if _, err := entities.NewTerminalEffect(s.em, x, y); err != nil {
		s.logger.Error("failed to create terminal effect", zap.Error(err))
	}
}
