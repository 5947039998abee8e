// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/decker502/planetdrop/pkg/config"
	"github.com/decker502/planetdrop/pkg/game"
	"github.com/decker502/planetdrop/pkg/input"
	"github.com/decker502/planetdrop/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
)

// DefaultConfigPath 默认配置文件路径（磁盘上不存在时读取嵌入的同名文件）
const DefaultConfigPath = "data/planetdrop.yaml"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用 debug 日志
	Verbose bool
	// ConfigPath 游戏配置文件路径，为空则使用默认配置
	ConfigPath string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg          *config.GameConfig
	sceneManager *scenes.SceneManager
	pointer      *input.EbitenPointer
	logger       *zap.Logger
	deltaTime    float64
	quit         bool
}

// NewApp 创建并初始化游戏应用
//
// 初始化顺序：配置 → 日志 → 存储 → 音频 → 场景。
// 存储不可用时以内存模式继续运行。
func NewApp(cfg Config) (*App, error) {
	gameCfg, err := config.LoadGameConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	logger, err := NewLogger(gameCfg.Logging, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("日志初始化失败: %w", err)
	}
	logger.Info("config loaded",
		zap.String("path", cfg.ConfigPath),
		zap.Int("poolSize", gameCfg.Pool.Size),
		zap.Int("tps", gameCfg.Window.TPS))

	// gdata 打开失败不是致命错误，最高分只保存在内存中
	gdataManager, err := gdata.Open(gdata.Config{AppName: gameCfg.Storage.AppName})
	if err != nil {
		logger.Warn("storage unavailable, running without persistence", zap.Error(err))
		gdataManager = nil
	}
	scores, err := game.NewHighScoreManager(gdataManager, logger)
	if err != nil {
		logger.Warn("high score initialization failed", zap.Error(err))
	}

	seed := gameCfg.Spawn.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	audioContext := audio.NewContext(gameCfg.Audio.SampleRate)
	dispatcher, err := newCueDispatcher(audioContext, gameCfg.Audio, seed, logger)
	if err != nil {
		return nil, fmt.Errorf("音频初始化失败: %w", err)
	}

	a := &App{
		cfg:       gameCfg,
		pointer:   input.NewEbitenPointer(),
		logger:    logger,
		deltaTime: 1.0 / float64(gameCfg.Window.TPS),
	}

	// 每次重新开始使用新的随机序列，但整个进程只取一次种子
	rng := newRand(seed)

	sceneManager := scenes.NewSceneManager(logger)
	sceneManager.SetSceneFactory(func(name string) (scenes.Scene, error) {
		return scenes.NewGameScene(scenes.GameSceneDeps{
			Config:   gameCfg,
			Audio:    dispatcher,
			Scores:   scores,
			Reloader: sceneManager,
			Pointer:  a.pointer,
			Exit:     a.requestQuit,
			Rand:     rand.New(rand.NewSource(rng.Int63())),
			Logger:   logger,
		})
	})
	if err := sceneManager.LoadScene(scenes.MainSceneName); err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}
	a.sceneManager = sceneManager

	return a, nil
}

// requestQuit 退出钩子：下一次 Update 返回 ebiten.Termination
func (a *App) requestQuit() {
	a.quit = true
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（TPS 由配置决定，默认每秒 60 次）
func (a *App) Update() error {
	if a.quit {
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	a.pointer.Poll()
	a.sceneManager.Update(a.deltaTime)

	if a.quit {
		a.logger.Info("exit requested")
		_ = a.logger.Sync()
		return ebiten.Termination
	}
	return nil
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// GameConfig 返回生效的游戏配置
func (a *App) GameConfig() *config.GameConfig {
	return a.cfg
}

// Logger 返回应用日志
func (a *App) Logger() *zap.Logger {
	return a.logger
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
