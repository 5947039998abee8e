package scenes

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// SceneFactory 场景工厂函数类型
// 用于按名称创建场景，场景持有的所有会话状态都在这里重新创建
type SceneFactory func(name string) (Scene, error)

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
//
// Reload 请求在下一次 Update 开始时生效，当前帧的场景逻辑照常跑完。
type SceneManager struct {
	currentScene Scene
	currentName  string
	sceneFactory SceneFactory
	pendingLoad  string
	loads        int
	logger       *zap.Logger
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use LoadScene to set the initial scene.
func NewSceneManager(logger *zap.Logger) *SceneManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneManager{
		logger: logger.Named("scenes"),
	}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
func (sm *SceneManager) SwitchTo(name string, scene Scene) {
	sm.currentScene = scene
	sm.currentName = name
}

// GetCurrentScene 返回当前活动的场景，没有活动场景时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentName 返回当前场景名称
func (sm *SceneManager) CurrentName() string {
	return sm.currentName
}

// Loads 返回通过工厂创建场景的次数
func (sm *SceneManager) Loads() int {
	return sm.loads
}

// LoadScene 立即通过工厂创建并切换到指定场景
//
// 返回：
//   - error: 工厂未设置或创建失败时返回错误，当前场景保持不变
func (sm *SceneManager) LoadScene(name string) error {
	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	scene, err := sm.sceneFactory(name)
	if err != nil {
		return fmt.Errorf("failed to create scene %q: %w", name, err)
	}
	if scene == nil {
		return fmt.Errorf("scene factory returned nil for %q", name)
	}

	sm.SwitchTo(name, scene)
	sm.loads++
	sm.logger.Info("scene loaded", zap.String("name", name), zap.Int("loads", sm.loads))
	return nil
}

// Reload 请求在下一帧重建主场景
func (sm *SceneManager) Reload() {
	sm.pendingLoad = MainSceneName
	sm.logger.Debug("scene reload requested", zap.String("name", MainSceneName))
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.pendingLoad != "" {
		name := sm.pendingLoad
		sm.pendingLoad = ""
		if err := sm.LoadScene(name); err != nil {
			sm.logger.Error("scene reload failed", zap.String("name", name), zap.Error(err))
		}
	}

	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
