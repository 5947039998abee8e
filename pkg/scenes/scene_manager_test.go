package scenes

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	id           int
	updateCalled bool
	deltaTime    float64
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {}

func newCountingFactory() (SceneFactory, *[]*MockScene) {
	created := &[]*MockScene{}
	return func(name string) (Scene, error) {
		s := &MockScene{id: len(*created)}
		*created = append(*created, s)
		return s, nil
	}, created
}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager(nil)
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no active scene initially")
	}
	// 没有场景时 Update 不应 panic
	sm.Update(0.016)
}

func TestLoadSceneWithoutFactory(t *testing.T) {
	sm := NewSceneManager(nil)
	if err := sm.LoadScene(MainSceneName); err == nil {
		t.Error("LoadScene without factory should fail")
	}
}

func TestLoadSceneFactoryError(t *testing.T) {
	sm := NewSceneManager(nil)
	sm.SetSceneFactory(func(string) (Scene, error) { return nil, errors.New("boom") })

	if err := sm.LoadScene(MainSceneName); err == nil {
		t.Error("expected factory error to propagate")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("failed load must not change the current scene")
	}
}

func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager(nil)
	factory, created := newCountingFactory()
	sm.SetSceneFactory(factory)

	if err := sm.LoadScene(MainSceneName); err != nil {
		t.Fatalf("LoadScene() error: %v", err)
	}

	sm.Update(0.016)

	scene := (*created)[0]
	if !scene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if scene.deltaTime != 0.016 {
		t.Errorf("Expected deltaTime 0.016, got %f", scene.deltaTime)
	}
	if sm.CurrentName() != MainSceneName {
		t.Errorf("CurrentName() = %q, want %q", sm.CurrentName(), MainSceneName)
	}
}

func TestReloadAppliesOnNextUpdate(t *testing.T) {
	sm := NewSceneManager(nil)
	factory, created := newCountingFactory()
	sm.SetSceneFactory(factory)
	_ = sm.LoadScene(MainSceneName)

	first := sm.GetCurrentScene()
	sm.Reload()
	if sm.GetCurrentScene() != first {
		t.Fatal("Reload must not swap the scene immediately")
	}

	sm.Update(0.016)
	if len(*created) != 2 {
		t.Fatalf("expected a fresh scene, created=%d", len(*created))
	}
	if sm.GetCurrentScene() == first {
		t.Error("scene was not replaced")
	}
	if !(*created)[1].updateCalled {
		t.Error("new scene should be updated in the same frame")
	}
	if (*created)[0].updateCalled {
		t.Error("old scene should not be updated after reload")
	}
	if sm.Loads() != 2 {
		t.Errorf("Loads() = %d, want 2", sm.Loads())
	}
}
