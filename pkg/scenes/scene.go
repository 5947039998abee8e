package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// MainSceneName 主场景名称，重新开始时以该名称重建场景
const MainSceneName = "Main"

// Scene represents a game scene.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}
