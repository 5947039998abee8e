package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenPointer 基于 ebiten 的指针来源
//
// 鼠标左键与第一个触点等价；取消键为 Escape。
// 每帧必须先调用 Poll 刷新触点状态。
type EbitenPointer struct {
	touches  []ebiten.TouchID
	touchID  ebiten.TouchID
	touching bool
	released bool
	lastX    float64
	lastY    float64
}

// NewEbitenPointer 创建指针来源
func NewEbitenPointer() *EbitenPointer {
	return &EbitenPointer{}
}

// Poll 刷新本帧的触点状态
func (p *EbitenPointer) Poll() {
	p.released = false
	if p.touching && inpututil.IsTouchJustReleased(p.touchID) {
		p.touching = false
		p.released = true
	}

	p.touches = inpututil.AppendJustPressedTouchIDs(p.touches[:0])
	if !p.touching && len(p.touches) > 0 {
		p.touchID = p.touches[0]
		p.touching = true
	}

	if p.touching {
		x, y := ebiten.TouchPosition(p.touchID)
		p.lastX, p.lastY = float64(x), float64(y)
	}
}

// JustPressed 本帧按下
func (p *EbitenPointer) JustPressed() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	return p.touching && inpututil.TouchPressDuration(p.touchID) == 1
}

// JustReleased 本帧松开
func (p *EbitenPointer) JustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || p.released
}

// Held 处于按住状态
func (p *EbitenPointer) Held() bool {
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || p.touching
}

// Position 指针位置
func (p *EbitenPointer) Position() (float64, float64) {
	if p.touching || p.released {
		return p.lastX, p.lastY
	}
	x, y := ebiten.CursorPosition()
	return float64(x), float64(y)
}

// CancelPressed 本帧按下 Escape
func (p *EbitenPointer) CancelPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
