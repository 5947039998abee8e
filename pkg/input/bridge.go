// Package input 把指针与按键事件转换为游戏核心的操作
package input

import (
	"github.com/decker502/planetdrop/pkg/game"
	"go.uber.org/zap"
)

// PointerSource 每帧的指针/按键状态
type PointerSource interface {
	// JustPressed 本帧按下
	JustPressed() bool
	// JustReleased 本帧松开
	JustReleased() bool
	// Held 处于按住状态
	Held() bool
	// Position 指针位置（逻辑屏幕坐标）
	Position() (x, y float64)
	// CancelPressed 本帧按下取消键
	CancelPressed() bool
}

// Controller 桥接层驱动的游戏核心（由 game.GameStateMachine 实现）
type Controller interface {
	State() game.State
	HasLiveEntity() bool
	Finalized() bool
	Start()
	DragBegin()
	DragEnd()
	Reset()
}

// Bridge 输入桥接
//
// 按下 → DragBegin，松开 → DragEnd，仅在存在等待操作的行星时转发。
// Idle 时按下视为点击开始按钮，结算面板显示后按下视为点击重试按钮。
// 取消键调用退出钩子。
type Bridge struct {
	source PointerSource
	ctrl   Controller
	follow func(x float64)
	exit   func()
	logger *zap.Logger
}

// NewBridge 创建输入桥接
//
// 参数：
//   - source: 指针状态来源
//   - ctrl: 游戏核心
//   - follow: 按住期间每帧以指针 x 调用（拖拽跟随），可为 nil
//   - exit: 取消键触发的退出钩子，可为 nil
//   - logger: 日志，可为 nil
func NewBridge(source PointerSource, ctrl Controller, follow func(x float64), exit func(), logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		source: source,
		ctrl:   ctrl,
		follow: follow,
		exit:   exit,
		logger: logger.Named("input"),
	}
}

// Update 处理本帧输入
func (b *Bridge) Update() {
	if b.source.CancelPressed() {
		b.logger.Info("cancel pressed, exiting")
		if b.exit != nil {
			b.exit()
		}
		return
	}

	if b.source.JustPressed() {
		b.onPress()
	}

	if b.source.Held() && b.follow != nil && b.ctrl.HasLiveEntity() {
		x, _ := b.source.Position()
		b.follow(x)
	}

	if b.source.JustReleased() {
		b.onRelease()
	}
}

func (b *Bridge) onPress() {
	switch b.ctrl.State() {
	case game.StateIdle:
		b.ctrl.Start()
	case game.StatePlaying:
		if b.ctrl.HasLiveEntity() {
			b.ctrl.DragBegin()
		}
	case game.StateGameOver:
		if b.ctrl.Finalized() {
			b.ctrl.Reset()
		}
	}
}

func (b *Bridge) onRelease() {
	if b.ctrl.State() == game.StatePlaying && b.ctrl.HasLiveEntity() {
		b.ctrl.DragEnd()
	}
}
