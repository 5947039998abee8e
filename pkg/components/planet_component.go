package components

import "github.com/decker502/planetdrop/pkg/ecs"

// PlanetComponent 标识实体为可回收的行星（对象池中的实体）
//
// 实体在对象池扩容时创建一次，此后只在激活/休眠之间切换，从不单独销毁。
type PlanetComponent struct {
	// Index 身份序号，等于创建顺序（"Planet 0"、"Planet 1"...）
	Index int
	// Level 等级，决定尺寸和分值，出生时随机分配
	Level int
	// Active 是否处于激活状态（在场上可见）
	Active bool
	// Effect 与本行星配对创建的特效实体
	Effect ecs.EntityID
}

// DragComponent 拖拽状态
//
// 拖拽中的行星跟随指针水平移动，松手后交给棋盘落位。
type DragComponent struct {
	Dragging bool
	// Placed 是否已经落入棋盘
	Placed bool
	// GridRow / GridCol 落位后的格子坐标（未落位时为 -1）
	GridRow int
	GridCol int
}
