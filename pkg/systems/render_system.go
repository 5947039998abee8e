package systems

import (
	"image/color"

	"github.com/decker502/planetdrop/pkg/components"
	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// planetPalette 按等级循环使用的行星颜色
var planetPalette = []color.RGBA{
	{0x9e, 0x9e, 0x9e, 0xff}, // 0 月球灰
	{0xe5, 0x73, 0x73, 0xff}, // 1 火星红
	{0xff, 0xb7, 0x4d, 0xff}, // 2 金星橙
	{0x81, 0xc7, 0x84, 0xff}, // 3
	{0x4f, 0xc3, 0xf7, 0xff}, // 4 地球蓝
	{0xba, 0x68, 0xc8, 0xff}, // 5
	{0xff, 0xd5, 0x4f, 0xff}, // 6 土星黄
	{0x4d, 0xb6, 0xac, 0xff}, // 7
	{0x79, 0x86, 0xcb, 0xff}, // 8 海王星
	{0xf0, 0x62, 0x92, 0xff}, // 9
	{0xff, 0xf1, 0x76, 0xff}, // 10 恒星
}

// RenderSystem 用矢量圆绘制行星和特效
type RenderSystem struct {
	entityManager *ecs.EntityManager
	maxRadius     float64
}

// NewRenderSystem 创建渲染系统
//
// 参数：
//   - em: 实体管理器
//   - cellSize: 棋盘格子尺寸，行星半径不超过其一半
func NewRenderSystem(em *ecs.EntityManager, cellSize float64) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		maxRadius:     cellSize / 2,
	}
}

// PlanetRadius 返回等级对应的半径（不超过格子的一半）
func (s *RenderSystem) PlanetRadius(level int) float64 {
	r := 12 + 2.5*float64(max(level, 0))
	return min(r, s.maxRadius-1)
}

// PlanetColor 返回等级对应的颜色
func PlanetColor(level int) color.RGBA {
	if level < 0 {
		level = 0
	}
	return planetPalette[level%len(planetPalette)]
}

// Draw 绘制所有激活的行星和正在播放的特效
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith2[*components.PlanetComponent, *components.PositionComponent](s.entityManager) {
		planet, _ := ecs.GetComponent[*components.PlanetComponent](s.entityManager, id)
		if !planet.Active {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		r := float32(s.PlanetRadius(planet.Level))
		vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), r, PlanetColor(planet.Level), true)
		vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), r, 1.5, color.RGBA{0xff, 0xff, 0xff, 0x60}, true)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.EffectComponent, *components.PositionComponent](s.entityManager) {
		effect, _ := ecs.GetComponent[*components.EffectComponent](s.entityManager, id)
		if !effect.Playing {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		s.drawEffect(screen, effect, pos)
	}
}

// drawEffect 扩散的圆环，随进度变大变淡
func (s *RenderSystem) drawEffect(screen *ebiten.Image, effect *components.EffectComponent, pos *components.PositionComponent) {
	p := Progress(effect)
	base := s.PlanetRadius(effect.Level)
	if effect.Transient {
		base = s.maxRadius * 3
	}
	radius := float32(base * (1 + p))
	alpha := uint8(0xff * (1 - p))
	c := PlanetColor(effect.Level)
	c.A = alpha
	// 预乘 alpha
	c.R = uint8(uint16(c.R) * uint16(alpha) / 0xff)
	c.G = uint8(uint16(c.G) * uint16(alpha) / 0xff)
	c.B = uint8(uint16(c.B) * uint16(alpha) / 0xff)
	vector.StrokeCircle(screen, float32(pos.X), float32(pos.Y), radius, 3, c, true)
}
