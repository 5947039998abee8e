package entities

import (
	"fmt"

	"github.com/decker502/planetdrop/pkg/components"
	"github.com/decker502/planetdrop/pkg/ecs"
)

// PlanetEffectDuration 配对特效的播放时长（秒）
const PlanetEffectDuration = 0.6

// TerminalEffectDuration 游戏结束特效的播放时长（秒）
const TerminalEffectDuration = 1.0

// NewPlanetPair 创建一对休眠状态的行星实体与特效实体
//
// 这是对象池唯一的构造例程：预热和扩容都通过它创建实体，
// 行星与特效在同一次调用中 1:1 配对。
//
// 参数:
//   - em: 实体管理器
//   - index: 身份序号（等于当前池长度）
//   - spawnX, spawnY: 出生位置（世界坐标）
//
// 返回:
//   - ecs.EntityID: 行星实体ID
//   - error: em 为 nil 时返回错误
func NewPlanetPair(em *ecs.EntityManager, index int, spawnX, spawnY float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	effectID := em.CreateEntity()
	ecs.AddComponent(em, effectID, &components.PositionComponent{X: spawnX, Y: spawnY})
	ecs.AddComponent(em, effectID, &components.EffectComponent{
		Duration: PlanetEffectDuration,
	})

	planetID := em.CreateEntity()
	ecs.AddComponent(em, planetID, &components.PositionComponent{X: spawnX, Y: spawnY})
	ecs.AddComponent(em, planetID, &components.PlanetComponent{
		Index:  index,
		Effect: effectID,
	})
	ecs.AddComponent(em, planetID, &components.DragComponent{GridRow: -1, GridCol: -1})

	return planetID, nil
}

// ActivatePlanet 在出生点激活行星并分配等级
func ActivatePlanet(em *ecs.EntityManager, planetID ecs.EntityID, level int, spawnX, spawnY float64) bool {
	planet, ok := ecs.GetComponent[*components.PlanetComponent](em, planetID)
	if !ok {
		return false
	}
	planet.Level = level
	planet.Active = true

	if pos, ok := ecs.GetComponent[*components.PositionComponent](em, planetID); ok {
		pos.X, pos.Y = spawnX, spawnY
	}
	if drag, ok := ecs.GetComponent[*components.DragComponent](em, planetID); ok {
		*drag = components.DragComponent{GridRow: -1, GridCol: -1}
	}
	return true
}

// DeactivatePlanet 让行星回到休眠状态，等待对象池再次取出
func DeactivatePlanet(em *ecs.EntityManager, planetID ecs.EntityID) {
	if planet, ok := ecs.GetComponent[*components.PlanetComponent](em, planetID); ok {
		planet.Active = false
	}
	if drag, ok := ecs.GetComponent[*components.DragComponent](em, planetID); ok {
		*drag = components.DragComponent{GridRow: -1, GridCol: -1}
	}
}

// IsPlanetActive 检查行星是否处于激活状态，没有行星组件的实体视为不可用（激活）
func IsPlanetActive(em *ecs.EntityManager, planetID ecs.EntityID) bool {
	planet, ok := ecs.GetComponent[*components.PlanetComponent](em, planetID)
	if !ok {
		return true
	}
	return planet.Active
}
