package entities

import (
	"fmt"

	"github.com/decker502/planetdrop/pkg/components"
	"github.com/decker502/planetdrop/pkg/ecs"
)

// TriggerEffect 在指定位置（重新）播放特效
//
// 配对特效可以被多次触发，每次触发都从头播放。
func TriggerEffect(em *ecs.EntityManager, effectID ecs.EntityID, level int, x, y float64) bool {
	effect, ok := ecs.GetComponent[*components.EffectComponent](em, effectID)
	if !ok {
		return false
	}
	effect.Elapsed = 0
	effect.Playing = true
	effect.Level = level

	if pos, ok := ecs.GetComponent[*components.PositionComponent](em, effectID); ok {
		pos.X, pos.Y = x, y
	}
	return true
}

// NewTerminalEffect 创建游戏结束特效
//
// 该特效不属于对象池，播放结束后由 EffectSystem 销毁。
func NewTerminalEffect(em *ecs.EntityManager, x, y float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.EffectComponent{
		Duration:  TerminalEffectDuration,
		Playing:   true,
		Transient: true,
	})
	return id, nil
}
