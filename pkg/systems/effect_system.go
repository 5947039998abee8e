package systems

import (
	"github.com/decker502/planetdrop/pkg/components"
	"github.com/decker502/planetdrop/pkg/ecs"
)

// EffectSystem 推进特效的播放进度
//
// 配对特效播放结束后停在休眠状态，等待下一次触发；
// Transient 特效播放结束后销毁实体。
type EffectSystem struct {
	entityManager *ecs.EntityManager
}

// NewEffectSystem 创建特效系统
func NewEffectSystem(em *ecs.EntityManager) *EffectSystem {
	return &EffectSystem{
		entityManager: em,
	}
}

// Update 更新所有正在播放的特效
func (s *EffectSystem) Update(deltaTime float64) {
	ids := ecs.GetEntitiesWith1[*components.EffectComponent](s.entityManager)

	for _, id := range ids {
		effect, ok := ecs.GetComponent[*components.EffectComponent](s.entityManager, id)
		if !ok || !effect.Playing {
			continue
		}

		effect.Elapsed += deltaTime
		if effect.Elapsed < effect.Duration {
			continue
		}

		effect.Elapsed = effect.Duration
		effect.Playing = false
		if effect.Transient {
			s.entityManager.DestroyEntity(id)
		}
	}

	s.entityManager.RemoveMarkedEntities()
}

// Progress 返回特效的播放进度 [0, 1]
func Progress(effect *components.EffectComponent) float64 {
	if effect.Duration <= 0 {
		return 1
	}
	return min(max(effect.Elapsed/effect.Duration, 0), 1)
}
