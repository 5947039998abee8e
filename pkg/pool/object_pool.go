// Package pool 管理可回收的行星实体
//
// 行星在预热或扩容时创建，之后只在激活/休眠之间切换。
// 池只增不减，唯一的销毁途径是整个场景重载。
package pool

import (
	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/decker502/planetdrop/pkg/entities"
	"go.uber.org/zap"
)

// Factory 构造例程：创建一对（行星, 特效）实体并返回行星ID
//
// index 为新实体的身份序号，等于调用时的池长度。
type Factory func(index int) ecs.EntityID

// ObjectPool 行星对象池
type ObjectPool struct {
	em       *ecs.EntityManager
	factory  Factory
	entities []ecs.EntityID
	cursor   int
	logger   *zap.Logger
}

// New 创建对象池并预热 size 个实体
//
// 参数：
//   - em: 实体管理器（用于读取行星的激活状态）
//   - factory: 构造例程
//   - size: 预热数量
//   - logger: 日志，可为 nil
func New(em *ecs.EntityManager, factory Factory, size int, logger *zap.Logger) *ObjectPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &ObjectPool{
		em:       em,
		factory:  factory,
		entities: make([]ecs.EntityID, 0, max(size, 0)),
		logger:   logger.Named("pool"),
	}
	p.Warm(size)
	return p
}

// Warm 追加创建 n 个休眠实体
func (p *ObjectPool) Warm(n int) {
	for i := 0; i < n; i++ {
		p.grow()
	}
	p.logger.Debug("pool warmed", zap.Int("count", n), zap.Int("size", len(p.entities)))
}

// Acquire 取出一个休眠实体
//
// 从 (cursor+1) 开始环形探测，每次探测推进游标，最多探测一整圈；
// 找到休眠实体时游标停在该位置。一整圈都被占用时通过构造例程扩容一个实体，
// 游标移到新实体上。
//
// 返回的实体保证处于休眠状态，调用方负责激活。
func (p *ObjectPool) Acquire() ecs.EntityID {
	n := len(p.entities)
	for probe := 0; probe < n; probe++ {
		p.cursor = (p.cursor + 1) % n
		id := p.entities[p.cursor]
		if !entities.IsPlanetActive(p.em, id) {
			return id
		}
	}

	id := p.grow()
	p.cursor = len(p.entities) - 1
	p.logger.Debug("pool exhausted, grew by one", zap.Int("size", len(p.entities)))
	return id
}

// grow 通过构造例程创建一个实体并追加到池尾
func (p *ObjectPool) grow() ecs.EntityID {
	id := p.factory(len(p.entities))
	p.entities = append(p.entities, id)
	return id
}

// Len 返回池中实体总数
func (p *ObjectPool) Len() int {
	return len(p.entities)
}

// Cursor 返回当前游标位置
func (p *ObjectPool) Cursor() int {
	return p.cursor
}

// Entities 按创建顺序返回池中实体（副本）
func (p *ObjectPool) Entities() []ecs.EntityID {
	out := make([]ecs.EntityID, len(p.entities))
	copy(out, p.entities)
	return out
}

// ActiveCount 返回处于激活状态的实体数量
func (p *ObjectPool) ActiveCount() int {
	count := 0
	for _, id := range p.entities {
		if entities.IsPlanetActive(p.em, id) {
			count++
		}
	}
	return count
}

// DeactivateAll 让所有实体休眠（会话拆除时调用）
func (p *ObjectPool) DeactivateAll() {
	for _, id := range p.entities {
		entities.DeactivatePlanet(p.em, id)
	}
}
