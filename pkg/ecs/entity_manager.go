// Package ecs 提供实体标识与组件存储
//
// 实体只是一个递增的 ID，组件按类型分桶存储。
// 对象池、效果系统和渲染系统都通过 EntityManager 查询实体数据。
package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符，0 保留为无效ID
type EntityID uint64

// InvalidEntity 表示"没有实体"
const InvalidEntity EntityID = 0

// EntityManager 管理所有实体和组件
type EntityManager struct {
	nextID uint64
	alive  map[EntityID]struct{}
	// 组件类型 -> 实体ID -> 组件实例
	stores map[reflect.Type]map[EntityID]any
	// 待删除的实体ID列表（在帧末统一清理）
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1,
		alive:             make(map[EntityID]struct{}),
		stores:            make(map[reflect.Type]map[EntityID]any),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// IsAlive 检查实体是否存在（已标记删除但未清理的实体仍视为存在）
func (em *EntityManager) IsAlive(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// EntityCount 返回当前存活的实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.alive)
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	if !em.IsAlive(id) {
		return
	}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// RemoveMarkedEntities 清理所有标记删除的实体及其组件
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		delete(em.alive, id)
		for _, store := range em.stores {
			delete(store, id)
		}
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}

// AddComponent 为实体添加组件，同类型组件会被覆盖
func (em *EntityManager) AddComponent(id EntityID, component any) {
	em.addComponent(id, reflect.TypeOf(component), component)
}

func (em *EntityManager) addComponent(id EntityID, componentType reflect.Type, component any) {
	if !em.IsAlive(id) {
		return
	}
	store, ok := em.stores[componentType]
	if !ok {
		store = make(map[EntityID]any)
		em.stores[componentType] = store
	}
	store[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if store, ok := em.stores[componentType]; ok {
		delete(store, id)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	store, ok := em.stores[componentType]
	if !ok {
		return nil, false
	}
	comp, found := store[id]
	return comp, found
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, found := em.GetComponent(id, componentType)
	return found
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
//
// 结果按实体ID升序排列，保证遍历顺序与创建顺序一致。
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	if len(componentTypes) == 0 {
		return nil
	}

	// 从最小的存储桶开始遍历
	smallest, ok := em.stores[componentTypes[0]]
	if !ok {
		return nil
	}
	for _, ct := range componentTypes[1:] {
		store, ok := em.stores[ct]
		if !ok {
			return nil
		}
		if len(store) < len(smallest) {
			smallest = store
		}
	}

	result := make([]EntityID, 0, len(smallest))
	for id := range smallest {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := em.stores[ct][id]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}
