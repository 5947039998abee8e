// Package timeline 提供单线程、帧驱动的延时调度
//
// 所有"等待"（出生冷却、开始延时、结算延时、重载延时）都是同一条逻辑时间线上的
// 延时回调，由游戏循环每帧调用 Update(deltaTime) 推进。没有 goroutine，也没有锁。
package timeline

import (
	"slices"

	"go.uber.org/zap"
)

// Timer 具名计时器句柄
//
// 由 Timeline.After 创建，可通过 Cancel 取消。
type Timer struct {
	Name       string  // 计时器名称，如 "spawn-cooldown"
	TargetTime float64 // 触发时刻（时间线绝对时间，秒）

	id        uint64
	callback  func()
	fired     bool
	cancelled bool
}

// Pending 返回计时器是否仍在等待触发
func (t *Timer) Pending() bool {
	return t != nil && !t.fired && !t.cancelled
}

// Fired 返回计时器是否已经触发
func (t *Timer) Fired() bool {
	return t != nil && t.fired
}

// Cancel 取消计时器
//
// 返回：
//   - bool: 计时器原本处于等待状态并被成功取消时返回 true
func (t *Timer) Cancel() bool {
	if !t.Pending() {
		return false
	}
	t.cancelled = true
	return true
}

// Timeline 逻辑时间线
type Timeline struct {
	now    float64
	nextID uint64
	timers []*Timer
	logger *zap.Logger
}

// New 创建时间线，起始时刻为 0
func New(logger *zap.Logger) *Timeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Timeline{
		nextID: 1,
		logger: logger.Named("timeline"),
	}
}

// Now 返回当前逻辑时刻（秒）
func (tl *Timeline) Now() float64 {
	return tl.now
}

// After 在 delay 秒后执行 callback
//
// 参数：
//   - name: 计时器名称（用于日志和调试）
//   - delay: 延迟秒数，负数按 0 处理
//   - callback: 触发时执行的回调
//
// 返回：
//   - *Timer: 可取消的计时器句柄
func (tl *Timeline) After(name string, delay float64, callback func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	t := &Timer{
		Name:       name,
		TargetTime: tl.now + delay,
		id:         tl.nextID,
		callback:   callback,
	}
	tl.nextID++
	tl.timers = append(tl.timers, t)
	tl.logger.Debug("timer scheduled",
		zap.String("name", name),
		zap.Float64("delay", delay),
		zap.Float64("at", t.TargetTime))
	return t
}

// Pending 返回仍在等待的计时器数量
func (tl *Timeline) Pending() int {
	n := 0
	for _, t := range tl.timers {
		if t.Pending() {
			n++
		}
	}
	return n
}

// Update 推进时间线 deltaTime 秒，并按触发时刻顺序执行到期的回调
//
// 回调执行时 Now() 等于该计时器的触发时刻，因此在回调中新建的计时器
// 以触发时刻为起点，而不是以本帧结束时刻为起点。
func (tl *Timeline) Update(deltaTime float64) {
	if deltaTime < 0 {
		deltaTime = 0
	}
	target := tl.now + deltaTime

	for {
		next := tl.nextDue(target)
		if next == nil {
			break
		}
		tl.now = next.TargetTime
		next.fired = true
		tl.logger.Debug("timer fired", zap.String("name", next.Name), zap.Float64("at", tl.now))
		if next.callback != nil {
			next.callback()
		}
	}

	tl.now = target
	tl.compact()
}

// nextDue 返回触发时刻不晚于 limit 的最早计时器，同一时刻按创建顺序
func (tl *Timeline) nextDue(limit float64) *Timer {
	var best *Timer
	for _, t := range tl.timers {
		if !t.Pending() || t.TargetTime > limit {
			continue
		}
		if best == nil || t.TargetTime < best.TargetTime ||
			(t.TargetTime == best.TargetTime && t.id < best.id) {
			best = t
		}
	}
	return best
}

// compact 移除已触发或已取消的计时器
func (tl *Timeline) compact() {
	tl.timers = slices.DeleteFunc(tl.timers, func(t *Timer) bool {
		return !t.Pending()
	})
}
