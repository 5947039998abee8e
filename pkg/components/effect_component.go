package components

// EffectComponent 一次性视觉特效
//
// 与行星 1:1 配对创建（合并时触发），或在游戏结束时单独创建（Transient）。
type EffectComponent struct {
	Duration float64 // 播放时长（秒）
	Elapsed  float64 // 已播放时间（秒）
	Playing  bool    // 是否正在播放
	Level    int     // 触发时的等级，用于决定特效尺寸
	// Transient 播放结束后销毁实体（游戏结束特效）；配对特效为 false，可重复触发
	Transient bool
}
