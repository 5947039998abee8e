// Package sound 负责音效分发与音色合成
//
// CueDispatcher 把音效类别映射到片段编号，并在一组输出通道上轮询播放；
// 片段本身由 beep 合成为 16 位小端立体声 PCM，交给 ebiten 音频后端播放。
package sound

// Cue 音效类别
type Cue int

const (
	// CueLevelUp 合并升级（在 3 个片段中随机选一个）
	CueLevelUp Cue = iota
	// CueNext 新行星出生
	CueNext
	// CueAttach 行星落位
	CueAttach
	// CueButton 按钮点击
	CueButton
	// CueOver 游戏结束
	CueOver
)

// ClipCount 片段总数：3 个升级片段 + Next + Attach + Button + Over
const ClipCount = 7

// levelUpVariants 升级片段的数量，占据片段编号 [0, levelUpVariants)
const levelUpVariants = 3

// String 返回音效类别名称
func (c Cue) String() string {
	switch c {
	case CueLevelUp:
		return "LevelUp"
	case CueNext:
		return "Next"
	case CueAttach:
		return "Attach"
	case CueButton:
		return "Button"
	case CueOver:
		return "Over"
	default:
		return "Unknown"
	}
}
