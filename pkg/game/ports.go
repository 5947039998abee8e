package game

import (
	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/decker502/planetdrop/pkg/sound"
)

// AudioPort 核心逻辑需要的音频能力
type AudioPort interface {
	PlayCue(cue sound.Cue) bool
	PlayMusic()
	StopMusic()
}

// UIPort 核心逻辑需要的界面能力，界面只负责显示核心提供的整数
type UIPort interface {
	// ShowStart 开始面板的显示/隐藏
	ShowStart(visible bool)
	// ShowResult 显示结算面板（本局分数、历史最高分）
	ShowResult(score, best int)
	// SetMaxScore 更新最高分显示
	SetMaxScore(best int)
}

// SceneReloader 场景重载入口，调用后整局状态被丢弃并重新创建
type SceneReloader interface {
	Reload()
}

// PlanetBehavior 行星自身的拖拽/落下行为（由棋盘实现）
type PlanetBehavior interface {
	Drag(id ecs.EntityID)
	Drop(id ecs.EntityID)
}

// HighScoreStore 最高分存储
type HighScoreStore interface {
	Load() (int, error)
	Save(score int) error
}

// nopAudio 未注入音频时使用
type nopAudio struct{}

func (nopAudio) PlayCue(sound.Cue) bool { return false }
func (nopAudio) PlayMusic()             {}
func (nopAudio) StopMusic()             {}

// nopUI 未注入界面时使用
type nopUI struct{}

func (nopUI) ShowStart(bool)      {}
func (nopUI) ShowResult(int, int) {}
func (nopUI) SetMaxScore(int)     {}
