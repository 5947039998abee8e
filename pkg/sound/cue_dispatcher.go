package sound

import (
	"math/rand"

	"go.uber.org/zap"
)

// Channel 一个音效输出通道
//
// 每次 Play 替换该通道上正在播放的片段。
type Channel interface {
	Play(clip int)
}

// MusicPlayer 背景音乐播放器
type MusicPlayer interface {
	Play()
	Stop()
}

// CueDispatcher 音效分发器
//
// 职责：
//   - 按类别选择片段（升级随机、其余固定）
//   - 在通道数组上轮询播放，每次播放后游标前进一格
//   - 背景音乐开关
type CueDispatcher struct {
	channels     []Channel
	music        MusicPlayer
	cursor       int
	rng          *rand.Rand
	soundEnabled bool
	musicEnabled bool
	logger       *zap.Logger
}

// NewCueDispatcher 创建音效分发器
//
// 参数：
//   - channels: 音效通道（至少一个，否则所有音效静默）
//   - music: 背景音乐播放器，可为 nil
//   - rng: 随机源，可为 nil（使用固定种子）
//   - logger: 日志，可为 nil
func NewCueDispatcher(channels []Channel, music MusicPlayer, rng *rand.Rand, logger *zap.Logger) *CueDispatcher {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CueDispatcher{
		channels:     channels,
		music:        music,
		rng:          rng,
		soundEnabled: true,
		musicEnabled: true,
		logger:       logger.Named("audio"),
	}
}

// SetSoundEnabled 设置音效开关
func (d *CueDispatcher) SetSoundEnabled(enabled bool) {
	d.soundEnabled = enabled
}

// SetMusicEnabled 设置音乐开关，关闭时立即停止正在播放的音乐
func (d *CueDispatcher) SetMusicEnabled(enabled bool) {
	d.musicEnabled = enabled
	if !enabled {
		d.StopMusic()
	}
}

// PlayCue 播放音效
//
// 返回：
//   - bool: 是否实际播放
func (d *CueDispatcher) PlayCue(cue Cue) bool {
	if !d.soundEnabled || len(d.channels) == 0 {
		return false
	}

	clip, ok := d.clipFor(cue)
	if !ok {
		d.logger.Warn("unknown cue", zap.Int("cue", int(cue)))
		return false
	}

	d.channels[d.cursor].Play(clip)
	d.logger.Debug("cue played",
		zap.Stringer("cue", cue),
		zap.Int("clip", clip),
		zap.Int("channel", d.cursor))
	d.cursor = (d.cursor + 1) % len(d.channels)
	return true
}

// clipFor 返回音效类别对应的片段编号
func (d *CueDispatcher) clipFor(cue Cue) (int, bool) {
	switch cue {
	case CueLevelUp:
		return d.rng.Intn(levelUpVariants), true
	case CueNext:
		return 3, true
	case CueAttach:
		return 4, true
	case CueButton:
		return 5, true
	case CueOver:
		return 6, true
	default:
		return 0, false
	}
}

// Cursor 返回下一次播放使用的通道下标
func (d *CueDispatcher) Cursor() int {
	return d.cursor
}

// PlayMusic 开始播放背景音乐
func (d *CueDispatcher) PlayMusic() {
	if d.music == nil || !d.musicEnabled {
		return
	}
	d.music.Play()
	d.logger.Debug("music started")
}

// StopMusic 停止背景音乐
func (d *CueDispatcher) StopMusic() {
	if d.music == nil {
		return
	}
	d.music.Stop()
	d.logger.Debug("music stopped")
}
