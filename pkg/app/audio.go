package app

import (
	"bytes"
	"fmt"

	"github.com/decker502/planetdrop/pkg/config"
	"github.com/decker502/planetdrop/pkg/sound"
	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"go.uber.org/zap"
)

// ebitenChannel 一个音效通道，新的播放替换该通道上正在播放的片段
type ebitenChannel struct {
	ctx    *audio.Context
	clips  [][]byte
	volume float64
	player *audio.Player
}

func (c *ebitenChannel) Play(clip int) {
	if clip < 0 || clip >= len(c.clips) || len(c.clips[clip]) == 0 {
		return
	}
	if c.player != nil {
		_ = c.player.Close()
	}
	c.player = c.ctx.NewPlayerFromBytes(c.clips[clip])
	c.player.SetVolume(c.volume)
	c.player.Play()
}

// ebitenMusic 循环播放的背景音乐
type ebitenMusic struct {
	player *audio.Player
}

func (m *ebitenMusic) Play() {
	if err := m.player.Rewind(); err != nil {
		return
	}
	m.player.Play()
}

func (m *ebitenMusic) Stop() {
	m.player.Pause()
}

// newCueDispatcher 合成全部片段并在 ebiten 音频上下文上创建分发器
//
// 返回：
//   - *sound.CueDispatcher: 音效分发器
//   - error: 背景音乐播放器创建失败时返回错误
func newCueDispatcher(ctx *audio.Context, cfg config.AudioConfig, seed int64, logger *zap.Logger) (*sound.CueDispatcher, error) {
	clips := sound.RenderClips(cfg.SampleRate)

	channels := make([]sound.Channel, cfg.Channels)
	for i := range channels {
		channels[i] = &ebitenChannel{ctx: ctx, clips: clips, volume: cfg.SoundVolume}
	}

	pcm := sound.RenderPCM(sound.MusicStreamer(beep.SampleRate(cfg.SampleRate)))
	loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
	player, err := ctx.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("failed to create music player: %w", err)
	}
	player.SetVolume(cfg.MusicVolume)

	dispatcher := sound.NewCueDispatcher(channels, &ebitenMusic{player: player}, newRand(seed+1), logger)
	dispatcher.SetSoundEnabled(cfg.SoundEnabled)
	dispatcher.SetMusicEnabled(cfg.MusicEnabled)

	logger.Info("audio initialized",
		zap.Int("sampleRate", cfg.SampleRate),
		zap.Int("channels", cfg.Channels),
		zap.Int("clips", len(clips)))
	return dispatcher, nil
}
