package sound

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType 振荡器波形
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
)

// oscillator 生成固定时长的周期波形
type oscillator struct {
	freq     float64
	phase    float64
	position int
	duration int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator 创建振荡器
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1.0
			if o.phase >= 0.5 {
				val = -1.0
			}
		case WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// fade 线性起音/释音包络
type fade struct {
	streamer beep.Streamer
	position int
	total    int
	attack   int
	release  int
}

// NewFade 为流加上起音和释音，避免片段首尾的爆音
func NewFade(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{
		streamer: s,
		total:    rate.N(duration),
		attack:   rate.N(attack),
		release:  rate.N(release),
	}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if f.attack > 0 && f.position < f.attack {
			gain = float64(f.position) / float64(f.attack)
		}
		if remaining := f.total - f.position; f.release > 0 && remaining < f.release {
			gain = math.Max(0, float64(remaining)/float64(f.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

// withVolume 线性音量转换为 beep 的对数音量
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note 生成一个带包络的单音
func note(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewFade(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/3, rate)
}

// chime 主音 + 八度泛音
//
// Mix 的结束条件依赖各输入流，外层用 Take 固定长度。
func chime(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return beep.Take(rate.N(d), beep.Mix(
		withVolume(note(freq, d, WaveSine, rate), 0.7),
		withVolume(note(freq*2, d, WaveSine, rate), 0.3),
	))
}

// CueStreamer 返回片段编号对应的合成音色
func CueStreamer(clip int, rate beep.SampleRate) beep.Streamer {
	switch clip {
	case 0:
		return beep.Seq(chime(523.25, 70*time.Millisecond, rate), chime(783.99, 120*time.Millisecond, rate))
	case 1:
		return beep.Seq(chime(587.33, 70*time.Millisecond, rate), chime(880.00, 120*time.Millisecond, rate))
	case 2:
		return beep.Seq(chime(659.25, 70*time.Millisecond, rate), chime(987.77, 120*time.Millisecond, rate))
	case 3:
		return withVolume(note(660, 80*time.Millisecond, WaveTriangle, rate), 0.6)
	case 4:
		return withVolume(note(140, 90*time.Millisecond, WaveSquare, rate), 0.35)
	case 5:
		return withVolume(note(1000, 40*time.Millisecond, WaveSquare, rate), 0.25)
	case 6:
		return beep.Seq(
			chime(392.00, 180*time.Millisecond, rate),
			chime(311.13, 180*time.Millisecond, rate),
			chime(261.63, 360*time.Millisecond, rate),
		)
	default:
		return nil
	}
}

// musicNotes 背景音乐的琶音序列（C 大调）
var musicNotes = []float64{261.63, 329.63, 392.00, 523.25, 392.00, 329.63, 293.66, 349.23}

// MusicStreamer 返回一小节可循环的背景音乐
func MusicStreamer(rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(musicNotes))
	for _, f := range musicNotes {
		parts = append(parts, withVolume(note(f, 250*time.Millisecond, WaveSine, rate), 0.4))
	}
	return beep.Seq(parts...)
}

// maxRenderSamples 单个片段的渲染上限（48kHz 下约 10 秒）
const maxRenderSamples = 480000

// RenderPCM 把流完整渲染为 16 位小端立体声 PCM
//
// 这是 ebiten audio.Context.NewPlayerFromBytes 接受的默认格式。
func RenderPCM(s beep.Streamer) []byte {
	if s == nil {
		return nil
	}
	buf := make([][2]float64, 512)
	out := make([]byte, 0, 4096)
	for rendered := 0; rendered < maxRenderSamples; {
		n, ok := s.Stream(buf)
		rendered += n
		for i := 0; i < n; i++ {
			for ch := 0; ch < 2; ch++ {
				v := math.Max(-1, math.Min(1, buf[i][ch]))
				out = binary.LittleEndian.AppendUint16(out, uint16(int16(v*math.MaxInt16)))
			}
		}
		if !ok || n == 0 {
			break
		}
	}
	return out
}

// RenderClips 渲染全部音效片段，下标即片段编号
func RenderClips(sampleRate int) [][]byte {
	rate := beep.SampleRate(sampleRate)
	clips := make([][]byte, ClipCount)
	for i := range clips {
		clips[i] = RenderPCM(CueStreamer(i, rate))
	}
	return clips
}
