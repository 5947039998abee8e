package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/decker502/planetdrop/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// 对象池容量范围
const (
	MinPoolSize = 1
	MaxPoolSize = 30
)

// GameConfig 游戏运行配置
//
// 配置文件位置: data/planetdrop.yaml（可通过 -config 指定）
// 未出现在文件中的字段保留 DefaultGameConfig 的默认值。
type GameConfig struct {
	Window  WindowConfig  `yaml:"window"`
	Pool    PoolConfig    `yaml:"pool"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Timing  TimingConfig  `yaml:"timing"`
	Audio   AudioConfig   `yaml:"audio"`
	Board   BoardConfig   `yaml:"board"`
	Logging LoggingConfig `yaml:"logging"`
	Storage StorageConfig `yaml:"storage"`
}

// WindowConfig 窗口与帧率
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	// TPS 逻辑帧率（每秒 Update 次数）
	TPS int `yaml:"tps"`
}

// PoolConfig 对象池
type PoolConfig struct {
	// Size 预热数量，范围 [1, 30]
	Size int `yaml:"size"`
}

// SpawnConfig 出生调度
type SpawnConfig struct {
	// MaxLevel 出生等级上界（不含），等级在 [0, MaxLevel) 中均匀随机
	MaxLevel int `yaml:"maxLevel"`
	// StartDelay 点击开始后到第一次出生的延时（秒）
	StartDelay float64 `yaml:"startDelay"`
	// Cooldown 松手后到下一次出生的冷却（秒）
	Cooldown float64 `yaml:"cooldown"`
	// Seed 随机种子，0 表示使用当前时间
	Seed int64 `yaml:"seed"`
}

// TimingConfig 状态切换延时
type TimingConfig struct {
	// FinalizeDelay 游戏结束到结算分数的延时（秒）
	FinalizeDelay float64 `yaml:"finalizeDelay"`
	// ResetDelay 点击重试到场景重载的延时（秒）
	ResetDelay float64 `yaml:"resetDelay"`
}

// AudioConfig 音频
type AudioConfig struct {
	SampleRate   int     `yaml:"sampleRate"`
	Channels     int     `yaml:"channels"` // 音效通道数（轮询使用）
	MusicVolume  float64 `yaml:"musicVolume"`
	SoundVolume  float64 `yaml:"soundVolume"`
	MusicEnabled bool    `yaml:"musicEnabled"`
	SoundEnabled bool    `yaml:"soundEnabled"`
}

// BoardConfig 落位棋盘
type BoardConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
	// MaxMergeLevel 合并可达到的最高等级
	MaxMergeLevel int `yaml:"maxMergeLevel"`
}

// LoggingConfig 日志
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" 或 "console"
}

// StorageConfig 持久化
type StorageConfig struct {
	// AppName gdata 存储使用的应用名
	AppName string `yaml:"appName"`
}

// DefaultGameConfig 返回默认配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Window: WindowConfig{
			Width:  480,
			Height: 720,
			Title:  "Planet Drop",
			TPS:    60,
		},
		Pool: PoolConfig{
			Size: 10,
		},
		Spawn: SpawnConfig{
			MaxLevel:   3,
			StartDelay: 1.5,
			Cooldown:   2.5,
		},
		Timing: TimingConfig{
			FinalizeDelay: 1.0,
			ResetDelay:    1.0,
		},
		Audio: AudioConfig{
			SampleRate:   48000,
			Channels:     8,
			MusicVolume:  0.7,
			SoundVolume:  0.8,
			MusicEnabled: true,
			SoundEnabled: true,
		},
		Board: BoardConfig{
			Columns:       7,
			Rows:          9,
			MaxMergeLevel: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			AppName: "planetdrop",
		},
	}
}

// LoadGameConfig 加载游戏配置
//
// 先读磁盘文件；磁盘上不存在时读嵌入资源中的同名文件；两者都没有时返回默认配置。
//
// 参数:
//   - path: 配置文件路径，为空时返回默认配置
//
// 返回:
//   - *GameConfig: 合并默认值后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadGameConfig(path string) (*GameConfig, error) {
	if path == "" {
		return DefaultGameConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read game config %s: %w", path, err)
		}
		if !embedded.Exists(path) {
			return DefaultGameConfig(), nil
		}
		if data, err = embedded.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read embedded game config %s: %w", path, err)
		}
	}

	cfg, err := ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("game config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseGameConfig 解析 YAML 配置，未出现的字段保留默认值
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid: %w", err)
	}
	return cfg, nil
}

// normalize 把可以安全修正的值夹到合法范围
func (c *GameConfig) normalize() {
	c.Pool.Size = min(max(c.Pool.Size, MinPoolSize), MaxPoolSize)
	c.Audio.MusicVolume = clampUnit(c.Audio.MusicVolume)
	c.Audio.SoundVolume = clampUnit(c.Audio.SoundVolume)
}

// Validate 验证配置有效性
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *GameConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("tps must be positive, got %d", c.Window.TPS)
	}
	if c.Pool.Size < MinPoolSize || c.Pool.Size > MaxPoolSize {
		return fmt.Errorf("pool size must be in [%d, %d], got %d", MinPoolSize, MaxPoolSize, c.Pool.Size)
	}
	if c.Spawn.MaxLevel < 1 {
		return fmt.Errorf("spawn maxLevel must be >= 1, got %d", c.Spawn.MaxLevel)
	}
	if c.Spawn.StartDelay < 0 || c.Spawn.Cooldown < 0 {
		return fmt.Errorf("spawn delays must be >= 0 (startDelay=%.2f, cooldown=%.2f)",
			c.Spawn.StartDelay, c.Spawn.Cooldown)
	}
	if c.Timing.FinalizeDelay < 0 || c.Timing.ResetDelay < 0 {
		return fmt.Errorf("timing delays must be >= 0 (finalizeDelay=%.2f, resetDelay=%.2f)",
			c.Timing.FinalizeDelay, c.Timing.ResetDelay)
	}
	if c.Audio.Channels < 1 {
		return fmt.Errorf("audio channels must be >= 1, got %d", c.Audio.Channels)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sampleRate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Board.Columns < 1 || c.Board.Rows < 2 {
		return fmt.Errorf("board must have at least 1 column and 2 rows, got %dx%d", c.Board.Columns, c.Board.Rows)
	}
	if c.Board.MaxMergeLevel < c.Spawn.MaxLevel {
		return fmt.Errorf("board maxMergeLevel(%d) must be >= spawn maxLevel(%d)", c.Board.MaxMergeLevel, c.Spawn.MaxLevel)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be json or console, got %q", c.Logging.Format)
	}
	if c.Storage.AppName == "" {
		return fmt.Errorf("storage appName must not be empty")
	}
	return nil
}

// clampUnit 将值限制在 0.0 ~ 1.0 范围内
func clampUnit(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
