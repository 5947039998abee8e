package game

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// 存储路径常量
const (
	recordObject   = "record"
	recordProperty = "maxScore"
)

// highScoreRecord 最高分记录（YAML 格式持久化）
type highScoreRecord struct {
	MaxScore int `yaml:"maxScore"`
}

// HighScoreManager 最高分持久化
//
// 基于 gdata 的跨平台键值存储。gdataManager 为 nil 时进入降级模式：
// 最高分只保存在内存中，进程退出后丢失。
type HighScoreManager struct {
	gdataManager *gdata.Manager
	memory       int
	logger       *zap.Logger
}

// NewHighScoreManager 创建最高分管理器
//
// 记录不存在时写入 0，保证之后的读取总能命中。
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式）
//   - logger: 日志，可为 nil
//
// 返回：
//   - *HighScoreManager: 管理器实例
//   - error: 初始化写入失败时返回错误（管理器仍可用）
func NewHighScoreManager(gdataManager *gdata.Manager, logger *zap.Logger) (*HighScoreManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	hm := &HighScoreManager{
		gdataManager: gdataManager,
		logger:       logger.Named("highscore"),
	}

	if gdataManager == nil {
		hm.logger.Warn("no storage available, high score kept in memory only")
		return hm, nil
	}

	if !gdataManager.ObjectPropExists(recordObject, recordProperty) {
		if err := hm.Save(0); err != nil {
			return hm, fmt.Errorf("failed to initialize high score: %w", err)
		}
		hm.logger.Info("high score record initialized")
	}
	return hm, nil
}

// Load 读取已存储的最高分
//
// 返回：
//   - int: 最高分，记录不存在时为 0
//   - error: 读取或反序列化失败时返回错误
func (hm *HighScoreManager) Load() (int, error) {
	if hm.gdataManager == nil {
		return hm.memory, nil
	}

	if !hm.gdataManager.ObjectPropExists(recordObject, recordProperty) {
		return 0, nil
	}

	data, err := hm.gdataManager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return 0, fmt.Errorf("failed to load high score: %w", err)
	}

	var record highScoreRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return 0, fmt.Errorf("failed to unmarshal high score: %w", err)
	}
	return record.MaxScore, nil
}

// Save 写入最高分
//
// 参数：
//   - score: 要写入的分数，负数按 0 处理
func (hm *HighScoreManager) Save(score int) error {
	if score < 0 {
		score = 0
	}
	if hm.gdataManager == nil {
		hm.memory = score
		return nil
	}

	data, err := yaml.Marshal(&highScoreRecord{MaxScore: score})
	if err != nil {
		return fmt.Errorf("failed to marshal high score: %w", err)
	}

	if err := hm.gdataManager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}

	hm.logger.Debug("high score saved", zap.Int("maxScore", score))
	return nil
}
