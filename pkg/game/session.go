package game

import "github.com/decker502/planetdrop/pkg/ecs"

// Session 一局游戏的会话状态
//
// 每次场景重载都会创建新的 Session，旧会话随场景一起丢弃。
// 只在单一逻辑时间线上被修改，无需加锁。
type Session struct {
	score       int
	maxLevel    int
	over        bool
	lastSpawned ecs.EntityID
}

// NewSession 创建会话
//
// 参数：
//   - maxLevel: 出生等级上界（不含）
func NewSession(maxLevel int) *Session {
	return &Session{maxLevel: maxLevel}
}

// Score 返回当前分数
func (s *Session) Score() int {
	return s.score
}

// AddScore 增加分数，非正数被忽略（分数只增不减）
func (s *Session) AddScore(points int) {
	if points <= 0 {
		return
	}
	s.score += points
}

// MaxLevel 返回出生等级上界
func (s *Session) MaxLevel() int {
	return s.maxLevel
}

// IsOver 返回本局是否已结束（一旦为 true 不再变回 false）
func (s *Session) IsOver() bool {
	return s.over
}

// LastSpawned 返回当前等待玩家操作的行星
func (s *Session) LastSpawned() (ecs.EntityID, bool) {
	return s.lastSpawned, s.lastSpawned != ecs.InvalidEntity
}

func (s *Session) markOver() {
	s.over = true
}

func (s *Session) setLastSpawned(id ecs.EntityID) {
	s.lastSpawned = id
}

func (s *Session) clearLastSpawned() {
	s.lastSpawned = ecs.InvalidEntity
}
