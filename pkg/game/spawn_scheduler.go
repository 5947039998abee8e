package game

import (
	"math/rand"

	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/decker502/planetdrop/pkg/entities"
	"github.com/decker502/planetdrop/pkg/pool"
	"github.com/decker502/planetdrop/pkg/sound"
	"github.com/decker502/planetdrop/pkg/timeline"
	"go.uber.org/zap"
)

// DefaultSpawnCooldown 松手到下一次出生的默认冷却（秒）
const DefaultSpawnCooldown = 2.5

// SpawnSchedulerConfig 出生调度配置
type SpawnSchedulerConfig struct {
	// Cooldown 松手后到下一次出生的冷却（秒）
	Cooldown float64
	// SpawnX, SpawnY 出生位置（世界坐标）
	SpawnX, SpawnY float64
}

// SpawnScheduler 出生调度器
//
// 循环：出生 → 等待松手通知 → 冷却 → 出生。冷却从松手时刻开始计时，
// 而不是按固定节拍出生。唯一的终止条件是会话结束（SpawnNext 开头检查）。
//
// 同一时刻最多只有一个行星处于"等待松手"状态，违反该约束的调用会被拒绝并记录警告。
type SpawnScheduler struct {
	session  *Session
	pool     *pool.ObjectPool
	em       *ecs.EntityManager
	timeline *timeline.Timeline
	audio    AudioPort
	rng      *rand.Rand
	cfg      SpawnSchedulerConfig
	logger   *zap.Logger

	current       ecs.EntityID
	cooldownTimer *timeline.Timer
	spawnCount    int
}

// NewSpawnScheduler 创建出生调度器
//
// 参数：
//   - session: 当前会话
//   - p: 行星对象池
//   - em: 实体管理器（激活行星）
//   - tl: 逻辑时间线
//   - audio: 音频端口，可为 nil
//   - rng: 随机源（出生等级），可为 nil
//   - cfg: 冷却与出生位置
//   - logger: 日志，可为 nil
func NewSpawnScheduler(
	session *Session,
	p *pool.ObjectPool,
	em *ecs.EntityManager,
	tl *timeline.Timeline,
	audio AudioPort,
	rng *rand.Rand,
	cfg SpawnSchedulerConfig,
	logger *zap.Logger,
) *SpawnScheduler {
	if audio == nil {
		audio = nopAudio{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	return &SpawnScheduler{
		session:  session,
		pool:     p,
		em:       em,
		timeline: tl,
		audio:    audio,
		rng:      rng,
		cfg:      cfg,
		logger:   logger.Named("spawn"),
	}
}

// SpawnNext 出生下一个行星
//
// 会话已结束时什么也不做。否则从对象池取出行星，分配 [0, maxLevel) 内的随机等级，
// 激活并记录为当前行星和会话的 lastSpawned，播放 Next 音效，然后等待松手通知。
func (s *SpawnScheduler) SpawnNext() {
	if s.session.IsOver() {
		s.logger.Debug("spawn skipped, session is over")
		return
	}
	if s.current != ecs.InvalidEntity {
		s.logger.Warn("spawn refused, an entity is still live", zap.Uint64("live", uint64(s.current)))
		return
	}
	if s.cooldownTimer.Pending() {
		s.logger.Warn("spawn refused, cooldown already pending")
		return
	}

	id := s.pool.Acquire()
	level := 0
	if maxLevel := s.session.MaxLevel(); maxLevel > 0 {
		level = s.rng.Intn(maxLevel)
	}
	entities.ActivatePlanet(s.em, id, level, s.cfg.SpawnX, s.cfg.SpawnY)

	s.current = id
	s.session.setLastSpawned(id)
	s.spawnCount++
	s.audio.PlayCue(sound.CueNext)

	s.logger.Debug("planet spawned",
		zap.Uint64("entity", uint64(id)),
		zap.Int("level", level),
		zap.Int("poolSize", s.pool.Len()),
		zap.Float64("at", s.timeline.Now()))
}

// Release 松手通知：当前行星已交给落下逻辑
//
// 清空当前行星并开始冷却，冷却结束后调用 SpawnNext。
// 与当前行星不符或重复的通知被忽略。
func (s *SpawnScheduler) Release(id ecs.EntityID) {
	if s.current == ecs.InvalidEntity || id != s.current {
		s.logger.Debug("release ignored",
			zap.Uint64("entity", uint64(id)),
			zap.Uint64("current", uint64(s.current)))
		return
	}
	s.current = ecs.InvalidEntity

	if s.session.IsOver() {
		return
	}
	s.cooldownTimer = s.timeline.After("spawn-cooldown", s.cfg.Cooldown, s.SpawnNext)
}

// Stop 取消正在等待的冷却
func (s *SpawnScheduler) Stop() {
	if s.cooldownTimer.Cancel() {
		s.logger.Debug("cooldown cancelled")
	}
}

// Current 返回等待松手的行星
func (s *SpawnScheduler) Current() (ecs.EntityID, bool) {
	return s.current, s.current != ecs.InvalidEntity
}

// CooldownPending 返回冷却是否正在进行
func (s *SpawnScheduler) CooldownPending() bool {
	return s.cooldownTimer.Pending()
}

// SpawnCount 返回本局已出生的次数
func (s *SpawnScheduler) SpawnCount() int {
	return s.spawnCount
}
