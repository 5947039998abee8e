// Package board 实现行星的拖拽、落位与合并
//
// 棋盘是 Columns × Rows 的格子，第 0 行在最上方。松手时行星落入指针所在列
// 最低的空格；落位后与正下方同等级的行星合并，合并可以连续发生。
package board

import (
	"fmt"

	"github.com/decker502/planetdrop/pkg/components"
	"github.com/decker502/planetdrop/pkg/ecs"
	"github.com/decker502/planetdrop/pkg/entities"
	"github.com/decker502/planetdrop/pkg/sound"
	"go.uber.org/zap"
)

// Layout 棋盘几何与规则
type Layout struct {
	Columns  int
	Rows     int
	CellSize float64
	// OriginX, OriginY 棋盘左上角（世界坐标）
	OriginX, OriginY float64
	// MaxMergeLevel 合并可达到的最高等级，达到后不再合并
	MaxMergeLevel int
}

// Scorer 计分接口（由会话实现）
type Scorer interface {
	AddScore(points int)
}

// CuePlayer 音效接口
type CuePlayer interface {
	PlayCue(cue sound.Cue) bool
}

// Board 落位棋盘
type Board struct {
	em         *ecs.EntityManager
	layout     Layout
	cells      [][]ecs.EntityID // [row][col]
	scorer     Scorer
	audio      CuePlayer
	onOverflow func()
	logger     *zap.Logger

	merges int
}

// New 创建棋盘
//
// 参数：
//   - em: 实体管理器
//   - layout: 棋盘几何
//   - scorer: 计分接口
//   - audio: 音效接口，可为 nil
//   - onOverflow: 某列堆满（落入第 0 行或整列已满）时调用，一般是 GameOver
//   - logger: 日志，可为 nil
//
// 返回：
//   - *Board: 棋盘
//   - error: 行列数不合法时返回错误
func New(em *ecs.EntityManager, layout Layout, scorer Scorer, audio CuePlayer, onOverflow func(), logger *zap.Logger) (*Board, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if layout.Columns <= 0 || layout.Rows <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", layout.Columns, layout.Rows)
	}
	if layout.CellSize <= 0 {
		return nil, fmt.Errorf("invalid cell size %.2f", layout.CellSize)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cells := make([][]ecs.EntityID, layout.Rows)
	for r := range cells {
		cells[r] = make([]ecs.EntityID, layout.Columns)
	}

	return &Board{
		em:         em,
		layout:     layout,
		cells:      cells,
		scorer:     scorer,
		audio:      audio,
		onOverflow: onOverflow,
		logger:     logger.Named("board"),
	}, nil
}

// Layout 返回棋盘几何
func (b *Board) Layout() Layout {
	return b.layout
}

// At 返回格子中的行星
func (b *Board) At(row, col int) (ecs.EntityID, bool) {
	if !b.inBounds(row, col) {
		return ecs.InvalidEntity, false
	}
	id := b.cells[row][col]
	return id, id != ecs.InvalidEntity
}

// Merges 返回本局合并次数
func (b *Board) Merges() int {
	return b.merges
}

// CellCenter 返回格子中心（世界坐标）
func (b *Board) CellCenter(row, col int) (float64, float64) {
	size := b.layout.CellSize
	return b.layout.OriginX + (float64(col)+0.5)*size,
		b.layout.OriginY + (float64(row)+0.5)*size
}

// ColumnAt 返回 x 所在的列，超出棋盘时夹到边缘列
func (b *Board) ColumnAt(x float64) int {
	col := int((x - b.layout.OriginX) / b.layout.CellSize)
	return min(max(col, 0), b.layout.Columns-1)
}

// Drag 开始拖拽
func (b *Board) Drag(id ecs.EntityID) {
	drag, ok := ecs.GetComponent[*components.DragComponent](b.em, id)
	if !ok || drag.Placed {
		return
	}
	drag.Dragging = true
}

// Follow 拖拽中的行星跟随指针水平移动（夹在棋盘范围内）
func (b *Board) Follow(id ecs.EntityID, x float64) {
	drag, ok := ecs.GetComponent[*components.DragComponent](b.em, id)
	if !ok || !drag.Dragging {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](b.em, id)
	if !ok {
		return
	}
	left := b.layout.OriginX + b.layout.CellSize/2
	right := b.layout.OriginX + b.layout.CellSize*(float64(b.layout.Columns)-0.5)
	pos.X = min(max(x, left), right)
}

// Drop 松手：落入当前列最低的空格，然后尝试合并
func (b *Board) Drop(id ecs.EntityID) {
	drag, ok := ecs.GetComponent[*components.DragComponent](b.em, id)
	if !ok || drag.Placed {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](b.em, id)
	if !ok {
		return
	}
	drag.Dragging = false

	col := b.ColumnAt(pos.X)
	row := b.lowestFree(col)
	if row < 0 {
		b.logger.Info("column full", zap.Int("col", col))
		// 放不下的行星直接回到休眠
		entities.DeactivatePlanet(b.em, id)
		b.overflow()
		return
	}

	b.place(id, row, col)
	row = b.mergeDown(id, row, col)

	if row == 0 {
		b.logger.Info("stack reached the top", zap.Int("col", col))
		b.overflow()
	}
}

// place 把行星放进格子
func (b *Board) place(id ecs.EntityID, row, col int) {
	b.cells[row][col] = id
	if drag, ok := ecs.GetComponent[*components.DragComponent](b.em, id); ok {
		drag.Placed = true
		drag.GridRow, drag.GridCol = row, col
	}
	if pos, ok := ecs.GetComponent[*components.PositionComponent](b.em, id); ok {
		pos.X, pos.Y = b.CellCenter(row, col)
	}
}

// mergeDown 与正下方同等级的行星连续合并，返回行星最终所在的行
//
// 合并时下方行星休眠并播放其配对特效，落下的行星升一级移入下方格子，
// 分数增加新等级。没有发生合并时播放落位音效。
func (b *Board) mergeDown(id ecs.EntityID, row, col int) int {
	planet, ok := ecs.GetComponent[*components.PlanetComponent](b.em, id)
	if !ok {
		return row
	}

	merged := false
	for row+1 < b.layout.Rows && planet.Level < b.layout.MaxMergeLevel {
		belowID := b.cells[row+1][col]
		below, ok := ecs.GetComponent[*components.PlanetComponent](b.em, belowID)
		if !ok || below.Level != planet.Level {
			break
		}

		x, y := b.CellCenter(row+1, col)
		entities.DeactivatePlanet(b.em, belowID)
		entities.TriggerEffect(b.em, below.Effect, below.Level, x, y)

		b.cells[row][col] = ecs.InvalidEntity
		planet.Level++
		row++
		b.place(id, row, col)

		b.merges++
		if b.scorer != nil {
			b.scorer.AddScore(planet.Level)
		}
		b.playCue(sound.CueLevelUp)
		merged = true

		b.logger.Debug("planets merged",
			zap.Uint64("planet", uint64(id)),
			zap.Uint64("absorbed", uint64(belowID)),
			zap.Int("level", planet.Level))
	}

	if !merged {
		b.playCue(sound.CueAttach)
	}
	return row
}

// lowestFree 返回列中最低的空格行号，整列已满返回 -1
func (b *Board) lowestFree(col int) int {
	for row := b.layout.Rows - 1; row >= 0; row-- {
		if b.cells[row][col] == ecs.InvalidEntity {
			return row
		}
	}
	return -1
}

// Clear 清空棋盘（不改变行星的激活状态）
func (b *Board) Clear() {
	for r := range b.cells {
		clear(b.cells[r])
	}
}

func (b *Board) overflow() {
	if b.onOverflow != nil {
		b.onOverflow()
	}
}

func (b *Board) playCue(cue sound.Cue) {
	if b.audio != nil {
		b.audio.PlayCue(cue)
	}
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.layout.Rows && col >= 0 && col < b.layout.Columns
}
