package scenes

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// HUD 分数显示、开始面板与结算面板
//
// 只显示核心提供的整数，不保存任何游戏规则。
type HUD struct {
	face   *text.GoXFace
	width  float64
	height float64

	score         int
	maxScore      int
	startVisible  bool
	resultVisible bool
	resultScore   int
	resultBest    int
}

// NewHUD 创建 HUD
func NewHUD(width, height float64) *HUD {
	return &HUD{
		face:   text.NewGoXFace(basicfont.Face7x13),
		width:  width,
		height: height,
	}
}

// ShowStart 开始面板的显示/隐藏
func (h *HUD) ShowStart(visible bool) {
	h.startVisible = visible
}

// ShowResult 显示结算面板
func (h *HUD) ShowResult(score, best int) {
	h.resultVisible = true
	h.resultScore = score
	h.resultBest = best
}

// SetMaxScore 更新最高分显示
func (h *HUD) SetMaxScore(best int) {
	h.maxScore = best
}

// SetScore 每帧刷新实时分数
func (h *HUD) SetScore(score int) {
	h.score = score
}

// ScoreText 实时分数文本
func (h *HUD) ScoreText() string {
	return fmt.Sprintf("Score: %d", h.score)
}

// MaxScoreText 最高分文本
func (h *HUD) MaxScoreText() string {
	return fmt.Sprintf("Best: %d", h.maxScore)
}

// ResultText 结算面板文本
func (h *HUD) ResultText() string {
	return fmt.Sprintf("Score: %d", h.resultScore)
}

// Draw 绘制 HUD
func (h *HUD) Draw(screen *ebiten.Image) {
	h.drawText(screen, h.ScoreText(), 12, 12, text.AlignStart, color.White)
	h.drawText(screen, h.MaxScoreText(), h.width-12, 12, text.AlignEnd, color.RGBA{0xff, 0xd5, 0x4f, 0xff})

	switch {
	case h.resultVisible:
		h.drawPanel(screen)
		cx, cy := h.width/2, h.height/2
		h.drawText(screen, "GAME OVER", cx, cy-40, text.AlignCenter, color.White)
		h.drawText(screen, h.ResultText(), cx, cy-10, text.AlignCenter, color.White)
		h.drawText(screen, fmt.Sprintf("Best: %d", h.resultBest), cx, cy+10, text.AlignCenter, color.White)
		h.drawText(screen, "Click to retry", cx, cy+40, text.AlignCenter, color.RGBA{0xb0, 0xb0, 0xb0, 0xff})
	case h.startVisible:
		h.drawPanel(screen)
		cx, cy := h.width/2, h.height/2
		h.drawText(screen, "PLANET DROP", cx, cy-20, text.AlignCenter, color.White)
		h.drawText(screen, "Click to start", cx, cy+10, text.AlignCenter, color.RGBA{0xb0, 0xb0, 0xb0, 0xff})
	}
}

func (h *HUD) drawPanel(screen *ebiten.Image) {
	w, ht := float32(h.width*0.7), float32(130)
	x := float32(h.width)/2 - w/2
	y := float32(h.height)/2 - ht/2 - 10
	vector.DrawFilledRect(screen, x, y, w, ht, color.RGBA{0x10, 0x10, 0x20, 0xd0}, false)
}

func (h *HUD) drawText(screen *ebiten.Image, s string, x, y float64, align text.Align, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.PrimaryAlign = align
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, h.face, op)
}
