package components

// PositionComponent 世界坐标（像素）
type PositionComponent struct {
	X, Y float64
}
