package handlers

import "github.com/oksasatya/pawpatrol/internal/domain/entity"

// pointRequest uses pointers so that 0 is accepted while a missing axis is not.
type pointRequest struct {
	X *float64 `json:"x" binding:"required,longitude"`
	Y *float64 `json:"y" binding:"required,latitude"`
}

func (p *pointRequest) toPoint() *entity.Point {
	if p == nil || p.X == nil || p.Y == nil {
		return nil
	}
	return &entity.Point{X: *p.X, Y: *p.Y}
}
