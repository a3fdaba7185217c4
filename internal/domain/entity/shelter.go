package entity

import "time"

type Shelter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  Point     `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}
