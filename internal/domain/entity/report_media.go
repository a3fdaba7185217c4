package entity

import "time"

type ReportMedia struct {
	ID          string    `json:"id"`
	DogReportID string    `json:"dogReportId"`
	URL         string    `json:"url"`
	Mime        string    `json:"mime"`
	CreatedAt   time.Time `json:"createdAt"`
}
