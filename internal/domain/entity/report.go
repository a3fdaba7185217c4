package entity

import "time"

// ReportStatus is the triage state of a dog report.
type ReportStatus string

const (
	StatusReported     ReportStatus = "reported"
	StatusAcknowledged ReportStatus = "acknowledged"
	StatusVaccinated   ReportStatus = "vaccinated"
	StatusSheltered    ReportStatus = "sheltered"
	StatusIgnored      ReportStatus = "ignored"
)

var ReportStatuses = []ReportStatus{StatusReported, StatusAcknowledged, StatusVaccinated, StatusSheltered, StatusIgnored}

func (s ReportStatus) Valid() bool {
	for _, v := range ReportStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Report is a sighting of one or more dogs at a location.
// AcknowledgedOn is set every time the status moves to acknowledged and is never cleared.
type Report struct {
	ID             string       `json:"id"`
	Location       Point        `json:"location"`
	Count          int          `json:"count"`
	Aggressiveness int          `json:"aggressiveness"`
	Status         ReportStatus `json:"status"`
	CreatedOn      time.Time    `json:"createdOn"`
	AcknowledgedOn *time.Time   `json:"acknowledgedOn"`
	ReporterID     *string      `json:"reporterId"`
}

// AcknowledgementStamp is the AcknowledgedOn value a transition to s at now
// writes. It is nil for every status but acknowledged, and a nil stamp
// leaves the stored value untouched.
func AcknowledgementStamp(s ReportStatus, now time.Time) *time.Time {
	if s != StatusAcknowledged {
		return nil
	}
	return &now
}

// Reporter returns the reporter id or "" when the reporter was deleted.
func (r *Report) Reporter() string {
	if r.ReporterID == nil {
		return ""
	}
	return *r.ReporterID
}
