package candidate

import "time"

// Allowed status values (keep in sync with the four-stage pipeline).
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusSelected   = "Selected"
	StatusRejected   = "Rejected"
)

// AllowedStatuses in display order.
var AllowedStatuses = []string{StatusNew, StatusInProgress, StatusSelected, StatusRejected}

// Candidate is a stored candidate record. ID is assigned once on insert
// and never changes; every other field is mutable via update.
type Candidate struct {
	ID            string    `json:"candidate_id"`
	Name          string    `json:"candidate_name"`
	Skills        string    `json:"skills,omitempty"`
	Phone         string    `json:"phone"` // normalized: country code + digits, no separators
	Email         string    `json:"email"` // lower-cased
	Location      string    `json:"location,omitempty"`
	AvailableTime string    `json:"available_time,omitempty"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Input is a raw candidate as it arrives from a form post or an import
// row, before validation. Empty or whitespace-only strings count as
// absent.
type Input struct {
	Name          string `json:"candidate_name"`
	Skills        string `json:"skills"`
	Phone         string `json:"phone"`
	CountryCode   string `json:"country_code"`
	Email         string `json:"email"`
	Location      string `json:"location"`
	AvailableTime string `json:"available_time"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

func validStatus(s string) bool {
	for _, allowed := range AllowedStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}
