package employee

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

var Statuses = []string{StatusActive, StatusInactive}

func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}
