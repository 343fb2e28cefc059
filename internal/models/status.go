package models

// DefaultStatusColor is used for statuses missing from the color table.
const DefaultStatusColor = "default"

var statusColors = map[string]string{
	StatusDraft:     "purple",
	StatusPending:   "orange",
	StatusValidated: "blue",
	StatusDelivered: "cyan",
	StatusPaid:      "green",
	StatusCancelled: "red",
}

// StatusColor maps a status tag to its display color.
func StatusColor(status string) string {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return DefaultStatusColor
}

// Statuses lists the known statuses in lifecycle order, for selectors.
func Statuses() []string {
	return []string{StatusDraft, StatusPending, StatusValidated, StatusDelivered, StatusPaid, StatusCancelled}
}
