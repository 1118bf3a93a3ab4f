package profile

// TopValue is one entry of a frequency ranking statistic. Display is a
// locale-independent token (the exact string value, a number, an ISO month or
// weekday number); presentation layers localize it for display.
type TopValue struct {
	Display string `json:"display"`
	Count   int    `json:"count"`
}
