package platform

import "time"

// Times holds the three timestamps a transfer can carry over. A zero field
// is left unchanged by SetTimes.
type Times struct {
	Created  time.Time
	Accessed time.Time
	Modified time.Time
}
