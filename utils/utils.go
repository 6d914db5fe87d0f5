// Package utils provides shared helpers used across layers.
package utils

import "time"

// UTCNow returns the current time in UTC. Call log timestamps are always
// stamped in UTC so entries from different branches sort consistently.
func UTCNow() time.Time {
	return time.Now().UTC()
}
