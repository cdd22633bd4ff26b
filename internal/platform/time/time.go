// Package time holds the clock seam used for record timestamps
package time

import "time"

// Clock returns the current instant
type Clock func() time.Time

// UTC is the production clock, truncated to milliseconds
func UTC() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// Frozen returns a Clock that always answers at
func Frozen(at time.Time) Clock { return func() time.Time { return at } }

// OrUTC returns c, or UTC when c is nil
func (c Clock) OrUTC() Clock {
	if c == nil {
		return UTC
	}
	return c
}
