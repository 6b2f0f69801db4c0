//go:build !cgo

package midi

import "gitlab.com/gomidi/midi/v2/drivers"

// NewDriver reports ErrNotCompiled: the rtmidi driver needs cgo.
func NewDriver() (drivers.Driver, error) {
	return nil, ErrNotCompiled
}
