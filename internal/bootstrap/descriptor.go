package bootstrap

import (
	"strconv"
	"strings"
)

// Descriptor describes the receiver input device. The backend owns the
// meaning of every field; here it is only rendered to its textual form.
type Descriptor struct {
	File     string
	Freq     float64
	Rate     float64
	Repeat   bool
	Throttle bool
}

// String renders the descriptor as comma joined key=value pairs, e.g.
// "file=/tmp/iq,freq=1e+08,rate=1.4122e+07,repeat=true,throttle=true".
// Zero valued numeric fields and an empty file are omitted.
func (d Descriptor) String() string {
	var parts []string
	if d.File != "" {
		parts = append(parts, "file="+d.File)
	}
	if d.Freq != 0 {
		parts = append(parts, "freq="+strconv.FormatFloat(d.Freq, 'g', -1, 64))
	}
	if d.Rate != 0 {
		parts = append(parts, "rate="+strconv.FormatFloat(d.Rate, 'g', -1, 64))
	}
	parts = append(parts, "repeat="+strconv.FormatBool(d.Repeat))
	parts = append(parts, "throttle="+strconv.FormatBool(d.Throttle))
	return strings.Join(parts, ",")
}
