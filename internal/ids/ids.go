package ids

import "github.com/segmentio/ksuid"

// New returns a sortable identifier used to correlate a dispatched action
// with its log lines.
func New() string {
	return ksuid.New().String()
}
