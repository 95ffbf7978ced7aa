package installer

import "time"

// NewWithWaitDelay creates an Installer with a custom pipe wait delay.
func NewWithWaitDelay(d time.Duration) *Installer {
	return &Installer{waitDelay: d}
}

// TailBufferString writes chunks into a buffer of the given limit and returns its content.
func TailBufferString(limit int, chunks ...string) string {
	b := &tailBuffer{limit: limit}
	for _, c := range chunks {
		_, _ = b.Write([]byte(c))
	}
	return b.String()
}
