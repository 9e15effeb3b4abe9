package mirror

import (
	"crypto/subtle"
	"sync/atomic"
)

// DefaultAccessCode unlocks writes when no code is configured.
const DefaultAccessCode = "20237859"

// Gate is a per-session unlock for write access. It keeps casual viewers from
// editing by accident and is not an access control mechanism.
type Gate struct {
	code     []byte
	unlocked atomic.Bool
}

// NewGate returns a locked gate for code. An empty code uses DefaultAccessCode.
func NewGate(code string) *Gate {
	if code == "" {
		code = DefaultAccessCode
	}
	return &Gate{code: []byte(code)}
}

// Unlock compares input verbatim with the configured code. Once unlocked the
// gate stays open for the rest of the session.
func (g *Gate) Unlock(input string) bool {
	if g.unlocked.Load() {
		return true
	}
	if subtle.ConstantTimeCompare([]byte(input), g.code) != 1 {
		return false
	}
	g.unlocked.Store(true)
	return true
}

// Unlocked reports whether writes are currently allowed.
func (g *Gate) Unlocked() bool {
	return g.unlocked.Load()
}
