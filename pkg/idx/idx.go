// Package idx mints ULID identifiers for accounts and request correlation.
package idx

import (
	"crypto/rand"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

// Generator produces monotonic ULIDs. The zero value is not usable; build
// one with NewGenerator.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewGenerator returns a Generator reading entropy from src and time from
// now. Nil arguments fall back to crypto/rand and time.Now.
func NewGenerator(src io.Reader, now func() time.Time) *Generator {
	if src == nil {
		src = rand.Reader
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now, entropy: ulid.Monotonic(src, 0)}
}

func (g *Generator) New() ID {
	return g.NewAt(g.now())
}

func (g *Generator) NewAt(t time.Time) ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t.UTC()), g.entropy).String())
}

var (
	defaultOnce sync.Once
	defaultGen  *Generator
)

func global() *Generator {
	defaultOnce.Do(func() { defaultGen = NewGenerator(nil, nil) })
	return defaultGen
}

// New returns a ULID for the current time from the process-wide generator.
func New() ID { return global().New() }

// NewAt returns a ULID stamped with t.
func NewAt(t time.Time) ID { return global().NewAt(t) }

// Parse validates s as a canonical ULID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}
	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

func (id ID) IsZero() bool   { return id == Zero }
func (id ID) String() string { return string(id) }

// Time returns the millisecond timestamp embedded in the ID, or the zero
// time for invalid IDs.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}
