package order

import (
	"fmt"
	"math/rand"
	"time"
)

// NumberGenerator produces human-facing order references of the form
// PREFIX-YYYY-MM-DD-HHMMSS-RRR. The trailing three random digits make the
// reference collision-resistant, not collision-free: uniqueness is enforced
// by the database constraint on the number column, with one regenerate-and-retry
// at the service layer.
type NumberGenerator struct {
	prefix string
	now    func() time.Time
	intn   func(n int) int
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	return &NumberGenerator{
		prefix: prefix,
		now:    time.Now,
		intn:   rand.Intn,
	}
}

// Generate returns a fresh reference on every call. It never touches the
// database.
func (g *NumberGenerator) Generate() string {
	stamp := g.now().Format("2006-01-02-150405")
	return fmt.Sprintf("%s-%s-%03d", g.prefix, stamp, g.intn(1000))
}
