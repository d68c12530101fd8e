package dues

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const receiptAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ReceiptNumberGenerator issues receipt numbers of the form RCP-<epoch millis>-<4 chars>.
// Suffixes are tracked per millisecond so one process never repeats a number.
type ReceiptNumberGenerator struct {
	mu     sync.Mutex
	now    func() time.Time
	millis int64
	used   map[string]struct{}
}

// NewReceiptNumberGenerator creates a generator backed by the wall clock
func NewReceiptNumberGenerator() *ReceiptNumberGenerator {
	return &ReceiptNumberGenerator{
		now:  time.Now,
		used: make(map[string]struct{}),
	}
}

// Next returns a new receipt number
func (g *ReceiptNumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	millis := g.now().UnixMilli()
	if millis != g.millis {
		g.millis = millis
		g.used = make(map[string]struct{})
	}

	for {
		suffix := randomSuffix()
		if _, taken := g.used[suffix]; taken {
			continue
		}
		g.used[suffix] = struct{}{}
		return fmt.Sprintf("RCP-%d-%s", millis, suffix)
	}
}

func randomSuffix() string {
	id := uuid.New()
	b := make([]byte, 4)
	for i := range b {
		b[i] = receiptAlphabet[int(id[i])%len(receiptAlphabet)]
	}
	return string(b)
}
