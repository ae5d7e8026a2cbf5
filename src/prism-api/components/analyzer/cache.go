package analyzer

import (
	"strings"
	"sync"

	"github.com/OneOfOne/xxhash"
)

// memoCache memoizes computed analysis results for the process lifetime.
// There is no eviction; unbounded growth is an accepted limitation.
// Concurrent requests with the same fingerprint may both miss and both do
// the upstream work; later requests converge on the stored result.
type memoCache struct {
	entries sync.Map // uint64 -> stored result
}

func newMemoCache() *memoCache {
	return &memoCache{}
}

func (m *memoCache) load(key uint64) (any, bool) {
	return m.entries.Load(key)
}

func (m *memoCache) store(key uint64, value any) {
	m.entries.Store(key, value)
}

// fingerprint hashes the operation name and its normalized inputs into a
// cache key.
func fingerprint(op string, parts ...string) uint64 {
	h := xxhash.New64()
	_, _ = h.WriteString(op)
	for _, p := range parts {
		_, _ = h.Write([]byte{0x1f})
		_, _ = h.WriteString(strings.TrimSpace(p))
	}
	return h.Sum64()
}
