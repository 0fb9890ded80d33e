package cache

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"sentiment/internal/domain"
)

// Memory is a bounded in-memory score cache keyed by encoded sequence.
// When full, the oldest entry is evicted first.
type Memory struct {
	mu       sync.RWMutex
	capacity int
	scores   map[string]float64
	order    []string
}

// NewMemory creates a cache holding at most capacity scores.
// A non-positive capacity yields a cache that stores nothing.
func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{capacity: capacity, scores: make(map[string]float64, capacity)}
}

func (m *Memory) Get(seq domain.Sequence) (float64, bool) {
	key := hashSequence(seq)
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[key]
	return s, ok
}

func (m *Memory) Put(seq domain.Sequence, score float64) {
	if m.capacity == 0 {
		return
	}
	key := hashSequence(seq)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.scores[key]; ok {
		m.scores[key] = score
		return
	}
	for len(m.order) >= m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.scores, oldest)
	}
	m.scores[key] = score
	m.order = append(m.order, key)
}

// Len returns the number of cached scores.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scores)
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = make(map[string]float64, m.capacity)
	m.order = nil
}

func hashSequence(seq domain.Sequence) string {
	h := sha1.New()
	var buf [8]byte
	for _, idx := range seq {
		binary.LittleEndian.PutUint64(buf[:], uint64(idx))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
