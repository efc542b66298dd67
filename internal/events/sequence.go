package events

import (
	"context"
	"fmt"
	"sync"
)

// SequenceSource hands out monotonically increasing sequence numbers per
// partition key.
type SequenceSource interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// MemorySequence keeps sequences in process memory. It is used when no
// database is configured.
type MemorySequence struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequence() *MemorySequence {
	return &MemorySequence{last: make(map[string]int64)}
}

func (m *MemorySequence) NextSequence(_ context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[partitionKey]++
	return m.last[partitionKey], nil
}
