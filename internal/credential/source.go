package credential

import (
	"context"
	"sync"
)

// Source 定义凭证的持久化接口（文件、Redis 或内存）。
// Load returns (nil, nil) when nothing has been stored yet.
type Source interface {
	Name() string
	Load(ctx context.Context) (*Credential, error)
	Save(ctx context.Context, cred Credential) error
	Clear(ctx context.Context) error
}

// MemorySource keeps the credential in process memory only.
type MemorySource struct {
	mu   sync.Mutex
	cred *Credential
}

// NewMemorySource returns an empty in-memory source.
func NewMemorySource() *MemorySource { return &MemorySource{} }

func (s *MemorySource) Name() string { return "memory" }

func (s *MemorySource) Load(context.Context) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

func (s *MemorySource) Save(_ context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &cred
	return nil
}

func (s *MemorySource) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
