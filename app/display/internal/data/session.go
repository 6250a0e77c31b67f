package data

import (
	"context"
	"sync"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/zhujingtong/app/display/internal/domain"
	"github.com/iWorld-y/zhujingtong/app/display/internal/repo"
)

// sessionRepo 会话只保存在进程内存中
type sessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	log      *log.Helper
}

func NewSessionRepo(logger log.Logger) repo.SessionRepo {
	return &sessionRepo{
		sessions: make(map[string]*domain.Session),
		log:      log.NewHelper(logger),
	}
}

func (r *sessionRepo) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = uuid.NewString()
	r.sessions[s.ID] = s
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound("SESSION_NOT_FOUND", "session not found")
	}
	return s, nil
}
