package data

import (
	"context"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"

	"github.com/iWorld-y/zhujingtong/app/display/internal/domain"
)

func TestSessionRepo(t *testing.T) {
	r := NewSessionRepo(log.DefaultLogger)
	ctx := context.Background()

	s := domain.NewSession(time.Now, nil, nil)
	if err := r.Create(ctx, s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("session id %q is not a uuid: %v", s.ID, err)
	}

	got, err := r.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != s {
		t.Error("Get() returned a different session")
	}

	if _, err := r.Get(ctx, uuid.NewString()); !errors.IsNotFound(err) {
		t.Errorf("Get(unknown) error = %v, want NotFound", err)
	}
}
