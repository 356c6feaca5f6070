package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/auth-mesh/internal/domain"
	"github.com/spec-kit/auth-mesh/internal/persistence"
	"github.com/spec-kit/auth-mesh/internal/repository"
	apperrors "github.com/spec-kit/auth-mesh/pkg/util/errorutil"
)

func TestProfileService(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	svc := NewProfileService(
		repository.NewProfileRepository(persistence.NewMemoryStore[domain.Profile]()),
		func() time.Time { return fixed },
	)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProfileInput{UserID: "u1", Username: "alice", Email: "a@x.com", FullName: "Alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedAt != "2024-03-01T09:30:00Z" {
		t.Fatalf("created_at = %q", created.CreatedAt)
	}

	_, err = svc.Create(ctx, ProfileInput{UserID: "u1"})
	assertKind(t, err, apperrors.ProfileUserAlreadyExists)

	name := "Alice A."
	updated, err := svc.Update(ctx, "u1", domain.ProfilePatch{FullName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != name || updated.Email != "a@x.com" {
		t.Fatalf("updated = %+v", updated)
	}

	_, err = svc.Get(ctx, "missing")
	assertKind(t, err, apperrors.ProfileUserNotFound)

	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}

	if err := svc.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertKind(t, svc.Delete(ctx, "u1"), apperrors.ProfileUserNotFound)
}
