package policy_test

import (
	"context"
	"testing"

	"github.com/bienesraices/bienesraices-go/internal/policy"
)

type mockOwnable struct {
	userID uint
}

func (m *mockOwnable) GetUserID() uint { return m.userID }

type mockNonOwnable struct {
	ID uint
}

func TestOwnershipPolicy_OwnerCanAccess(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	ctx := context.Background()
	resource := &mockOwnable{userID: 42}

	for _, action := range []policy.Action{policy.ActionView, policy.ActionUpdate, policy.ActionDelete, policy.ActionToggle} {
		if !p.Can(ctx, 42, action, resource) {
			t.Errorf("expected owner to be allowed %s", action)
		}
	}
}

func TestOwnershipPolicy_NonOwnerDenied(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	ctx := context.Background()
	resource := &mockOwnable{userID: 42}

	for _, action := range []policy.Action{policy.ActionView, policy.ActionUpdate, policy.ActionDelete, policy.ActionToggle} {
		if p.Can(ctx, 99, action, resource) {
			t.Errorf("expected non-owner to be denied %s", action)
		}
	}
}

func TestOwnershipPolicy_AnonymousDenied(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	resource := &mockOwnable{userID: 42}

	if p.Can(context.Background(), 0, policy.ActionView, resource) {
		t.Error("expected anonymous user to be denied")
	}
}

func TestOwnershipPolicy_NonOwnableResource(t *testing.T) {
	p := policy.NewOwnershipPolicy()
	resource := &mockNonOwnable{ID: 1}

	if p.Can(context.Background(), 1, policy.ActionView, resource) {
		t.Error("expected non-Ownable resource to be denied")
	}
}
