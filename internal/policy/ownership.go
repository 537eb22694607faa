// Package policy decides whether an acting user may perform an action on a
// record. The only rule in this application is record ownership.
package policy

import "context"

// Action names a mutation or read gated by authorization.
type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionToggle Action = "toggle"
)

// Ownable is implemented by records that have an owning user.
type Ownable interface {
	GetUserID() uint
}

// OwnershipPolicy allows an action only when the acting user owns the
// resource. Resources that do not implement Ownable are denied outright so a
// missing implementation fails closed.
type OwnershipPolicy struct{}

func NewOwnershipPolicy() *OwnershipPolicy { return &OwnershipPolicy{} }

func (p *OwnershipPolicy) Can(_ context.Context, userID uint, _ Action, resource any) bool {
	if userID == 0 {
		return false
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}
