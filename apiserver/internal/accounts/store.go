package accounts

import (
	"context"

	"github.com/cropline/cropline"
)

// Store is an interface for User persistence and retrieval. Every lifecycle
// transition is implemented as a single conditional write against the
// underlying store-- a transition attempted from the wrong current status
// matches nothing and fails, so of two racing transitions exactly one can
// win.
type Store interface {
	// Create stores a new User. A live User with the same email must not
	// already exist.
	Create(context.Context, cropline.User) error
	// Count returns the number of live Users matching the given selector.
	Count(context.Context, cropline.UsersSelector) (int64, error)
	// List returns a page of live Users matching the given selector. The
	// options are assumed to have been clamped by the caller.
	List(
		context.Context,
		cropline.UsersSelector,
		cropline.ListOptions,
	) (cropline.UserList, error)
	// Get retrieves a single live User by their identifier.
	Get(context.Context, string) (cropline.User, error)
	// Approve conditionally transitions a pending User to active status,
	// recording the approval, and returns the updated User.
	Approve(ctx context.Context, id, actor string) (cropline.User, error)
	// Reject conditionally transitions a pending User to inactive status,
	// recording the rejection and its reason, and returns the updated User.
	Reject(
		ctx context.Context,
		id, actor, reason string,
	) (cropline.User, error)
	// Suspend conditionally transitions an active User to suspended status and
	// returns the updated User.
	Suspend(ctx context.Context, id string) (cropline.User, error)
	// Reactivate conditionally transitions a suspended or inactive User back
	// to active status and returns the updated User.
	Reactivate(ctx context.Context, id string) (cropline.User, error)
	// UpdateRole conditionally assigns a User a new role, provided their
	// current role is still the one the caller observed, and returns the
	// updated User.
	UpdateRole(
		ctx context.Context,
		id string,
		from cropline.Role,
		to cropline.Role,
	) (cropline.User, error)
	// Delete logically deletes a User. It returns true if this call marked the
	// User deleted and false if the User was already deleted.
	Delete(ctx context.Context, id string) (bool, error)
	// Statistics computes aggregate counts over the live user population in a
	// single aggregation.
	Statistics(context.Context) (cropline.UserStatistics, error)
}

// AuditStore is an interface for persistence and retrieval of the audit
// trail. Every lifecycle transition appends exactly one entry.
type AuditStore interface {
	// Create appends a new AuditEntry.
	Create(context.Context, cropline.AuditEntry) error
	// ListByUser retrieves all AuditEntries for a single User, most recent
	// first.
	ListByUser(context.Context, string) (cropline.AuditEntryList, error)
}
