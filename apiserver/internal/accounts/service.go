package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cropline/cropline"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// sortFields whitelists the fields users may be sorted by, mapping API names
// onto stored field names. Arbitrary sort fields would permit expensive,
// unindexable query plans.
var sortFields = map[string]string{
	"createdAt": "created",
	"email":     "email",
	"lastName":  "lastName",
	"status":    "status",
	"role":      "role",
}

// Service is the specialized interface for managing Users. It's decoupled
// from underlying technology choices (e.g. data store) to keep business logic
// reusable and consistent while the underlying tech stack remains free to
// change.
type Service interface {
	// Create stores a new, externally registered User in pending status.
	Create(context.Context, cropline.User) (cropline.User, error)
	// List returns a page of Users matching the given selector.
	List(
		context.Context,
		cropline.UsersSelector,
		cropline.ListOptions,
	) (cropline.UserList, error)
	// GetPending returns a page of Users awaiting review.
	GetPending(
		context.Context,
		cropline.ListOptions,
	) (cropline.UserList, error)
	// GetByRole returns a page of Users having the given role.
	GetByRole(
		context.Context,
		cropline.Role,
		cropline.ListOptions,
	) (cropline.UserList, error)
	// Get retrieves a single User specified by their identifier.
	Get(context.Context, string) (cropline.User, error)
	// Approve transitions a pending User to active status.
	Approve(ctx context.Context, id, actor string) (cropline.User, error)
	// Reject transitions a pending User to inactive status, recording the
	// given reason.
	Reject(
		ctx context.Context,
		id, actor, reason string,
	) (cropline.User, error)
	// Suspend transitions an active User to suspended status.
	Suspend(ctx context.Context, id, actor string) (cropline.User, error)
	// Reactivate transitions a suspended or inactive User back to active
	// status.
	Reactivate(ctx context.Context, id, actor string) (cropline.User, error)
	// UpdateRole assigns a User a new role. Demoting the last remaining
	// superadmin is not permitted.
	UpdateRole(
		ctx context.Context,
		id, actor string,
		role cropline.Role,
	) (cropline.User, error)
	// Delete logically deletes a User. Deleting an already deleted User is a
	// no-op success.
	Delete(ctx context.Context, id, actor string) error
	// BulkApprove approves many pending Users with per-item isolation of
	// success and failure. One item's failure never aborts the rest.
	BulkApprove(
		ctx context.Context,
		ids []string,
		actor string,
	) (cropline.UserBulkApprovalResult, error)
	// Statistics returns aggregate counts over the live user population.
	Statistics(context.Context) (cropline.UserStatistics, error)
	// Audit returns the audit trail of a single User, most recent first.
	Audit(context.Context, string) (cropline.AuditEntryList, error)
}

type service struct {
	store      Store
	auditStore AuditStore
}

// NewService returns a specialized interface for managing Users.
func NewService(store Store, auditStore AuditStore) Service {
	return &service{
		store:      store,
		auditStore: auditStore,
	}
}

func (s *service) Create(
	ctx context.Context,
	user cropline.User,
) (cropline.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" {
		return cropline.User{}, cropline.NewErrBadRequest(
			"User validation failed.",
			"email is required",
		)
	}
	if user.Region == "" {
		return cropline.User{}, cropline.NewErrBadRequest(
			"User validation failed.",
			"region is required",
		)
	}
	if user.Role == "" {
		user.Role = cropline.RoleFarmer
	}
	if !cropline.RoleIsValid(user.Role) {
		return cropline.User{}, cropline.NewErrBadRequest(
			"User validation failed.",
			fmt.Sprintf("role %q is not a recognized role", user.Role),
		)
	}
	if user.ID == "" {
		user.ID = uuid.NewV4().String()
	}
	now := time.Now()
	user.Created = &now
	user.LastUpdated = &now
	// Registration review hasn't happened yet-- whatever the caller claims,
	// new users start out pending with no review on record.
	user.Status = cropline.StatusPending
	user.Review = nil
	user.Deleted = nil
	if err := s.store.Create(ctx, user); err != nil {
		return cropline.User{},
			errors.Wrapf(err, "error storing new user %q", user.ID)
	}
	stripSecrets(&user)
	return user, nil
}

func (s *service) List(
	ctx context.Context,
	selector cropline.UsersSelector,
	opts cropline.ListOptions,
) (cropline.UserList, error) {
	if selector.Role != "" && !cropline.RoleIsValid(selector.Role) {
		return cropline.UserList{}, cropline.NewErrBadRequest(
			fmt.Sprintf("role %q is not a recognized role", selector.Role),
		)
	}
	if selector.Status != "" && !cropline.StatusIsValid(selector.Status) {
		return cropline.UserList{}, cropline.NewErrBadRequest(
			fmt.Sprintf("status %q is not a recognized status", selector.Status),
		)
	}
	users, err := s.store.List(ctx, selector, clampListOptions(opts))
	if err != nil {
		return users, errors.Wrap(err, "error retrieving users from store")
	}
	for i := range users.Items {
		stripSecrets(&users.Items[i])
	}
	return users, nil
}

// GetPending and GetByRole are deliberately thin. They delegate to List so
// that field projection, deletion exclusion, and pagination behave
// identically no matter which operation a caller reaches for.

func (s *service) GetPending(
	ctx context.Context,
	opts cropline.ListOptions,
) (cropline.UserList, error) {
	return s.List(
		ctx,
		cropline.UsersSelector{
			Status: cropline.StatusPending,
		},
		opts,
	)
}

func (s *service) GetByRole(
	ctx context.Context,
	role cropline.Role,
	opts cropline.ListOptions,
) (cropline.UserList, error) {
	return s.List(
		ctx,
		cropline.UsersSelector{
			Role: role,
		},
		opts,
	)
}

func (s *service) Get(
	ctx context.Context,
	id string,
) (cropline.User, error) {
	user, err := s.store.Get(ctx, id)
	if err != nil {
		return user, errors.Wrapf(err, "error retrieving user %q from store", id)
	}
	stripSecrets(&user)
	return user, nil
}

func (s *service) Approve(
	ctx context.Context,
	id, actor string,
) (cropline.User, error) {
	user, err := s.store.Approve(ctx, id, actor)
	if err != nil {
		return user, errors.Wrapf(err, "error approving user %q in store", id)
	}
	if err := s.audit(
		ctx,
		id,
		actor,
		"approve",
		cropline.StatusPending,
		cropline.StatusActive,
		"",
	); err != nil {
		return user, err
	}
	stripSecrets(&user)
	return user, nil
}

func (s *service) Reject(
	ctx context.Context,
	id, actor, reason string,
) (cropline.User, error) {
	if strings.TrimSpace(reason) == "" {
		return cropline.User{}, cropline.NewErrBadRequest(
			"A rejection requires a reason.",
			"reason is required",
		)
	}
	user, err := s.store.Reject(ctx, id, actor, reason)
	if err != nil {
		return user, errors.Wrapf(err, "error rejecting user %q in store", id)
	}
	if err := s.audit(
		ctx,
		id,
		actor,
		"reject",
		cropline.StatusPending,
		cropline.StatusInactive,
		reason,
	); err != nil {
		return user, err
	}
	stripSecrets(&user)
	return user, nil
}

func (s *service) Suspend(
	ctx context.Context,
	id, actor string,
) (cropline.User, error) {
	user, err := s.store.Suspend(ctx, id)
	if err != nil {
		return user, errors.Wrapf(err, "error suspending user %q in store", id)
	}
	if err := s.audit(
		ctx,
		id,
		actor,
		"suspend",
		cropline.StatusActive,
		cropline.StatusSuspended,
		"",
	); err != nil {
		return user, err
	}
	stripSecrets(&user)
	return user, nil
}

func (s *service) Reactivate(
	ctx context.Context,
	id, actor string,
) (cropline.User, error) {
	// The prior status could have been suspended or inactive; ask first so the
	// audit trail can say which. The transition itself remains conditional.
	prior, err := s.store.Get(ctx, id)
	if err != nil {
		return prior, errors.Wrapf(err, "error retrieving user %q from store", id)
	}
	user, err := s.store.Reactivate(ctx, id)
	if err != nil {
		return user, errors.Wrapf(err, "error reactivating user %q in store", id)
	}
	if err := s.audit(
		ctx,
		id,
		actor,
		"reactivate",
		prior.Status,
		cropline.StatusActive,
		"",
	); err != nil {
		return user, err
	}
	stripSecrets(&user)
	return user, nil
}

func (s *service) UpdateRole(
	ctx context.Context,
	id, actor string,
	role cropline.Role,
) (cropline.User, error) {
	if !cropline.RoleIsValid(role) {
		return cropline.User{}, cropline.NewErrBadRequest(
			"User validation failed.",
			fmt.Sprintf("role %q is not a recognized role", role),
		)
	}
	user, err := s.store.Get(ctx, id)
	if err != nil {
		return user, errors.Wrapf(err, "error retrieving user %q from store", id)
	}
	if user.Role == role {
		stripSecrets(&user)
		return user, nil
	}
	if user.Role == cropline.RoleSuperadmin &&
		user.Status == cropline.StatusActive {
		// The platform must always retain at least one active superadmin, so
		// only other active superadmins count toward the guard. The count
		// check alone is racy, but the role change below is conditional on the
		// user still being a superadmin, so concurrent demotions cannot all
		// slip through.
		superadmins, err := s.store.Count(
			ctx,
			cropline.UsersSelector{
				Role:   cropline.RoleSuperadmin,
				Status: cropline.StatusActive,
			},
		)
		if err != nil {
			return cropline.User{},
				errors.Wrap(err, "error counting superadmins")
		}
		if superadmins <= 1 {
			return cropline.User{}, &cropline.ErrConflict{
				Type: "User",
				ID:   id,
				Reason: fmt.Sprintf(
					"User %q is the last remaining active superadmin and "+
						"cannot be demoted.",
					id,
				),
			}
		}
	}
	updatedUser, err := s.store.UpdateRole(ctx, id, user.Role, role)
	if err != nil {
		return updatedUser,
			errors.Wrapf(err, "error updating role of user %q in store", id)
	}
	if err := s.audit(
		ctx,
		id,
		actor,
		"updateRole",
		user.Status,
		user.Status,
		fmt.Sprintf("%s -> %s", user.Role, role),
	); err != nil {
		return updatedUser, err
	}
	stripSecrets(&updatedUser)
	return updatedUser, nil
}

func (s *service) Delete(ctx context.Context, id, actor string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "error deleting user %q in store", id)
	}
	if !deleted {
		// The user was already deleted. Deliberately a no-op success.
		return nil
	}
	return s.audit(ctx, id, actor, "delete", "", "", "")
}

func (s *service) BulkApprove(
	ctx context.Context,
	ids []string,
	actor string,
) (cropline.UserBulkApprovalResult, error) {
	result := cropline.UserBulkApprovalResult{
		Succeeded: []cropline.BulkItemSuccess{},
		Failed:    []cropline.BulkItemFailure{},
	}
	// Each id is processed independently; failures are captured and reported,
	// never thrown. Duplicate ids are each processed on their own-- the second
	// approval of the same id surfaces as a per-item conflict.
	for _, id := range ids {
		user, err := s.Approve(ctx, id, actor)
		if err != nil {
			result.Failed = append(
				result.Failed,
				cropline.BulkItemFailure{
					ID:      id,
					Kind:    errorKind(err),
					Message: errors.Cause(err).Error(),
				},
			)
			continue
		}
		result.Succeeded = append(
			result.Succeeded,
			cropline.BulkItemSuccess{
				ID:   id,
				User: user,
			},
		)
	}
	return result, nil
}

func (s *service) Statistics(
	ctx context.Context,
) (cropline.UserStatistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "error aggregating user statistics")
	}
	return stats, nil
}

func (s *service) Audit(
	ctx context.Context,
	id string,
) (cropline.AuditEntryList, error) {
	// Resolve the user first so requests for unknown users 404 rather than
	// returning an empty trail.
	if _, err := s.store.Get(ctx, id); err != nil {
		return cropline.AuditEntryList{},
			errors.Wrapf(err, "error retrieving user %q from store", id)
	}
	entries, err := s.auditStore.ListByUser(ctx, id)
	if err != nil {
		return entries,
			errors.Wrapf(err, "error retrieving audit trail of user %q", id)
	}
	return entries, nil
}

func (s *service) audit(
	ctx context.Context,
	userID, actor, action string,
	from, to cropline.Status,
	note string,
) error {
	now := time.Now()
	if err := s.auditStore.Create(
		ctx,
		cropline.AuditEntry{
			ID:      uuid.NewV4().String(),
			UserID:  userID,
			Actor:   actor,
			Action:  action,
			From:    from,
			To:      to,
			Note:    note,
			Created: &now,
		},
	); err != nil {
		return errors.Wrapf(
			err,
			"error recording audit entry for user %q",
			userID,
		)
	}
	return nil
}

// clampListOptions coerces out-of-range paging values into range instead of
// rejecting them, and quietly falls back to creation time, newest first, for
// sort fields outside the whitelist.
func clampListOptions(opts cropline.ListOptions) cropline.ListOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = defaultPageLimit
	} else if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}
	if _, ok := sortFields[opts.SortBy]; !ok {
		opts.SortBy = "createdAt"
		opts.SortOrder = cropline.SortDescending
	}
	if opts.SortOrder != cropline.SortAscending &&
		opts.SortOrder != cropline.SortDescending {
		opts.SortOrder = cropline.SortDescending
	}
	return opts
}

func stripSecrets(user *cropline.User) {
	user.Credentials = nil
}

func errorKind(err error) string {
	switch errors.Cause(err).(type) {
	case *cropline.ErrNotFound:
		return "NotFoundError"
	case *cropline.ErrConflict:
		return "ConflictError"
	case *cropline.ErrBadRequest:
		return "BadRequestError"
	case *cropline.ErrStoreUnavailable:
		return "StoreUnavailableError"
	default:
		return "InternalServerError"
	}
}
