package accounts

import (
	"context"
	"testing"

	"github.com/cropline/cropline"
	"github.com/stretchr/testify/require"
)

const testActor = "nikos@cropline.io"

type mockStore struct {
	CreateFn     func(context.Context, cropline.User) error
	CountFn      func(context.Context, cropline.UsersSelector) (int64, error)
	ListFn       func(context.Context, cropline.UsersSelector, cropline.ListOptions) (cropline.UserList, error) // nolint: lll
	GetFn        func(context.Context, string) (cropline.User, error)
	ApproveFn    func(context.Context, string, string) (cropline.User, error)
	RejectFn     func(context.Context, string, string, string) (cropline.User, error) // nolint: lll
	SuspendFn    func(context.Context, string) (cropline.User, error)
	ReactivateFn func(context.Context, string) (cropline.User, error)
	UpdateRoleFn func(context.Context, string, cropline.Role, cropline.Role) (cropline.User, error) // nolint: lll
	DeleteFn     func(context.Context, string) (bool, error)
	StatisticsFn func(context.Context) (cropline.UserStatistics, error)
}

func (m *mockStore) Create(ctx context.Context, user cropline.User) error {
	return m.CreateFn(ctx, user)
}

func (m *mockStore) Count(
	ctx context.Context,
	selector cropline.UsersSelector,
) (int64, error) {
	return m.CountFn(ctx, selector)
}

func (m *mockStore) List(
	ctx context.Context,
	selector cropline.UsersSelector,
	opts cropline.ListOptions,
) (cropline.UserList, error) {
	return m.ListFn(ctx, selector, opts)
}

func (m *mockStore) Get(
	ctx context.Context,
	id string,
) (cropline.User, error) {
	return m.GetFn(ctx, id)
}

func (m *mockStore) Approve(
	ctx context.Context,
	id, actor string,
) (cropline.User, error) {
	return m.ApproveFn(ctx, id, actor)
}

func (m *mockStore) Reject(
	ctx context.Context,
	id, actor, reason string,
) (cropline.User, error) {
	return m.RejectFn(ctx, id, actor, reason)
}

func (m *mockStore) Suspend(
	ctx context.Context,
	id string,
) (cropline.User, error) {
	return m.SuspendFn(ctx, id)
}

func (m *mockStore) Reactivate(
	ctx context.Context,
	id string,
) (cropline.User, error) {
	return m.ReactivateFn(ctx, id)
}

func (m *mockStore) UpdateRole(
	ctx context.Context,
	id string,
	from cropline.Role,
	to cropline.Role,
) (cropline.User, error) {
	return m.UpdateRoleFn(ctx, id, from, to)
}

func (m *mockStore) Delete(ctx context.Context, id string) (bool, error) {
	return m.DeleteFn(ctx, id)
}

func (m *mockStore) Statistics(
	ctx context.Context,
) (cropline.UserStatistics, error) {
	return m.StatisticsFn(ctx)
}

type mockAuditStore struct {
	Entries      []cropline.AuditEntry
	ListByUserFn func(context.Context, string) (cropline.AuditEntryList, error)
}

func (m *mockAuditStore) Create(
	_ context.Context,
	entry cropline.AuditEntry,
) error {
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *mockAuditStore) ListByUser(
	ctx context.Context,
	userID string,
) (cropline.AuditEntryList, error) {
	return m.ListByUserFn(ctx, userID)
}

func TestServiceCreate(t *testing.T) {
	testCases := []struct {
		name       string
		user       cropline.User
		assertions func(*testing.T, cropline.User, error)
	}{
		{
			name: "email missing",
			user: cropline.User{
				Region: "thessaly",
			},
			assertions: func(t *testing.T, _ cropline.User, err error) {
				require.Error(t, err)
				require.IsType(t, &cropline.ErrBadRequest{}, err)
			},
		},
		{
			name: "region missing",
			user: cropline.User{
				Email: "maria@example.com",
			},
			assertions: func(t *testing.T, _ cropline.User, err error) {
				require.Error(t, err)
				require.IsType(t, &cropline.ErrBadRequest{}, err)
			},
		},
		{
			name: "role unrecognized",
			user: cropline.User{
				Email:  "maria@example.com",
				Region: "thessaly",
				Role:   "overlord",
			},
			assertions: func(t *testing.T, _ cropline.User, err error) {
				require.Error(t, err)
				require.IsType(t, &cropline.ErrBadRequest{}, err)
			},
		},
		{
			name: "success",
			user: cropline.User{
				Email:  "Maria@Example.COM",
				Region: "thessaly",
				Status: cropline.StatusActive,
				Credentials: &cropline.UserCredentials{
					PasswordHash: "somehash",
				},
			},
			assertions: func(t *testing.T, user cropline.User, err error) {
				require.NoError(t, err)
				require.NotEmpty(t, user.ID)
				require.Equal(t, "maria@example.com", user.Email)
				require.Equal(t, cropline.RoleFarmer, user.Role)
				// Whatever the caller claimed, a new user starts out pending
				require.Equal(t, cropline.StatusPending, user.Status)
				require.Nil(t, user.Review)
				// Secrets are never echoed back
				require.Nil(t, user.Credentials)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var storedUser cropline.User
			service := NewService(
				&mockStore{
					CreateFn: func(
						_ context.Context,
						user cropline.User,
					) error {
						storedUser = user
						return nil
					},
				},
				&mockAuditStore{},
			)
			user, err := service.Create(context.Background(), testCase.user)
			testCase.assertions(t, user, err)
			if err == nil {
				// The stored record keeps its credentials even though the
				// response doesn't
				require.NotNil(t, storedUser.Credentials)
				require.Equal(t, cropline.StatusPending, storedUser.Status)
			}
		})
	}
}

func TestServiceListValidatesSelector(t *testing.T) {
	service := NewService(&mockStore{}, &mockAuditStore{})
	_, err := service.List(
		context.Background(),
		cropline.UsersSelector{
			Role: "overlord",
		},
		cropline.ListOptions{},
	)
	require.Error(t, err)
	require.IsType(t, &cropline.ErrBadRequest{}, err)
	_, err = service.List(
		context.Background(),
		cropline.UsersSelector{
			Status: "vaporized",
		},
		cropline.ListOptions{},
	)
	require.Error(t, err)
	require.IsType(t, &cropline.ErrBadRequest{}, err)
}

func TestServiceListStripsCredentials(t *testing.T) {
	service := NewService(
		&mockStore{
			ListFn: func(
				_ context.Context,
				_ cropline.UsersSelector,
				_ cropline.ListOptions,
			) (cropline.UserList, error) {
				return cropline.UserList{
					Items: []cropline.User{
						{
							Credentials: &cropline.UserCredentials{
								PasswordHash: "somehash",
							},
						},
					},
				}, nil
			},
		},
		&mockAuditStore{},
	)
	users, err := service.List(
		context.Background(),
		cropline.UsersSelector{},
		cropline.ListOptions{},
	)
	require.NoError(t, err)
	require.Len(t, users.Items, 1)
	require.Nil(t, users.Items[0].Credentials)
}

func TestServiceGetPendingAndGetByRole(t *testing.T) {
	var observedSelector cropline.UsersSelector
	service := NewService(
		&mockStore{
			ListFn: func(
				_ context.Context,
				selector cropline.UsersSelector,
				_ cropline.ListOptions,
			) (cropline.UserList, error) {
				observedSelector = selector
				return cropline.UserList{}, nil
			},
		},
		&mockAuditStore{},
	)
	_, err := service.GetPending(context.Background(), cropline.ListOptions{})
	require.NoError(t, err)
	require.Equal(
		t,
		cropline.UsersSelector{
			Status: cropline.StatusPending,
		},
		observedSelector,
	)
	_, err = service.GetByRole(
		context.Background(),
		cropline.RoleAdvisor,
		cropline.ListOptions{},
	)
	require.NoError(t, err)
	require.Equal(
		t,
		cropline.UsersSelector{
			Role: cropline.RoleAdvisor,
		},
		observedSelector,
	)
}

func TestClampListOptions(t *testing.T) {
	testCases := []struct {
		name     string
		opts     cropline.ListOptions
		expected cropline.ListOptions
	}{
		{
			name: "everything out of range",
			opts: cropline.ListOptions{
				Page:      -3,
				Limit:     0,
				SortBy:    "favoriteColor",
				SortOrder: "sideways",
			},
			expected: cropline.ListOptions{
				Page:      1,
				Limit:     20,
				SortBy:    "createdAt",
				SortOrder: cropline.SortDescending,
			},
		},
		{
			name: "limit too large",
			opts: cropline.ListOptions{
				Page:      2,
				Limit:     5000,
				SortBy:    "email",
				SortOrder: cropline.SortAscending,
			},
			expected: cropline.ListOptions{
				Page:      2,
				Limit:     100,
				SortBy:    "email",
				SortOrder: cropline.SortAscending,
			},
		},
		{
			name: "everything in range",
			opts: cropline.ListOptions{
				Page:      3,
				Limit:     50,
				SortBy:    "lastName",
				SortOrder: cropline.SortAscending,
			},
			expected: cropline.ListOptions{
				Page:      3,
				Limit:     50,
				SortBy:    "lastName",
				SortOrder: cropline.SortAscending,
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, clampListOptions(testCase.opts))
		})
	}
}

func TestServiceApproveRecordsAudit(t *testing.T) {
	auditStore := &mockAuditStore{}
	service := NewService(
		&mockStore{
			ApproveFn: func(
				_ context.Context,
				id, _ string,
			) (cropline.User, error) {
				return cropline.User{
					ObjectMeta: cropline.ObjectMeta{
						ID: id,
					},
					Status: cropline.StatusActive,
					Credentials: &cropline.UserCredentials{
						PasswordHash: "somehash",
					},
				}, nil
			},
		},
		auditStore,
	)
	user, err := service.Approve(context.Background(), "maria", testActor)
	require.NoError(t, err)
	require.Equal(t, cropline.StatusActive, user.Status)
	require.Nil(t, user.Credentials)
	require.Len(t, auditStore.Entries, 1)
	entry := auditStore.Entries[0]
	require.Equal(t, "maria", entry.UserID)
	require.Equal(t, testActor, entry.Actor)
	require.Equal(t, "approve", entry.Action)
	require.Equal(t, cropline.StatusPending, entry.From)
	require.Equal(t, cropline.StatusActive, entry.To)
}

func TestServiceRejectRequiresReason(t *testing.T) {
	auditStore := &mockAuditStore{}
	service := NewService(&mockStore{}, auditStore)
	_, err := service.Reject(context.Background(), "maria", testActor, "   ")
	require.Error(t, err)
	require.IsType(t, &cropline.ErrBadRequest{}, err)
	require.Empty(t, auditStore.Entries)
}

func TestServiceRejectRecordsReason(t *testing.T) {
	const reason = "registration details could not be verified"
	auditStore := &mockAuditStore{}
	service := NewService(
		&mockStore{
			RejectFn: func(
				_ context.Context,
				id, actor, reason string,
			) (cropline.User, error) {
				return cropline.User{
					ObjectMeta: cropline.ObjectMeta{
						ID: id,
					},
					Status: cropline.StatusInactive,
					Review: &cropline.Review{
						Outcome: cropline.ReviewOutcomeRejected,
						By:      actor,
						Reason:  reason,
					},
				}, nil
			},
		},
		auditStore,
	)
	user, err := service.Reject(context.Background(), "maria", testActor, reason)
	require.NoError(t, err)
	require.Equal(t, cropline.StatusInactive, user.Status)
	require.Equal(t, reason, user.Review.Reason)
	require.Len(t, auditStore.Entries, 1)
	require.Equal(t, reason, auditStore.Entries[0].Note)
}

func TestServiceUpdateRoleGuardsLastSuperadmin(t *testing.T) {
	// Two superadmins exist, but only one of them is active. Demoting the
	// active one must be refused even though a suspended superadmin remains.
	service := NewService(
		&mockStore{
			GetFn: func(
				_ context.Context,
				id string,
			) (cropline.User, error) {
				return cropline.User{
					ObjectMeta: cropline.ObjectMeta{
						ID: id,
					},
					Role:   cropline.RoleSuperadmin,
					Status: cropline.StatusActive,
				}, nil
			},
			CountFn: func(
				_ context.Context,
				selector cropline.UsersSelector,
			) (int64, error) {
				require.Equal(t, cropline.RoleSuperadmin, selector.Role)
				require.Equal(t, cropline.StatusActive, selector.Status)
				if selector.Status == cropline.StatusActive {
					return 1, nil
				}
				return 2, nil
			},
		},
		&mockAuditStore{},
	)
	_, err := service.UpdateRole(
		context.Background(),
		"maria",
		testActor,
		cropline.RoleAdmin,
	)
	require.Error(t, err)
	require.IsType(t, &cropline.ErrConflict{}, err)
}

func TestServiceUpdateRoleSuspendedSuperadmin(t *testing.T) {
	// Demoting a suspended superadmin does not shrink the pool of active
	// superadmins, so the guard does not apply.
	counted := false
	auditStore := &mockAuditStore{}
	service := NewService(
		&mockStore{
			GetFn: func(
				_ context.Context,
				id string,
			) (cropline.User, error) {
				return cropline.User{
					ObjectMeta: cropline.ObjectMeta{
						ID: id,
					},
					Role:   cropline.RoleSuperadmin,
					Status: cropline.StatusSuspended,
				}, nil
			},
			CountFn: func(
				context.Context,
				cropline.UsersSelector,
			) (int64, error) {
				counted = true
				return 0, nil
			},
			UpdateRoleFn: func(
				_ context.Context,
				id string,
				_ cropline.Role,
				to cropline.Role,
			) (cropline.User, error) {
				return cropline.User{
					ObjectMeta: cropline.ObjectMeta{
						ID: id,
					},
					Role:   to,
					Status: cropline.StatusSuspended,
				}, nil
			},
		},
		auditStore,
	)
	user, err := service.UpdateRole(
		context.Background(),
		"maria",
		testActor,
		cropline.RoleAdmin,
	)
	require.NoError(t, err)
	require.False(t, counted)
	require.Equal(t, cropline.RoleAdmin, user.Role)
	require.Len(t, auditStore.Entries, 1)
}

func TestServiceUpdateRoleNoChange(t *testing.T) {
	auditStore := &mockAuditStore{}
	service := NewService(
		&mockStore{
			GetFn: func(
				_ context.Context,
				id string,
			) (cropline.User, error) {
				return cropline.User{
					ObjectMeta: cropline.ObjectMeta{
						ID: id,
					},
					Role: cropline.RoleAdmin,
				}, nil
			},
		},
		auditStore,
	)
	user, err := service.UpdateRole(
		context.Background(),
		"maria",
		testActor,
		cropline.RoleAdmin,
	)
	require.NoError(t, err)
	require.Equal(t, cropline.RoleAdmin, user.Role)
	// Assigning a user the role they already have is a no-op
	require.Empty(t, auditStore.Entries)
}

func TestServiceDelete(t *testing.T) {
	testCases := []struct {
		name       string
		deleteFn   func(context.Context, string) (bool, error)
		assertions func(*testing.T, *mockAuditStore, error)
	}{
		{
			name: "user not found",
			deleteFn: func(_ context.Context, id string) (bool, error) {
				return false, &cropline.ErrNotFound{
					Type: "User",
					ID:   id,
				}
			},
			assertions: func(t *testing.T, auditStore *mockAuditStore, err error) { // nolint: lll
				require.Error(t, err)
				require.Empty(t, auditStore.Entries)
			},
		},
		{
			name: "user already deleted",
			deleteFn: func(_ context.Context, _ string) (bool, error) {
				return false, nil
			},
			assertions: func(t *testing.T, auditStore *mockAuditStore, err error) { // nolint: lll
				require.NoError(t, err)
				// A redundant delete leaves no new trace
				require.Empty(t, auditStore.Entries)
			},
		},
		{
			name: "user deleted",
			deleteFn: func(_ context.Context, _ string) (bool, error) {
				return true, nil
			},
			assertions: func(t *testing.T, auditStore *mockAuditStore, err error) { // nolint: lll
				require.NoError(t, err)
				require.Len(t, auditStore.Entries, 1)
				require.Equal(t, "delete", auditStore.Entries[0].Action)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			auditStore := &mockAuditStore{}
			service := NewService(
				&mockStore{
					DeleteFn: testCase.deleteFn,
				},
				auditStore,
			)
			err := service.Delete(context.Background(), "maria", testActor)
			testCase.assertions(t, auditStore, err)
		})
	}
}

func TestServiceBulkApprove(t *testing.T) {
	auditStore := &mockAuditStore{}
	service := NewService(
		&mockStore{
			ApproveFn: func(
				_ context.Context,
				id, _ string,
			) (cropline.User, error) {
				switch id {
				case "ghost":
					return cropline.User{}, &cropline.ErrNotFound{
						Type: "User",
						ID:   id,
					}
				case "already-active":
					return cropline.User{}, &cropline.ErrConflict{
						Type: "User",
						ID:   id,
						Reason: `User "already-active" has status "active" ` +
							`and cannot be approved.`,
					}
				}
				return cropline.User{
					ObjectMeta: cropline.ObjectMeta{
						ID: id,
					},
					Status: cropline.StatusActive,
				}, nil
			},
		},
		auditStore,
	)
	result, err := service.BulkApprove(
		context.Background(),
		[]string{"maria", "ghost", "nikos", "already-active"},
		testActor,
	)
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 2)
	require.Equal(t, "maria", result.Succeeded[0].ID)
	require.Equal(t, "nikos", result.Succeeded[1].ID)
	require.Len(t, result.Failed, 2)
	require.Equal(t, "ghost", result.Failed[0].ID)
	require.Equal(t, "NotFoundError", result.Failed[0].Kind)
	require.Equal(t, "already-active", result.Failed[1].ID)
	require.Equal(t, "ConflictError", result.Failed[1].Kind)
	// Only the successes left an audit trail
	require.Len(t, auditStore.Entries, 2)
}

func TestServiceAuditUnknownUser(t *testing.T) {
	service := NewService(
		&mockStore{
			GetFn: func(
				_ context.Context,
				id string,
			) (cropline.User, error) {
				return cropline.User{}, &cropline.ErrNotFound{
					Type: "User",
					ID:   id,
				}
			},
		},
		&mockAuditStore{},
	)
	_, err := service.Audit(context.Background(), "ghost")
	require.Error(t, err)
}

func TestServiceStatistics(t *testing.T) {
	service := NewService(
		&mockStore{
			StatisticsFn: func(
				_ context.Context,
			) (cropline.UserStatistics, error) {
				return cropline.UserStatistics{
					TotalUsers: 42,
					UsersByRole: map[cropline.Role]int64{
						cropline.RoleFarmer: 40,
						cropline.RoleAdmin:  2,
					},
					UsersByStatus: map[cropline.Status]int64{
						cropline.StatusActive:  41,
						cropline.StatusPending: 1,
					},
					ActiveCount:  41,
					PendingCount: 1,
				}, nil
			},
		},
		&mockAuditStore{},
	)
	stats, err := service.Statistics(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), stats.TotalUsers)
	require.Equal(t, int64(41), stats.ActiveCount)
}
