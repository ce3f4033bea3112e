package cropline

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strconv"
)

// ActorHeader is the name of the HTTP header that conveys the authenticated
// actor's identity. The external authentication layer (or a client acting on
// an administrator's behalf) sets it; the API server trusts it once the
// bearer token has been verified.
const ActorHeader = "X-Authenticated-Actor"

// UsersClient is the specialized client for managing Users with the Cropline
// API.
type UsersClient interface {
	// Create submits a new, externally registered user record in pending
	// status.
	Create(context.Context, User) (User, error)
	// List returns a page of Users matching the given selector.
	List(context.Context, UsersSelector, ListOptions) (UserList, error)
	// Get retrieves a single User specified by their identifier.
	Get(context.Context, string) (User, error)
	// Approve transitions a pending User to active status.
	Approve(context.Context, string) (User, error)
	// Reject transitions a pending User to inactive status, recording the
	// given reason.
	Reject(context.Context, string, string) (User, error)
	// Suspend transitions an active User to suspended status.
	Suspend(context.Context, string) (User, error)
	// Reactivate transitions a suspended or inactive User back to active
	// status.
	Reactivate(context.Context, string) (User, error)
	// UpdateRole assigns a User a new role.
	UpdateRole(context.Context, string, Role) (User, error)
	// Delete logically deletes a User. Deleting an already deleted User is a
	// no-op success.
	Delete(context.Context, string) error
	// BulkApprove approves many pending Users, reporting per-item outcomes.
	BulkApprove(context.Context, []string) (UserBulkApprovalResult, error)
	// Statistics returns aggregate counts over the live user population.
	Statistics(context.Context) (UserStatistics, error)
	// Audit returns the audit trail of a single User, most recent first.
	Audit(context.Context, string) (AuditEntryList, error)
}

type usersClient struct {
	*baseClient
	actor string
}

// NewUsersClient returns a specialized client for managing Users with the
// Cropline API.
func NewUsersClient(
	apiAddress string,
	apiToken string,
	actor string,
	allowInsecure bool,
) UsersClient {
	return &usersClient{
		baseClient: &baseClient{
			apiAddress: apiAddress,
			apiToken:   apiToken,
			httpClient: &http.Client{
				Transport: &http.Transport{
					TLSClientConfig: &tls.Config{
						InsecureSkipVerify: allowInsecure,
					},
				},
			},
		},
		actor: actor,
	}
}

func (u *usersClient) actorHeaders() map[string]string {
	return map[string]string{
		ActorHeader: u.actor,
	}
}

func (u *usersClient) Create(
	_ context.Context,
	user User,
) (User, error) {
	createdUser := User{}
	return createdUser, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodPost,
			path:        "v2/users",
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			reqBodyObj:  user,
			successCode: http.StatusCreated,
			respObj:     &createdUser,
		},
	)
}

func (u *usersClient) List(
	_ context.Context,
	selector UsersSelector,
	opts ListOptions,
) (UserList, error) {
	queryParams := map[string]string{}
	if selector.Search != "" {
		queryParams["search"] = selector.Search
	}
	if selector.Role != "" {
		queryParams["role"] = string(selector.Role)
	}
	if selector.Status != "" {
		queryParams["status"] = string(selector.Status)
	}
	if opts.Page != 0 {
		queryParams["page"] = strconv.FormatInt(opts.Page, 10)
	}
	if opts.Limit != 0 {
		queryParams["limit"] = strconv.FormatInt(opts.Limit, 10)
	}
	if opts.SortBy != "" {
		queryParams["sortBy"] = opts.SortBy
	}
	if opts.SortOrder != "" {
		queryParams["sortOrder"] = opts.SortOrder
	}
	userList := UserList{}
	return userList, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        "v2/users",
			queryParams: queryParams,
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
			respObj:     &userList,
		},
	)
}

func (u *usersClient) Get(_ context.Context, id string) (User, error) {
	user := User{}
	return user, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        fmt.Sprintf("v2/users/%s", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
			respObj:     &user,
		},
	)
}

func (u *usersClient) Approve(_ context.Context, id string) (User, error) {
	user := User{}
	return user, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodPut,
			path:        fmt.Sprintf("v2/users/%s/approval", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
			respObj:     &user,
		},
	)
}

func (u *usersClient) Reject(
	_ context.Context,
	id string,
	reason string,
) (User, error) {
	user := User{}
	return user, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodPut,
			path:        fmt.Sprintf("v2/users/%s/rejection", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			reqBodyObj: UserRejection{
				Reason: reason,
			},
			successCode: http.StatusOK,
			respObj:     &user,
		},
	)
}

func (u *usersClient) Suspend(_ context.Context, id string) (User, error) {
	user := User{}
	return user, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodPut,
			path:        fmt.Sprintf("v2/users/%s/suspension", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
			respObj:     &user,
		},
	)
}

func (u *usersClient) Reactivate(_ context.Context, id string) (User, error) {
	user := User{}
	return user, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodPut,
			path:        fmt.Sprintf("v2/users/%s/reactivation", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
			respObj:     &user,
		},
	)
}

func (u *usersClient) UpdateRole(
	_ context.Context,
	id string,
	role Role,
) (User, error) {
	user := User{}
	return user, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodPut,
			path:        fmt.Sprintf("v2/users/%s/role", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			reqBodyObj: UserRoleChange{
				Role: role,
			},
			successCode: http.StatusOK,
			respObj:     &user,
		},
	)
}

func (u *usersClient) Delete(_ context.Context, id string) error {
	return u.executeAPIRequest(
		apiRequest{
			method:      http.MethodDelete,
			path:        fmt.Sprintf("v2/users/%s", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
		},
	)
}

func (u *usersClient) BulkApprove(
	_ context.Context,
	ids []string,
) (UserBulkApprovalResult, error) {
	result := UserBulkApprovalResult{}
	return result, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodPost,
			path:        "v2/users/approvals",
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			reqBodyObj: UserBulkApproval{
				IDs: ids,
			},
			successCode: http.StatusOK,
			respObj:     &result,
		},
	)
}

func (u *usersClient) Statistics(
	_ context.Context,
) (UserStatistics, error) {
	stats := UserStatistics{}
	return stats, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        "v2/users/statistics",
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
			respObj:     &stats,
		},
	)
}

func (u *usersClient) Audit(
	_ context.Context,
	id string,
) (AuditEntryList, error) {
	entries := AuditEntryList{}
	return entries, u.executeAPIRequest(
		apiRequest{
			method:      http.MethodGet,
			path:        fmt.Sprintf("v2/users/%s/audit", id),
			authHeaders: u.bearerTokenAuthHeaders(),
			headers:     u.actorHeaders(),
			successCode: http.StatusOK,
			respObj:     &entries,
		},
	)
}
