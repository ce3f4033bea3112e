package cropline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient(
		testAPIAddress,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	require.IsType(t, &usersClient{}, client.Users())
}

func TestNewUsersClient(t *testing.T) {
	client := NewUsersClient(
		testAPIAddress,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	require.IsType(t, &usersClient{}, client)
	require.Equal(t, testAPIAddress, client.(*usersClient).apiAddress)
	require.Equal(t, testAPIToken, client.(*usersClient).apiToken)
	require.Equal(t, testActor, client.(*usersClient).actor)
}

func TestUsersClientCreate(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/users", r.URL.Path)
				require.Equal(t, testActor, r.Header.Get(ActorHeader))
				w.WriteHeader(http.StatusCreated)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Create(context.Background(), User{})
	require.NoError(t, err)
}

func TestUsersClientList(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v2/users", r.URL.Path)
				require.Equal(t, "pending", r.URL.Query().Get("status"))
				require.Equal(t, "2", r.URL.Query().Get("page"))
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.List(
		context.Background(),
		UsersSelector{
			Status: StatusPending,
		},
		ListOptions{
			Page: 2,
		},
	)
	require.NoError(t, err)
}

func TestUsersClientGet(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s", testUserID),
					r.URL.Path,
				)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Get(context.Background(), testUserID)
	require.NoError(t, err)
}

func TestUsersClientApprove(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPut, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s/approval", testUserID),
					r.URL.Path,
				)
				require.Equal(t, testActor, r.Header.Get(ActorHeader))
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Approve(context.Background(), testUserID)
	require.NoError(t, err)
}

func TestUsersClientReject(t *testing.T) {
	const testReason = "registration details could not be verified"
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPut, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s/rejection", testUserID),
					r.URL.Path,
				)
				rejection := UserRejection{}
				err := json.NewDecoder(r.Body).Decode(&rejection)
				require.NoError(t, err)
				require.Equal(t, testReason, rejection.Reason)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Reject(context.Background(), testUserID, testReason)
	require.NoError(t, err)
}

func TestUsersClientSuspend(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPut, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s/suspension", testUserID),
					r.URL.Path,
				)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Suspend(context.Background(), testUserID)
	require.NoError(t, err)
}

func TestUsersClientReactivate(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPut, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s/reactivation", testUserID),
					r.URL.Path,
				)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Reactivate(context.Background(), testUserID)
	require.NoError(t, err)
}

func TestUsersClientUpdateRole(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPut, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s/role", testUserID),
					r.URL.Path,
				)
				roleChange := UserRoleChange{}
				err := json.NewDecoder(r.Body).Decode(&roleChange)
				require.NoError(t, err)
				require.Equal(t, RoleAdvisor, roleChange.Role)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.UpdateRole(context.Background(), testUserID, RoleAdvisor)
	require.NoError(t, err)
}

func TestUsersClientDelete(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodDelete, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s", testUserID),
					r.URL.Path,
				)
				w.WriteHeader(http.StatusOK)
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	err := client.Delete(context.Background(), testUserID)
	require.NoError(t, err)
}

func TestUsersClientBulkApprove(t *testing.T) {
	testIDs := []string{"maria", "nikos"}
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodPost, r.Method)
				require.Equal(t, "/v2/users/approvals", r.URL.Path)
				bulkApproval := UserBulkApproval{}
				err := json.NewDecoder(r.Body).Decode(&bulkApproval)
				require.NoError(t, err)
				require.Equal(t, testIDs, bulkApproval.IDs)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.BulkApprove(context.Background(), testIDs)
	require.NoError(t, err)
}

func TestUsersClientStatistics(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v2/users/statistics", r.URL.Path)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Statistics(context.Background())
	require.NoError(t, err)
}

func TestUsersClientAudit(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(
					t,
					fmt.Sprintf("/v2/users/%s/audit", testUserID),
					r.URL.Path,
				)
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, "{}")
			},
		),
	)
	defer server.Close()
	client := NewUsersClient(
		server.URL,
		testAPIToken,
		testActor,
		testClientAllowInsecure,
	)
	_, err := client.Audit(context.Background(), testUserID)
	require.NoError(t, err)
}
