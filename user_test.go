package cropline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUserMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(t, User{}, "User")
}

func TestUserListMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(t, UserList{}, "UserList")
}

func TestUserStatisticsMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(t, UserStatistics{}, "UserStatistics")
}

func TestUserBulkApprovalResultMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(
		t,
		UserBulkApprovalResult{},
		"UserBulkApprovalResult",
	)
}

func TestAuditEntryMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(t, AuditEntry{}, "AuditEntry")
}

func TestAuditEntryListMarshalJSON(t *testing.T) {
	requireAPIVersionAndType(t, AuditEntryList{}, "AuditEntryList")
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range Roles() {
		require.True(t, RoleIsValid(role))
	}
	require.False(t, RoleIsValid("overlord"))
	require.False(t, RoleIsValid(""))
}

func TestStatusIsValid(t *testing.T) {
	for _, status := range Statuses() {
		require.True(t, StatusIsValid(status))
	}
	require.False(t, StatusIsValid("vaporized"))
	require.False(t, StatusIsValid(""))
}

func TestUserMarshalJSONOmitsStrippedCredentials(t *testing.T) {
	user := User{
		Email:       "maria@example.com",
		Credentials: nil,
	}
	userJSON, err := json.Marshal(user)
	require.NoError(t, err)
	require.NotContains(t, string(userJSON), "credentials")
}
