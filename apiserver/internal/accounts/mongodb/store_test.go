package mongodb

import (
	"testing"

	"github.com/cropline/cropline"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStatisticsFromFacet(t *testing.T) {
	// A facet from a small collection mentions only the roles and statuses
	// that actually occur. The merge still has to report every recognized
	// role and status.
	facet := statsFacet{
		Total: []facetTotal{
			{Count: 5},
		},
		ByRole: []roleFacetGroup{
			{ID: cropline.RoleFarmer, Count: 4},
			{ID: cropline.RoleSuperadmin, Count: 1},
		},
		ByStatus: []statusFacetGroup{
			{ID: cropline.StatusActive, Count: 3},
			{ID: cropline.StatusPending, Count: 2},
		},
	}
	stats := statisticsFromFacet(facet)
	require.Equal(t, int64(5), stats.TotalUsers)
	require.Len(t, stats.UsersByRole, len(cropline.Roles()))
	require.Len(t, stats.UsersByStatus, len(cropline.Statuses()))
	require.Equal(t, int64(4), stats.UsersByRole[cropline.RoleFarmer])
	require.Equal(t, int64(1), stats.UsersByRole[cropline.RoleSuperadmin])
	require.Equal(t, int64(0), stats.UsersByRole[cropline.RoleAdvisor])
	require.Equal(t, int64(0), stats.UsersByStatus[cropline.StatusSuspended])
	var byStatusTotal int64
	for _, count := range stats.UsersByStatus {
		byStatusTotal += count
	}
	require.Equal(t, stats.TotalUsers, byStatusTotal)
	require.Equal(t, int64(3), stats.ActiveCount)
	require.Equal(t, int64(2), stats.PendingCount)
}

func TestStatisticsFromFacetEmptyCollection(t *testing.T) {
	stats := statisticsFromFacet(statsFacet{})
	require.Equal(t, int64(0), stats.TotalUsers)
	require.Len(t, stats.UsersByRole, len(cropline.Roles()))
	require.Len(t, stats.UsersByStatus, len(cropline.Statuses()))
	for _, role := range cropline.Roles() {
		require.Equal(t, int64(0), stats.UsersByRole[role])
	}
	for _, status := range cropline.Statuses() {
		require.Equal(t, int64(0), stats.UsersByStatus[status])
	}
	require.Equal(t, int64(0), stats.ActiveCount)
	require.Equal(t, int64(0), stats.PendingCount)
}

func TestTransitionCriteria(t *testing.T) {
	// These criteria are the filters of conditional updates. Requiring the
	// current status in the filter is what makes concurrent conflicting
	// transitions resolve to a single winner.
	deletedCriteria := bson.M{"$exists": false}

	criteria := pendingUserCriteria("maria")
	require.Equal(t, "maria", criteria["id"])
	require.Equal(t, deletedCriteria, criteria["deleted"])
	require.Equal(t, cropline.StatusPending, criteria["status"])

	criteria = activeUserCriteria("maria")
	require.Equal(t, "maria", criteria["id"])
	require.Equal(t, deletedCriteria, criteria["deleted"])
	require.Equal(t, cropline.StatusActive, criteria["status"])

	criteria = reactivatableUserCriteria("maria")
	require.Equal(t, "maria", criteria["id"])
	require.Equal(t, deletedCriteria, criteria["deleted"])
	require.Equal(
		t,
		bson.M{
			"$in": []cropline.Status{
				cropline.StatusSuspended,
				cropline.StatusInactive,
			},
		},
		criteria["status"],
	)
}
