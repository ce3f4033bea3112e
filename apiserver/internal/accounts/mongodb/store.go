package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/cropline/cropline"
	"github.com/cropline/cropline/apiserver/internal/accounts"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const createIndexTimeout = 5 * time.Second

// sortFieldMappings maps whitelisted API sort field names onto stored
// document field names.
var sortFieldMappings = map[string]string{
	"createdAt": "created",
	"email":     "email",
	"lastName":  "lastName",
	"status":    "status",
	"role":      "role",
}

type store struct {
	collection *mongo.Collection
}

func NewStore(database *mongo.Database) (accounts.Store, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	unique := true
	collection := database.Collection("users")
	if _, err := collection.Indexes().CreateMany(
		ctx,
		[]mongo.IndexModel{
			{
				Keys: bson.M{
					"id": 1,
				},
				Options: &options.IndexOptions{
					Unique: &unique,
				},
			},
			// Email uniqueness applies only among live users. A deleted user's
			// email may be reused by a new registration.
			{
				Keys: bson.M{
					"email": 1,
				},
				Options: &options.IndexOptions{
					Unique: &unique,
					PartialFilterExpression: bson.M{
						"deleted": bson.M{
							"$exists": false,
						},
					},
				},
			},
			// This facilitates sorting by user creation date/time
			{
				Keys: bson.M{
					"created": -1,
				},
			},
			// These facilitate quickly selecting users by status or role
			{
				Keys: bson.M{
					"status": 1,
				},
			},
			{
				Keys: bson.M{
					"role": 1,
				},
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to users collection")
	}
	return &store{
		collection: collection,
	}, nil
}

func (s *store) Create(ctx context.Context, user cropline.User) error {
	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if writeException, ok := err.(mongo.WriteException); ok {
			if len(writeException.WriteErrors) == 1 &&
				writeException.WriteErrors[0].Code == 11000 {
				return &cropline.ErrConflict{
					Type: "User",
					ID:   user.ID,
					Reason: fmt.Sprintf(
						"A user with the ID %q or email %q already exists.",
						user.ID,
						user.Email,
					),
				}
			}
		}
		return storeErr(err, fmt.Sprintf("error inserting new user %q", user.ID))
	}
	return nil
}

func (s *store) Count(
	ctx context.Context,
	selector cropline.UsersSelector,
) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, criteriaFromSelector(selector))
	if err != nil {
		return 0, storeErr(err, "error counting users")
	}
	return count, nil
}

func (s *store) List(
	ctx context.Context,
	selector cropline.UsersSelector,
	opts cropline.ListOptions,
) (cropline.UserList, error) {
	users := cropline.UserList{}

	criteria := criteriaFromSelector(selector)

	total, err := s.collection.CountDocuments(ctx, criteria)
	if err != nil {
		return users, storeErr(err, "error counting users")
	}

	sortField, ok := sortFieldMappings[opts.SortBy]
	if !ok {
		sortField = "created"
	}
	order := -1
	if opts.SortOrder == cropline.SortAscending {
		order = 1
	}

	findOptions := options.Find()
	// A secondary sort on id keeps page boundaries stable when the primary
	// sort field isn't unique.
	findOptions.SetSort(bson.D{{Key: sortField, Value: order}, {Key: "id", Value: 1}}) // nolint: lll
	findOptions.SetSkip((opts.Page - 1) * opts.Limit)
	findOptions.SetLimit(opts.Limit)
	cur, err := s.collection.Find(ctx, criteria, findOptions)
	if err != nil {
		return users, storeErr(err, "error finding users")
	}
	if err := cur.All(ctx, &users.Items); err != nil {
		return users, errors.Wrap(err, "error decoding users")
	}

	users.Page = opts.Page
	users.Limit = opts.Limit
	users.TotalCount = total
	users.TotalPages = (total + opts.Limit - 1) / opts.Limit

	return users, nil
}

func (s *store) Get(
	ctx context.Context,
	id string,
) (cropline.User, error) {
	user := cropline.User{}
	res := s.collection.FindOne(ctx, liveUserCriteria(id))
	if res.Err() == mongo.ErrNoDocuments {
		return user, &cropline.ErrNotFound{
			Type: "User",
			ID:   id,
		}
	}
	if res.Err() != nil {
		return user, storeErr(res.Err(), fmt.Sprintf("error finding user %q", id))
	}
	if err := res.Decode(&user); err != nil {
		return user, errors.Wrapf(err, "error decoding user %q", id)
	}
	return user, nil
}

func (s *store) Approve(
	ctx context.Context,
	id, actor string,
) (cropline.User, error) {
	now := time.Now()
	return s.transition(
		ctx,
		id,
		pendingUserCriteria(id),
		bson.M{
			"$set": bson.M{
				"status":      cropline.StatusActive,
				"lastUpdated": now,
				"review": cropline.Review{
					Outcome: cropline.ReviewOutcomeApproved,
					By:      actor,
					At:      &now,
				},
			},
		},
		"approved",
	)
}

func (s *store) Reject(
	ctx context.Context,
	id, actor, reason string,
) (cropline.User, error) {
	now := time.Now()
	return s.transition(
		ctx,
		id,
		pendingUserCriteria(id),
		bson.M{
			"$set": bson.M{
				"status":      cropline.StatusInactive,
				"lastUpdated": now,
				"review": cropline.Review{
					Outcome: cropline.ReviewOutcomeRejected,
					By:      actor,
					At:      &now,
					Reason:  reason,
				},
			},
		},
		"rejected",
	)
}

func (s *store) Suspend(
	ctx context.Context,
	id string,
) (cropline.User, error) {
	return s.transition(
		ctx,
		id,
		activeUserCriteria(id),
		bson.M{
			"$set": bson.M{
				"status":      cropline.StatusSuspended,
				"lastUpdated": time.Now(),
			},
		},
		"suspended",
	)
}

func (s *store) Reactivate(
	ctx context.Context,
	id string,
) (cropline.User, error) {
	return s.transition(
		ctx,
		id,
		reactivatableUserCriteria(id),
		bson.M{
			"$set": bson.M{
				"status":      cropline.StatusActive,
				"lastUpdated": time.Now(),
			},
		},
		"reactivated",
	)
}

func (s *store) UpdateRole(
	ctx context.Context,
	id string,
	from cropline.Role,
	to cropline.Role,
) (cropline.User, error) {
	criteria := liveUserCriteria(id)
	criteria["role"] = from
	user, err := s.findOneAndUpdate(
		ctx,
		id,
		criteria,
		bson.M{
			"$set": bson.M{
				"role":        to,
				"lastUpdated": time.Now(),
			},
		},
	)
	if err == mongo.ErrNoDocuments {
		// Either the user doesn't exist or their role changed underneath the
		// caller. Distinguish the two.
		current, getErr := s.Get(ctx, id)
		if getErr != nil {
			return user, getErr
		}
		return user, &cropline.ErrConflict{
			Type: "User",
			ID:   id,
			Reason: fmt.Sprintf(
				"User %q no longer has role %q; their role is now %q.",
				id,
				from,
				current.Role,
			),
		}
	}
	if err != nil {
		return user,
			storeErr(err, fmt.Sprintf("error updating role of user %q", id))
	}
	return user, nil
}

func (s *store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.collection.UpdateOne(
		ctx,
		liveUserCriteria(id),
		bson.M{
			"$set": bson.M{
				"deleted":     time.Now(),
				"lastUpdated": time.Now(),
			},
		},
	)
	if err != nil {
		return false, storeErr(err, fmt.Sprintf("error deleting user %q", id))
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	// Nothing matched. If a record exists at all, the user was already
	// deleted; otherwise they never existed.
	count, err := s.collection.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return false, storeErr(err, fmt.Sprintf("error finding user %q", id))
	}
	if count == 0 {
		return false, &cropline.ErrNotFound{
			Type: "User",
			ID:   id,
		}
	}
	return false, nil
}

// statsFacet receives the output of the statistics aggregation. Each facet is
// a slice because that is how $facet shapes its results; total holds at most
// one element.
type statsFacet struct {
	Total    []facetTotal       `bson:"total"`
	ByRole   []roleFacetGroup   `bson:"byRole"`
	ByStatus []statusFacetGroup `bson:"byStatus"`
}

type facetTotal struct {
	Count int64 `bson:"count"`
}

type roleFacetGroup struct {
	ID    cropline.Role `bson:"_id"`
	Count int64         `bson:"count"`
}

type statusFacetGroup struct {
	ID    cropline.Status `bson:"_id"`
	Count int64           `bson:"count"`
}

// statisticsFromFacet lays the facet's groups over zero counts for every
// recognized role and status, so roles and statuses with no users still appear
// in the result.
func statisticsFromFacet(facet statsFacet) cropline.UserStatistics {
	stats := cropline.UserStatistics{
		UsersByRole:   map[cropline.Role]int64{},
		UsersByStatus: map[cropline.Status]int64{},
	}
	for _, role := range cropline.Roles() {
		stats.UsersByRole[role] = 0
	}
	for _, status := range cropline.Statuses() {
		stats.UsersByStatus[status] = 0
	}
	if len(facet.Total) > 0 {
		stats.TotalUsers = facet.Total[0].Count
	}
	for _, group := range facet.ByRole {
		stats.UsersByRole[group.ID] = group.Count
	}
	for _, group := range facet.ByStatus {
		stats.UsersByStatus[group.ID] = group.Count
	}
	stats.ActiveCount = stats.UsersByStatus[cropline.StatusActive]
	stats.PendingCount = stats.UsersByStatus[cropline.StatusPending]
	return stats
}

func (s *store) Statistics(
	ctx context.Context,
) (cropline.UserStatistics, error) {
	// A single aggregation computes all the counts so they reflect one
	// consistent snapshot of the collection.
	cur, err := s.collection.Aggregate(
		ctx,
		mongo.Pipeline{
			{
				{Key: "$match", Value: bson.M{
					"deleted": bson.M{
						"$exists": false,
					},
				}},
			},
			{
				{Key: "$facet", Value: bson.M{
					"total": bson.A{
						bson.M{"$count": "count"},
					},
					"byRole": bson.A{
						bson.M{"$group": bson.M{
							"_id":   "$role",
							"count": bson.M{"$sum": 1},
						}},
					},
					"byStatus": bson.A{
						bson.M{"$group": bson.M{
							"_id":   "$status",
							"count": bson.M{"$sum": 1},
						}},
					},
				}},
			},
		},
	)
	if err != nil {
		return statisticsFromFacet(statsFacet{}),
			storeErr(err, "error aggregating user statistics")
	}
	results := []statsFacet{}
	if err := cur.All(ctx, &results); err != nil {
		return statisticsFromFacet(statsFacet{}),
			errors.Wrap(err, "error decoding user statistics")
	}
	if len(results) == 0 {
		return statisticsFromFacet(statsFacet{}), nil
	}
	return statisticsFromFacet(results[0]), nil
}

// transition executes a conditional status change and, when nothing matched,
// discriminates not-found from wrong-current-status.
func (s *store) transition(
	ctx context.Context,
	id string,
	criteria bson.M,
	update bson.M,
	pastTense string,
) (cropline.User, error) {
	user, err := s.findOneAndUpdate(ctx, id, criteria, update)
	if err == mongo.ErrNoDocuments {
		current, getErr := s.Get(ctx, id)
		if getErr != nil {
			return user, getErr
		}
		return user, &cropline.ErrConflict{
			Type: "User",
			ID:   id,
			Reason: fmt.Sprintf(
				"User %q has status %q and cannot be %s.",
				id,
				current.Status,
				pastTense,
			),
		}
	}
	if err != nil {
		return user, storeErr(err, fmt.Sprintf("error updating user %q", id))
	}
	return user, nil
}

func (s *store) findOneAndUpdate(
	ctx context.Context,
	id string,
	criteria bson.M,
	update bson.M,
) (cropline.User, error) {
	user := cropline.User{}
	after := options.After
	res := s.collection.FindOneAndUpdate(
		ctx,
		criteria,
		update,
		&options.FindOneAndUpdateOptions{
			ReturnDocument: &after,
		},
	)
	if res.Err() != nil {
		return user, res.Err()
	}
	if err := res.Decode(&user); err != nil {
		return user, errors.Wrapf(err, "error decoding user %q", id)
	}
	return user, nil
}

func liveUserCriteria(id string) bson.M {
	return bson.M{
		"id": id,
		"deleted": bson.M{
			"$exists": false, // Don't grab logically deleted users
		},
	}
}

// pendingUserCriteria matches a live user still awaiting review. As the filter
// of a conditional update it guarantees at most one concurrent reviewer's
// decision takes effect.
func pendingUserCriteria(id string) bson.M {
	criteria := liveUserCriteria(id)
	criteria["status"] = cropline.StatusPending
	return criteria
}

func activeUserCriteria(id string) bson.M {
	criteria := liveUserCriteria(id)
	criteria["status"] = cropline.StatusActive
	return criteria
}

// reactivatableUserCriteria matches a live user who is either suspended or
// inactive.
func reactivatableUserCriteria(id string) bson.M {
	criteria := liveUserCriteria(id)
	criteria["status"] = bson.M{
		"$in": []cropline.Status{
			cropline.StatusSuspended,
			cropline.StatusInactive,
		},
	}
	return criteria
}

func criteriaFromSelector(selector cropline.UsersSelector) bson.M {
	criteria := bson.M{
		"deleted": bson.M{
			"$exists": false, // Don't grab logically deleted users
		},
	}
	if selector.Role != "" {
		criteria["role"] = selector.Role
	}
	if selector.Status != "" {
		criteria["status"] = selector.Status
	}
	if selector.Search != "" {
		search := primitive.Regex{
			Pattern: regexp.QuoteMeta(selector.Search),
			Options: "i",
		}
		criteria["$or"] = bson.A{
			bson.M{"firstName": search},
			bson.M{"lastName": search},
			bson.M{"email": search},
		}
	}
	return criteria
}

// storeErr distinguishes a store that answered from a store that could not be
// reached. Command errors labeled as network errors and context deadline
// expirations surface as availability problems; anything else is wrapped
// as-is.
func storeErr(err error, message string) error {
	if err == context.DeadlineExceeded ||
		errors.Cause(err) == context.DeadlineExceeded {
		return &cropline.ErrStoreUnavailable{
			Reason: "the data store did not respond in time",
		}
	}
	if commandErr, ok := errors.Cause(err).(mongo.CommandError); ok &&
		commandErr.HasErrorLabel("NetworkError") {
		return &cropline.ErrStoreUnavailable{
			Reason: "the data store could not be reached",
		}
	}
	return errors.Wrap(err, message)
}
