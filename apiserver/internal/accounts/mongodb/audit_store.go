package mongodb

import (
	"context"
	"fmt"

	"github.com/cropline/cropline"
	"github.com/cropline/cropline/apiserver/internal/accounts"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type auditStore struct {
	collection *mongo.Collection
}

func NewAuditStore(database *mongo.Database) (accounts.AuditStore, error) {
	ctx, cancel :=
		context.WithTimeout(context.Background(), createIndexTimeout)
	defer cancel()
	collection := database.Collection("audit")
	// This facilitates quickly selecting all entries for a given user in
	// reverse chronological order
	if _, err := collection.Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "created", Value: -1},
			},
		},
	); err != nil {
		return nil, errors.Wrap(err, "error adding indexes to audit collection")
	}
	return &auditStore{
		collection: collection,
	}, nil
}

func (a *auditStore) Create(
	ctx context.Context,
	entry cropline.AuditEntry,
) error {
	if _, err := a.collection.InsertOne(ctx, entry); err != nil {
		return storeErr(
			err,
			fmt.Sprintf("error inserting new audit entry %q", entry.ID),
		)
	}
	return nil
}

func (a *auditStore) ListByUser(
	ctx context.Context,
	userID string,
) (cropline.AuditEntryList, error) {
	entries := cropline.AuditEntryList{}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created": -1})
	cur, err := a.collection.Find(
		ctx,
		bson.M{
			"userId": userID,
		},
		findOptions,
	)
	if err != nil {
		return entries,
			storeErr(err, fmt.Sprintf("error finding audit entries for user %q", userID)) // nolint: lll
	}
	if err := cur.All(ctx, &entries.Items); err != nil {
		return entries, errors.Wrap(err, "error decoding audit entries")
	}
	return entries, nil
}
