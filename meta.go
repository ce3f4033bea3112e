package cropline

import "time"

// APIVersion represents the API and major version thereof with which this
// version of the Cropline client and server are compatible.
const APIVersion = "github.com/cropline/cropline/v2"

// TypeMeta represents metadata about a resource type to help clients and
// servers mutually head off potential confusion over types (and versions
// thereof) sent over the wire.
type TypeMeta struct {
	// Kind specifies the type of a serialized resource.
	Kind string `json:"kind,omitempty"`
	// APIVersion specifies the major version of the Cropline API with which the
	// client or server having serialized the resource is compatible.
	APIVersion string `json:"apiVersion,omitempty"`
}

// ObjectMeta represents metadata about an instance of a resource. The fields
// of this type are broadly applicable to most if not all resource types.
type ObjectMeta struct {
	// ID is an immutable resource identifier.
	ID string `json:"id" bson:"id"`
	// Created indicates the time at which a resource was created. This is
	// recorded by the system. Clients must leave the value of this field set to
	// nil when using the API to create resources.
	Created *time.Time `json:"created,omitempty" bson:"created"`
	// LastUpdated indicates the time at which a resource was last updated. This
	// is recorded by the system on every mutation.
	LastUpdated *time.Time `json:"lastUpdated,omitempty" bson:"lastUpdated"`
}

const (
	// SortAscending requests results in ascending order of the sort field.
	SortAscending = "asc"
	// SortDescending requests results in descending order of the sort field.
	SortDescending = "desc"
)

// ListOptions represents useful criteria for retrieving paged results from
// API group operations like list. Out-of-range values are clamped rather
// than rejected.
type ListOptions struct {
	// Page is the (1-indexed) page of results to retrieve.
	Page int64
	// Limit is the maximum number of items to retrieve per page.
	Limit int64
	// SortBy names the field to order results by. Only a whitelisted set of
	// fields is honored; anything else falls back to creation time.
	SortBy string
	// SortOrder is either SortAscending or SortDescending.
	SortOrder string
}

// ListMeta is metadata for ordered, pageable collections of resources.
type ListMeta struct {
	// Page is the (1-indexed) page of results contained in the list.
	Page int64 `json:"page"`
	// Limit is the maximum number of items per page.
	Limit int64 `json:"limit"`
	// TotalCount is the total number of items matching the query across all
	// pages.
	TotalCount int64 `json:"totalCount"`
	// TotalPages is the total number of pages of results.
	TotalPages int64 `json:"totalPages"`
}
