package cropline

import (
	"encoding/json"
	"time"
)

// Role represents a user's role within the platform.
type Role string

const (
	// RoleFarmer represents an ordinary platform user who manages farms.
	RoleFarmer Role = "farmer"
	// RoleAdmin represents a user with administrative access.
	RoleAdmin Role = "admin"
	// RoleViewer represents a user with read-only access.
	RoleViewer Role = "viewer"
	// RoleSuperadmin represents a user with unrestricted access, including
	// management of other administrators.
	RoleSuperadmin Role = "superadmin"
	// RoleAdvisor represents an agronomic advisor.
	RoleAdvisor Role = "advisor"
)

// Roles returns all recognized roles. The slice is freshly allocated on every
// call so callers may do with it as they please.
func Roles() []Role {
	return []Role{
		RoleFarmer,
		RoleAdmin,
		RoleViewer,
		RoleSuperadmin,
		RoleAdvisor,
	}
}

// RoleIsValid returns whether the given Role is a member of the closed set of
// recognized roles.
func RoleIsValid(role Role) bool {
	for _, r := range Roles() {
		if role == r {
			return true
		}
	}
	return false
}

// Status represents where a user currently is in the account lifecycle.
type Status string

const (
	// StatusPending represents a newly registered user awaiting review.
	StatusPending Status = "pending"
	// StatusActive represents an approved user in good standing.
	StatusActive Status = "active"
	// StatusInactive represents a user whose registration was rejected or whose
	// account was otherwise deactivated.
	StatusInactive Status = "inactive"
	// StatusSuspended represents an active user whose access has been
	// temporarily revoked.
	StatusSuspended Status = "suspended"
)

// Statuses returns all recognized statuses. The slice is freshly allocated on
// every call so callers may do with it as they please.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusActive,
		StatusInactive,
		StatusSuspended,
	}
}

// StatusIsValid returns whether the given Status is a member of the closed
// set of recognized statuses.
func StatusIsValid(status Status) bool {
	for _, s := range Statuses() {
		if status == s {
			return true
		}
	}
	return false
}

// ReviewOutcome disambiguates the two possible outcomes of reviewing a
// pending registration.
type ReviewOutcome string

const (
	// ReviewOutcomeApproved represents an approved registration.
	ReviewOutcomeApproved ReviewOutcome = "approved"
	// ReviewOutcomeRejected represents a rejected registration.
	ReviewOutcomeRejected ReviewOutcome = "rejected"
)

// Review records the outcome of reviewing a pending registration. A user
// carries at most one Review, so approval state and rejection state can never
// coexist on the same record.
type Review struct {
	// Outcome indicates whether the registration was approved or rejected.
	Outcome ReviewOutcome `json:"outcome" bson:"outcome"`
	// By identifies the administrator who reviewed the registration.
	By string `json:"by" bson:"by"`
	// At indicates when the registration was reviewed.
	At *time.Time `json:"at" bson:"at"`
	// Reason is the reviewer's explanation for a rejection. It is empty for
	// approvals.
	Reason string `json:"reason,omitempty" bson:"reason,omitempty"`
}

// UserCredentials encapsulates a user's secrets. These are issued and
// consumed by the external authentication layer; this system stores them on
// create and otherwise treats them as opaque. They are never serialized into
// API responses.
type UserCredentials struct {
	PasswordHash        string     `json:"passwordHash,omitempty" bson:"passwordHash,omitempty"`                 // nolint: lll
	VerificationToken   string     `json:"verificationToken,omitempty" bson:"verificationToken,omitempty"`       // nolint: lll
	RefreshTokens       []string   `json:"refreshTokens,omitempty" bson:"refreshTokens,omitempty"`               // nolint: lll
	PasswordResetToken  string     `json:"passwordResetToken,omitempty" bson:"passwordResetToken,omitempty"`     // nolint: lll
	PasswordResetExpiry *time.Time `json:"passwordResetExpiry,omitempty" bson:"passwordResetExpiry,omitempty"`   // nolint: lll
}

// User represents a platform user account.
type User struct {
	ObjectMeta `json:"metadata" bson:",inline"`
	// Email is the user's email address. It is unique among all live users and
	// is stored lowercase.
	Email string `json:"email" bson:"email"`
	// FirstName is the user's given name.
	FirstName string `json:"firstName,omitempty" bson:"firstName,omitempty"`
	// LastName is the user's family name.
	LastName string `json:"lastName,omitempty" bson:"lastName,omitempty"`
	// Phone is the user's phone number.
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
	// ProfilePicture is an opaque reference to the user's profile picture.
	ProfilePicture string `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"` // nolint: lll
	// Region identifies where the user farms or operates. Other subsystems use
	// this for geographic dispatch, so it is required.
	Region string `json:"region" bson:"region"`
	// Role is the user's role within the platform.
	Role Role `json:"role" bson:"role"`
	// Status is the user's current lifecycle status. It is mutated exclusively
	// through lifecycle operations.
	Status Status `json:"status" bson:"status"`
	// Review records the outcome of reviewing the user's registration, if it
	// has been reviewed.
	Review *Review `json:"review,omitempty" bson:"review,omitempty"`
	// LastLogin indicates when the user last authenticated.
	LastLogin *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	// WeatherInfoID is an opaque reference to the user's weather subscription,
	// which is owned by another subsystem.
	WeatherInfoID string `json:"weatherInfoId,omitempty" bson:"weatherInfoId,omitempty"` // nolint: lll
	// FarmIDs are opaque references to the user's farms, which are owned by
	// another subsystem.
	FarmIDs []string `json:"farmIds,omitempty" bson:"farmIds,omitempty"`
	// Deleted, when non-nil, indicates the time at which the user was logically
	// deleted. Deleted users are excluded from all default reads, but their
	// records persist.
	Deleted *time.Time `json:"deleted,omitempty" bson:"deleted,omitempty"`
	// Credentials are the user's secrets, passed through on create and redacted
	// from every response.
	Credentials *UserCredentials `json:"credentials,omitempty" bson:"credentials,omitempty"` // nolint: lll
}

// MarshalJSON amends User instances with type metadata.
func (u User) MarshalJSON() ([]byte, error) {
	type Alias User
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "User",
			},
			Alias: (Alias)(u),
		},
	)
}

// UsersSelector represents useful filter criteria when selecting multiple
// Users for API group operations like list.
type UsersSelector struct {
	// Search, when non-empty, selects only Users whose name or email matches
	// the given text, case-insensitively.
	Search string
	// Role, when non-empty, selects only Users having the given role.
	Role Role
	// Status, when non-empty, selects only Users having the given status.
	Status Status
}

// UserList is an ordered and pageable list of Users.
type UserList struct {
	// ListMeta contains list metadata.
	ListMeta `json:"metadata"`
	// Items is a slice of Users.
	Items []User `json:"items,omitempty"`
}

// MarshalJSON amends UserList instances with type metadata.
func (u UserList) MarshalJSON() ([]byte, error) {
	type Alias UserList
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "UserList",
			},
			Alias: (Alias)(u),
		},
	)
}

// UserRejection encapsulates the details of rejecting a pending registration.
type UserRejection struct {
	// Reason is the reviewer's explanation for the rejection.
	Reason string `json:"reason"`
}

// UserRoleChange encapsulates the details of assigning a user a new role.
type UserRoleChange struct {
	// Role is the role to assign.
	Role Role `json:"role"`
}

// UserStatistics represents aggregate counts over the live (non-deleted) user
// population.
type UserStatistics struct {
	// TotalUsers is the count of all live users.
	TotalUsers int64 `json:"totalUsers"`
	// UsersByRole maps every recognized role to a count of live users having
	// that role. All roles are present, even when their count is zero.
	UsersByRole map[Role]int64 `json:"usersByRole"`
	// UsersByStatus maps every recognized status to a count of live users
	// having that status. All statuses are present, even when their count is
	// zero.
	UsersByStatus map[Status]int64 `json:"usersByStatus"`
	// ActiveCount is the count of live users with active status.
	ActiveCount int64 `json:"activeCount"`
	// PendingCount is the count of live users with pending status.
	PendingCount int64 `json:"pendingCount"`
}

// MarshalJSON amends UserStatistics instances with type metadata.
func (u UserStatistics) MarshalJSON() ([]byte, error) {
	type Alias UserStatistics
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "UserStatistics",
			},
			Alias: (Alias)(u),
		},
	)
}

// UserBulkApproval encapsulates a request to approve many pending
// registrations at once.
type UserBulkApproval struct {
	// IDs are the identifiers of the users to approve, in the order they should
	// be processed.
	IDs []string `json:"ids"`
}

// BulkItemSuccess represents the successful outcome of one item of a bulk
// operation.
type BulkItemSuccess struct {
	// ID is the identifier of the user the item applied to.
	ID string `json:"id"`
	// User is the updated user record.
	User User `json:"user"`
}

// BulkItemFailure represents the failed outcome of one item of a bulk
// operation. Failures are reported, never thrown; one item's failure does not
// affect processing of the remaining items.
type BulkItemFailure struct {
	// ID is the identifier of the user the item applied to.
	ID string `json:"id"`
	// Kind names the kind of error encountered, e.g. "NotFoundError" or
	// "ConflictError".
	Kind string `json:"kind"`
	// Message is a natural language description of the failure.
	Message string `json:"message"`
}

// UserBulkApprovalResult represents the per-item outcomes of a bulk approval.
// Item ordering within each slice reflects input ordering.
type UserBulkApprovalResult struct {
	// Succeeded enumerates the items that were approved.
	Succeeded []BulkItemSuccess `json:"succeeded"`
	// Failed enumerates the items that could not be approved.
	Failed []BulkItemFailure `json:"failed"`
}

// MarshalJSON amends UserBulkApprovalResult instances with type metadata.
func (u UserBulkApprovalResult) MarshalJSON() ([]byte, error) {
	type Alias UserBulkApprovalResult
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "UserBulkApprovalResult",
			},
			Alias: (Alias)(u),
		},
	)
}

// AuditEntry records one lifecycle transition applied to a user. Every
// mutating lifecycle operation appends exactly one entry.
type AuditEntry struct {
	// ID is an immutable identifier for the entry.
	ID string `json:"id" bson:"id"`
	// UserID identifies the user the transition applied to.
	UserID string `json:"userId" bson:"userId"`
	// Actor identifies the administrator who performed the transition.
	Actor string `json:"actor" bson:"actor"`
	// Action names the transition, e.g. "approve" or "suspend".
	Action string `json:"action" bson:"action"`
	// From is the user's status before the transition.
	From Status `json:"from,omitempty" bson:"from,omitempty"`
	// To is the user's status after the transition.
	To Status `json:"to,omitempty" bson:"to,omitempty"`
	// Note carries any free-text detail, e.g. a rejection reason or a new role.
	Note string `json:"note,omitempty" bson:"note,omitempty"`
	// Created indicates when the transition occurred.
	Created *time.Time `json:"created" bson:"created"`
}

// MarshalJSON amends AuditEntry instances with type metadata.
func (a AuditEntry) MarshalJSON() ([]byte, error) {
	type Alias AuditEntry
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "AuditEntry",
			},
			Alias: (Alias)(a),
		},
	)
}

// AuditEntryList is an ordered list of AuditEntries.
type AuditEntryList struct {
	// Items is a slice of AuditEntries, most recent first.
	Items []AuditEntry `json:"items,omitempty"`
}

// MarshalJSON amends AuditEntryList instances with type metadata.
func (a AuditEntryList) MarshalJSON() ([]byte, error) {
	type Alias AuditEntryList
	return json.Marshal(
		struct {
			TypeMeta `json:",inline"`
			Alias    `json:",inline"`
		}{
			TypeMeta: TypeMeta{
				APIVersion: APIVersion,
				Kind:       "AuditEntryList",
			},
			Alias: (Alias)(a),
		},
	)
}
