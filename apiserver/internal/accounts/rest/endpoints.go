package rest

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cropline/cropline"
	"github.com/cropline/cropline/apiserver/internal/accounts"
	"github.com/cropline/cropline/apiserver/internal/lib/restmachinery"
	"github.com/cropline/cropline/apiserver/internal/lib/restmachinery/authn"
	"github.com/gorilla/mux"
	"github.com/xeipuuv/gojsonschema"
)

// UsersEndpoints implements restmachinery.Endpoints to provide user
// management functionality via the API server.
type UsersEndpoints struct {
	*restmachinery.BaseEndpoints
	UserSchemaLoader             gojsonschema.JSONLoader
	UserRejectionSchemaLoader    gojsonschema.JSONLoader
	UserRoleChangeSchemaLoader   gojsonschema.JSONLoader
	UserBulkApprovalSchemaLoader gojsonschema.JSONLoader
	Service                      accounts.Service
}

func (u *UsersEndpoints) Register(router *mux.Router) {
	// Statically-pathed routes are registered ahead of parameterized ones so
	// that "statistics", "pending", and "approvals" are never mistaken for
	// user identifiers.

	// Get user statistics
	router.HandleFunc(
		"/v2/users/statistics",
		u.TokenAuthFilter.Decorate(u.statistics),
	).Methods(http.MethodGet)

	// List pending users
	router.HandleFunc(
		"/v2/users/pending",
		u.TokenAuthFilter.Decorate(u.listPending),
	).Methods(http.MethodGet)

	// Bulk approve users
	router.HandleFunc(
		"/v2/users/approvals",
		u.TokenAuthFilter.Decorate(u.bulkApprove),
	).Methods(http.MethodPost)

	// List users
	router.HandleFunc(
		"/v2/users",
		u.TokenAuthFilter.Decorate(u.list),
	).Methods(http.MethodGet)

	// Create user
	router.HandleFunc(
		"/v2/users",
		u.TokenAuthFilter.Decorate(u.create),
	).Methods(http.MethodPost)

	// Get user
	router.HandleFunc(
		"/v2/users/{id}",
		u.TokenAuthFilter.Decorate(u.get),
	).Methods(http.MethodGet)

	// Get user audit trail
	router.HandleFunc(
		"/v2/users/{id}/audit",
		u.TokenAuthFilter.Decorate(u.audit),
	).Methods(http.MethodGet)

	// Approve user
	router.HandleFunc(
		"/v2/users/{id}/approval",
		u.TokenAuthFilter.Decorate(u.approve),
	).Methods(http.MethodPut)

	// Reject user
	router.HandleFunc(
		"/v2/users/{id}/rejection",
		u.TokenAuthFilter.Decorate(u.reject),
	).Methods(http.MethodPut)

	// Suspend user
	router.HandleFunc(
		"/v2/users/{id}/suspension",
		u.TokenAuthFilter.Decorate(u.suspend),
	).Methods(http.MethodPut)

	// Reactivate user
	router.HandleFunc(
		"/v2/users/{id}/reactivation",
		u.TokenAuthFilter.Decorate(u.reactivate),
	).Methods(http.MethodPut)

	// Update user role
	router.HandleFunc(
		"/v2/users/{id}/role",
		u.TokenAuthFilter.Decorate(u.updateRole),
	).Methods(http.MethodPut)

	// Delete user
	router.HandleFunc(
		"/v2/users/{id}",
		u.TokenAuthFilter.Decorate(u.delete),
	).Methods(http.MethodDelete)
}

// listOptionsFromRequest extracts paging and sorting criteria from query
// parameters. Numeric parameters must parse as integers; out-of-range values
// are left for the service to clamp.
func (u *UsersEndpoints) listOptionsFromRequest(
	w http.ResponseWriter,
	r *http.Request,
) (cropline.ListOptions, bool) {
	opts := cropline.ListOptions{
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	}
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		if opts.Page, err = strconv.ParseInt(pageStr, 10, 64); err != nil {
			u.WriteAPIResponse(
				w,
				http.StatusBadRequest,
				cropline.NewErrBadRequest(
					fmt.Sprintf(`Invalid value %q for "page" query parameter`, pageStr),
				),
			)
			return opts, false
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		if opts.Limit, err = strconv.ParseInt(limitStr, 10, 64); err != nil {
			u.WriteAPIResponse(
				w,
				http.StatusBadRequest,
				cropline.NewErrBadRequest(
					fmt.Sprintf(`Invalid value %q for "limit" query parameter`, limitStr),
				),
			)
			return opts, false
		}
	}
	return opts, true
}

func (u *UsersEndpoints) list(w http.ResponseWriter, r *http.Request) {
	opts, ok := u.listOptionsFromRequest(w, r)
	if !ok {
		return
	}
	selector := cropline.UsersSelector{
		Search: r.URL.Query().Get("search"),
		Role:   cropline.Role(r.URL.Query().Get("role")),
		Status: cropline.Status(r.URL.Query().Get("status")),
	}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.List(r.Context(), selector, opts)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) listPending(w http.ResponseWriter, r *http.Request) {
	opts, ok := u.listOptionsFromRequest(w, r)
	if !ok {
		return
	}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.GetPending(r.Context(), opts)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) create(w http.ResponseWriter, r *http.Request) {
	user := cropline.User{}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: u.UserSchemaLoader,
			ReqBodyObj:          &user,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Create(r.Context(), user)
			},
			SuccessCode: http.StatusCreated,
		},
	)
}

func (u *UsersEndpoints) get(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Get(r.Context(), mux.Vars(r)["id"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) approve(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Approve(
					r.Context(),
					mux.Vars(r)["id"],
					authn.ActorFromContext(r.Context()),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) reject(w http.ResponseWriter, r *http.Request) {
	rejection := cropline.UserRejection{}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: u.UserRejectionSchemaLoader,
			ReqBodyObj:          &rejection,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Reject(
					r.Context(),
					mux.Vars(r)["id"],
					authn.ActorFromContext(r.Context()),
					rejection.Reason,
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) suspend(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Suspend(
					r.Context(),
					mux.Vars(r)["id"],
					authn.ActorFromContext(r.Context()),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) reactivate(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Reactivate(
					r.Context(),
					mux.Vars(r)["id"],
					authn.ActorFromContext(r.Context()),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) updateRole(w http.ResponseWriter, r *http.Request) {
	roleChange := cropline.UserRoleChange{}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: u.UserRoleChangeSchemaLoader,
			ReqBodyObj:          &roleChange,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.UpdateRole(
					r.Context(),
					mux.Vars(r)["id"],
					authn.ActorFromContext(r.Context()),
					roleChange.Role,
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) delete(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return nil, u.Service.Delete(
					r.Context(),
					mux.Vars(r)["id"],
					authn.ActorFromContext(r.Context()),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) bulkApprove(w http.ResponseWriter, r *http.Request) {
	bulkApproval := cropline.UserBulkApproval{}
	u.ServeRequest(
		restmachinery.InboundRequest{
			W:                   w,
			R:                   r,
			ReqBodySchemaLoader: u.UserBulkApprovalSchemaLoader,
			ReqBodyObj:          &bulkApproval,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.BulkApprove(
					r.Context(),
					bulkApproval.IDs,
					authn.ActorFromContext(r.Context()),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) statistics(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Statistics(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (u *UsersEndpoints) audit(w http.ResponseWriter, r *http.Request) {
	u.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return u.Service.Audit(r.Context(), mux.Vars(r)["id"])
			},
			SuccessCode: http.StatusOK,
		},
	)
}
