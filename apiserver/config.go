package main

import (
	"github.com/cropline/cropline/apiserver/internal/accounts"
	accountsMongodb "github.com/cropline/cropline/apiserver/internal/accounts/mongodb"
	accountsREST "github.com/cropline/cropline/apiserver/internal/accounts/rest"
	"github.com/cropline/cropline/apiserver/internal/lib/mongodb"
	"github.com/cropline/cropline/apiserver/internal/lib/restmachinery"
	"github.com/cropline/cropline/apiserver/internal/lib/restmachinery/authn"
	"github.com/xeipuuv/gojsonschema"
)

func getAPIServerFromEnvironment() (restmachinery.Server, error) {

	// API server config
	apiConfig, err := restmachinery.GetConfigFromEnvironment()
	if err != nil {
		return nil, err
	}

	// Common
	database, err := mongodb.Database()
	if err != nil {
		return nil, err
	}

	// Users
	usersStore, err := accountsMongodb.NewStore(database)
	if err != nil {
		return nil, err
	}
	auditStore, err := accountsMongodb.NewAuditStore(database)
	if err != nil {
		return nil, err
	}
	usersService := accounts.NewService(usersStore, auditStore)

	baseEndpoints := &restmachinery.BaseEndpoints{
		TokenAuthFilter: authn.NewTokenAuthFilter(
			apiConfig.HashedGatewayToken(),
		),
	}

	return restmachinery.NewServer(
		apiConfig,
		baseEndpoints,
		[]restmachinery.Endpoints{
			&accountsREST.UsersEndpoints{
				BaseEndpoints: baseEndpoints,
				UserSchemaLoader: gojsonschema.NewReferenceLoader(
					"file:///cropline/schemas/user.json",
				),
				UserRejectionSchemaLoader: gojsonschema.NewReferenceLoader(
					"file:///cropline/schemas/user-rejection.json",
				),
				UserRoleChangeSchemaLoader: gojsonschema.NewReferenceLoader(
					"file:///cropline/schemas/user-role-change.json",
				),
				UserBulkApprovalSchemaLoader: gojsonschema.NewReferenceLoader(
					"file:///cropline/schemas/user-bulk-approval.json",
				),
				Service: usersService,
			},
		},
	), nil
}
