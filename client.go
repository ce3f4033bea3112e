package cropline

// Client is the root of a tree of more specialized API clients within the
// Cropline client.
type Client interface {
	// Users returns a specialized client for User management.
	Users() UsersClient
}

type client struct {
	usersClient UsersClient
}

// NewClient returns a Cropline client. The actor is the identity of the
// administrator on whose behalf requests are made; it is recorded in the
// audit trail of every mutation.
func NewClient(apiAddress, apiToken, actor string, allowInsecure bool) Client {
	return &client{
		usersClient: NewUsersClient(apiAddress, apiToken, actor, allowInsecure),
	}
}

func (c *client) Users() UsersClient {
	return c.usersClient
}
