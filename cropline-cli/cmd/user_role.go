package main

import (
	"fmt"

	"github.com/cropline/cropline"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func userRole(c *cli.Context) error {
	// Args
	if c.Args().Len() != 2 {
		return errors.New(
			"user role requires two arguments-- a user ID and a role",
		)
	}
	id := c.Args().Get(0)
	role := cropline.Role(c.Args().Get(1))

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	user, err := client.Users().UpdateRole(c.Context, id, role)
	if err != nil {
		return err
	}

	fmt.Printf("User %q now has role %q.\n", user.ID, user.Role)

	return nil
}
