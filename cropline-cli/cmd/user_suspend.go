package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func userSuspend(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New("user suspend requires one argument-- a user ID")
	}
	id := c.Args().Get(0)

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	user, err := client.Users().Suspend(c.Context, id)
	if err != nil {
		return err
	}

	fmt.Printf("User %q suspended.\n", user.ID)

	return nil
}
