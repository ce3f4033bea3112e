package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func userApprove(c *cli.Context) error {
	// Args
	if c.Args().Len() == 0 {
		return errors.New(
			"user approve requires at least one argument-- a user ID",
		)
	}
	ids := c.Args().Slice()

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	// A single ID gets the simple treatment; anything more goes through the
	// bulk operation so one bad ID doesn't stop the rest.
	if len(ids) == 1 {
		user, err := client.Users().Approve(c.Context, ids[0])
		if err != nil {
			return err
		}
		fmt.Printf("User %q approved.\n", user.ID)
		return nil
	}

	result, err := client.Users().BulkApprove(c.Context, ids)
	if err != nil {
		return err
	}
	for _, success := range result.Succeeded {
		fmt.Printf("User %q approved.\n", success.ID)
	}
	for _, failure := range result.Failed {
		fmt.Printf("User %q NOT approved: %s\n", failure.ID, failure.Message)
	}
	fmt.Printf(
		"\n%d approved, %d failed.\n",
		len(result.Succeeded),
		len(result.Failed),
	)

	return nil
}
