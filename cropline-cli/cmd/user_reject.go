package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func userReject(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New("user reject requires one argument-- a user ID")
	}
	id := c.Args().Get(0)

	// Command-specific flags
	reason := c.String(flagReason)

	for reason == "" {
		prompt := &survey.Input{
			Message: "Reason for rejection",
		}
		if err := survey.AskOne(prompt, &reason); err != nil {
			return err
		}
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	user, err := client.Users().Reject(c.Context, id, reason)
	if err != nil {
		return err
	}

	fmt.Printf("User %q rejected.\n", user.ID)

	return nil
}
