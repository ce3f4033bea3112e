package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func login(c *cli.Context) error {
	address := c.String(flagServer)
	token := c.String(flagToken)
	actor := c.String(flagActor)

	for token == "" {
		prompt := &survey.Password{
			Message: "Gateway token",
		}
		if err := survey.AskOne(prompt, &token); err != nil {
			return err
		}
	}

	for actor == "" {
		prompt := &survey.Input{
			Message: "Your administrator identity (e.g. email address)",
		}
		if err := survey.AskOne(prompt, &actor); err != nil {
			return err
		}
	}

	if err := saveConfig(
		&config{
			APIAddress: address,
			APIToken:   token,
			Actor:      actor,
		},
	); err != nil {
		return errors.Wrap(err, "error persisting configuration")
	}

	fmt.Printf("\nYou are logged in as %q.\n", actor)

	return nil
}
