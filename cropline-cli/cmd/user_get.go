package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func userGet(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New("user get requires one argument-- a user ID")
	}
	id := c.Args().Get(0)

	// Command-specific flags
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	user, err := client.Users().Get(c.Context, id)
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "EMAIL", "NAME", "REGION", "ROLE", "STATUS", "CREATED")
		table.AddRow(
			user.ID,
			user.Email,
			strings.TrimSpace(
				fmt.Sprintf("%s %s", user.FirstName, user.LastName),
			),
			user.Region,
			user.Role,
			user.Status,
			user.Created,
		)
		fmt.Println(table)
		if user.Review != nil {
			fmt.Printf(
				"\nReviewed (%s) by %s at %s",
				user.Review.Outcome,
				user.Review.By,
				user.Review.At,
			)
			if user.Review.Reason != "" {
				fmt.Printf(": %s", user.Review.Reason)
			}
			fmt.Println()
		}

	case "yaml":
		yamlBytes, err := yaml.Marshal(user)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get user operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get user operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
