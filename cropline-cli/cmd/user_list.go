package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cropline/cropline"
	"github.com/ghodss/yaml"
	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func userList(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("user list requires no arguments")
	}

	// Command-specific flags
	output := c.String(flagOutput)
	selector := cropline.UsersSelector{
		Search: c.String(flagSearch),
		Role:   cropline.Role(c.String(flagRole)),
		Status: cropline.Status(c.String(flagStatus)),
	}
	opts := cropline.ListOptions{
		Page:      c.Int64(flagPage),
		Limit:     c.Int64(flagLimit),
		SortBy:    c.String(flagSortBy),
		SortOrder: c.String(flagSortOrder),
	}

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	users, err := client.Users().List(c.Context, selector, opts)
	if err != nil {
		return err
	}

	if len(users.Items) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("ID", "EMAIL", "NAME", "REGION", "ROLE", "STATUS", "CREATED")
		for _, user := range users.Items {
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
		}
		fmt.Println(table)
		fmt.Printf(
			"\nPage %d of %d (%d users total)\n",
			users.Page,
			users.TotalPages,
			users.TotalCount,
		)

	case "yaml":
		yamlBytes, err := yaml.Marshal(users)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from list users operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(users, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from list users operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
