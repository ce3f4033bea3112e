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

func userAudit(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New("user audit requires one argument-- a user ID")
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

	entries, err := client.Users().Audit(c.Context, id)
	if err != nil {
		return err
	}

	if len(entries.Items) == 0 {
		fmt.Println("No audit entries found.")
		return nil
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("TIME", "ACTION", "ACTOR", "FROM", "TO", "NOTE")
		for _, entry := range entries.Items {
			table.AddRow(
				entry.Created,
				entry.Action,
				entry.Actor,
				entry.From,
				entry.To,
				entry.Note,
			)
		}
		fmt.Println(table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(entries)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from user audit operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from user audit operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
