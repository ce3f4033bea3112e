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

func userStats(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("user stats requires no arguments")
	}

	// Command-specific flags
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	stats, err := client.Users().Statistics(c.Context)
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("TOTAL", "ACTIVE", "PENDING")
		table.AddRow(stats.TotalUsers, stats.ActiveCount, stats.PendingCount)
		fmt.Println(table)

		table = uitable.New()
		table.AddRow("ROLE", "COUNT")
		for _, role := range cropline.Roles() {
			table.AddRow(role, stats.UsersByRole[role])
		}
		fmt.Printf("\n%s\n", table)

		table = uitable.New()
		table.AddRow("STATUS", "COUNT")
		for _, status := range cropline.Statuses() {
			table.AddRow(status, stats.UsersByStatus[status])
		}
		fmt.Printf("\n%s\n", table)

	case "yaml":
		yamlBytes, err := yaml.Marshal(stats)
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from user stats operation",
			)
		}
		fmt.Println(string(yamlBytes))

	case "json":
		prettyJSON, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from user stats operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
