package main

import (
	"github.com/cropline/cropline"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func getClient(c *cli.Context) (cropline.Client, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "error retrieving configuration")
	}
	return cropline.NewClient(
		config.APIAddress,
		config.APIToken,
		config.Actor,
		c.Bool(flagInsecure),
	), nil
}
