package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/cropline/cropline"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func userCreate(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"user create requires one argument-- a path to a file containing a " +
				"user definition",
		)
	}
	filename := c.Args().Get(0)

	// Read and parse the file
	userBytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "error reading user file %s", filename)
	}

	user := cropline.User{}
	if strings.HasSuffix(filename, ".yaml") ||
		strings.HasSuffix(filename, ".yml") {
		err = yaml.Unmarshal(userBytes, &user)
	} else {
		err = json.Unmarshal(userBytes, &user)
	}
	if err != nil {
		return errors.Wrapf(err, "error unmarshaling user file %s", filename)
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting cropline client")
	}

	createdUser, err := client.Users().Create(c.Context, user)
	if err != nil {
		return err
	}

	fmt.Printf("Created user %q (pending review).\n", createdUser.ID)

	return nil
}
