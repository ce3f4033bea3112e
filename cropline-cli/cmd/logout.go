package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func logout(c *cli.Context) error {
	if err := deleteConfig(); err != nil {
		return err
	}
	fmt.Println("Logout was successful.")
	return nil
}
