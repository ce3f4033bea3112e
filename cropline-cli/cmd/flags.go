package main

import "github.com/urfave/cli/v2"

const (
	flagActor     = "actor"
	flagInsecure  = "insecure"
	flagLimit     = "limit"
	flagOutput    = "output"
	flagPage      = "page"
	flagReason    = "reason"
	flagRole      = "role"
	flagSearch    = "search"
	flagServer    = "server"
	flagSortBy    = "sort-by"
	flagSortOrder = "sort-order"
	flagStatus    = "status"
	flagToken     = "token"
	flagYes       = "yes"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Return output in another format. Supported formats: table, " +
			"yaml, json",
		Value: "table",
	}
)
