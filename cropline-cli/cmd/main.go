package main

import (
	"fmt"
	"os"

	"github.com/cropline/cropline/internal/signals"
	"github.com/cropline/cropline/internal/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "cropline"
	app.Usage = "Manage Cropline platform users"
	app.Version = fmt.Sprintf("%s (%s)", version.Version(), version.Commit())
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "login",
			Usage: "Log in to Cropline",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagServer,
					Aliases: []string{"s"},
					Usage: "Log into the API server at the specified address " +
						"(required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagToken,
					Aliases: []string{"t"},
					Usage: "Specify the gateway token for non-interactive " +
						"login",
				},
				&cli.StringFlag{
					Name:    flagActor,
					Aliases: []string{"a"},
					Usage: "Specify the administrator identity recorded in " +
						"audit trails",
				},
			},
			Action: login,
		},
		{
			Name:   "logout",
			Usage:  "Log out of Cropline",
			Action: logout,
		},
		{
			Name:  "user",
			Usage: "Manage users",
			Subcommands: []*cli.Command{
				{
					Name:      "approve",
					Usage:     "Approve pending user(s)",
					ArgsUsage: "USER_ID...",
					Action:    userApprove,
				},
				{
					Name:  "audit",
					Usage: "Get a user's audit trail",
					Description: "Entries are returned most recent first. " +
						"Every administrative action on a user leaves one entry.",
					ArgsUsage: "USER_ID",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: userAudit,
				},
				{
					Name:      "create",
					Usage:     "Create a new user in pending status",
					ArgsUsage: "FILE",
					Action:    userCreate,
				},
				{
					Name:  "delete",
					Usage: "Delete a user",
					Description: "Deletion is logical. The user disappears " +
						"from lists and lookups but their record, and their audit " +
						"trail, are retained.",
					ArgsUsage: "USER_ID",
					Flags: []cli.Flag{
						&cli.BoolFlag{
							Name:    flagYes,
							Aliases: []string{"y"},
							Usage:   "Non-interactively confirm deletion",
						},
					},
					Action: userDelete,
				},
				{
					Name:      "get",
					Usage:     "Get a user",
					ArgsUsage: "USER_ID",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: userGet,
				},
				{
					Name:  "list",
					Usage: "List users",
					Flags: []cli.Flag{
						cliFlagOutput,
						&cli.StringFlag{
							Name:  flagSearch,
							Usage: "Return users whose name or email matches the given text", // nolint: lll
						},
						&cli.StringFlag{
							Name:  flagRole,
							Usage: "Return users only with the specified role",
						},
						&cli.StringFlag{
							Name:  flagStatus,
							Usage: "Return users only with the specified status",
						},
						&cli.Int64Flag{
							Name:  flagPage,
							Usage: "Retrieve the specified page of results",
							Value: 1,
						},
						&cli.Int64Flag{
							Name:  flagLimit,
							Usage: "Retrieve at most the specified number of results per page", // nolint: lll
							Value: 20,
						},
						&cli.StringFlag{
							Name:  flagSortBy,
							Usage: "Sort results by the specified field (createdAt, email, lastName, status, role)", // nolint: lll
							Value: "createdAt",
						},
						&cli.StringFlag{
							Name:  flagSortOrder,
							Usage: "Sort results in the specified order (asc or desc)", // nolint: lll
							Value: "desc",
						},
					},
					Action: userList,
				},
				{
					Name:      "reactivate",
					Usage:     "Restore a suspended or inactive user to active status", // nolint: lll
					ArgsUsage: "USER_ID",
					Action:    userReactivate,
				},
				{
					Name:      "reject",
					Usage:     "Reject a pending user",
					ArgsUsage: "USER_ID",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    flagReason,
							Aliases: []string{"r"},
							Usage:   "The reason for the rejection (required; prompted for if not provided)", // nolint: lll
						},
					},
					Action: userReject,
				},
				{
					Name:      "role",
					Usage:     "Assign a user a new role",
					ArgsUsage: "USER_ID ROLE",
					Action:    userRole,
				},
				{
					Name:  "stats",
					Usage: "Get aggregate user statistics",
					Flags: []cli.Flag{
						cliFlagOutput,
					},
					Action: userStats,
				},
				{
					Name:      "suspend",
					Usage:     "Temporarily revoke an active user's access",
					ArgsUsage: "USER_ID",
					Action:    userSuspend,
				},
			},
		},
	}
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
