// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Sign in, sign out, and inspect the current session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthSignup,
			},
			{
				Name:  "oauth",
				Usage: "Sign in through a third-party provider",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "provider",
						Usage: "Provider name (google or twitter)",
						Value: "google",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the login URL instead of opening a browser",
					},
				},
				Action: r.AuthOAuth,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and discard the stored token",
				Action: r.AuthLogout,
			},
			{
				Name:    "status",
				Aliases: []string{"whoami"},
				Usage:   "Show the current session state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:    "import",
				Aliases: []string{"import-curl"},
				Usage:   "Import a bearer token from a browser session's cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from browser dev tools",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// jobsCommand handles transcription job operations
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "jobs",
		Aliases: []string{"transcriptions"},
		Usage:   "Upload audio and manage transcription jobs",
		Commands: []*cli.Command{
			{
				Name:  "upload",
				Usage: "Upload an audio file for transcription",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "session-log",
						Usage: "Path to a session log to attach",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Poll until the job finishes",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.JobsUpload,
			},
			{
				Name:  "list",
				Usage: "List transcription jobs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number (1-indexed)",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Jobs per page",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local cache instead of the server",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.JobsList,
			},
			{
				Name:  "show",
				Usage: "Show one transcription job",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "text",
						Usage: "Print the full transcript text",
					},
				},
				Action: r.JobsShow,
			},
			{
				Name:  "download",
				Usage: "Download a finished transcript",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Artifact format: txt, json, or html",
						Value:   "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.JobsDownload,
			},
			{
				Name:  "watch",
				Usage: "Poll a job until it reaches a terminal status",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "interval",
						Usage: "Polling interval in seconds",
						Value: 3,
					},
				},
				Action: r.JobsWatch,
			},
			{
				Name:  "pull",
				Usage: "Bulk-download finished transcripts and refresh the local cache",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Artifact format: txt, json, or html",
						Value:   "txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent downloads",
						Value: 4,
					},
				},
				Action: r.JobsPull,
			},
			{
				Name:  "delete",
				Usage: "Delete a transcription job",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.JobsDelete,
			},
		},
	}
}

// accountCommand handles profile and usage operations
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Profile, usage, and plan",
		Commands: []*cli.Command{
			{
				Name:  "profile",
				Usage: "Show the signed-in profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AccountProfile,
			},
			{
				Name:  "update",
				Usage: "Update the profile display name",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "display-name",
						Usage:    "New display name",
						Required: true,
					},
				},
				Action: r.AccountUpdate,
			},
			{
				Name:  "usage",
				Usage: "Show plan usage for the current billing cycle",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AccountUsage,
			},
			{
				Name:  "plan",
				Usage: "Change the subscription plan",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tier",
						Usage:    "Plan tier: free, lite, standard, or unlimited",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "auto-renew",
						Usage: "Renew automatically at cycle end",
						Value: true,
					},
				},
				Action: r.AccountPlan,
			},
		},
	}
}

// billingCommand handles checkout and subscription operations
func billingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "billing",
		Usage: "Checkout, payments, and subscription management",
		Commands: []*cli.Command{
			{
				Name:   "plans",
				Usage:  "List available plans and prices",
				Action: r.BillingPlans,
			},
			{
				Name:  "checkout",
				Usage: "Start a subscription checkout",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tier",
						Usage:    "Plan tier: lite, standard, or unlimited",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the checkout URL instead of opening a browser",
					},
				},
				Action: r.BillingCheckout,
			},
			{
				Name:  "oneshot",
				Usage: "Buy a one-time block of transcription hours",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "hours",
						Usage:    "Hours to purchase",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the checkout URL instead of opening a browser",
					},
				},
				Action: r.BillingOneshot,
			},
			{
				Name:  "portal",
				Usage: "Open the billing portal",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the portal URL instead of opening a browser",
					},
				},
				Action: r.BillingPortal,
			},
			{
				Name:  "cancel",
				Usage: "Cancel a subscription",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subscription",
						Usage:    "Subscription ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "now",
						Usage: "Cancel immediately instead of at period end",
					},
				},
				Action: r.BillingCancel,
			},
			{
				Name:   "config",
				Usage:  "Show the payment provider configuration",
				Action: r.BillingConfig,
			},
		},
	}
}

// adminCommand handles administrator operations
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrator operations",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show service-wide usage and revenue statistics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AdminStats,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls for debugging",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the local cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a configuration file from the template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the local cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
