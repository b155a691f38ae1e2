// Package main is the entry point for the restql-assist CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	rqlcli "github.com/NikitaCOEUR/restql-assist/internal/cli"
	"github.com/NikitaCOEUR/restql-assist/internal/trace"
	"github.com/NikitaCOEUR/restql-assist/pkg/version"
)

func main() {
	stopTrace := trace.Init()
	err := newApp().Run(context.Background(), os.Args)
	stopTrace()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// formatFlags are shared by every command printing structured output
func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   "text",
			Usage:   "Output format: text, json, yaml or template",
		},
		&cli.StringFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "Go template used with --format template (sprig functions available)",
		},
	}
}

//nolint:gocyclo // Command table complexity is acceptable
func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "restql-assist",
		Usage:                 "Highlighting and completion for restQL queries",
		Version:               version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error); overrides log_level from the config",
				Sources: cli.EnvVars("RESTQL_ASSIST_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (defaults to $XDG_CONFIG_HOME/restql-assist/config.yml)",
				Sources: cli.EnvVars("RESTQL_ASSIST_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "tokenize",
				Usage:     "Print the highlight spans of a query",
				ArgsUsage: "[file]",
				Flags: append(formatFlags(),
					&cli.BoolFlag{
						Name:  "merge",
						Usage: "Merge adjacent spans sharing a tag",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return rqlcli.Tokenize(ctx, rqlcli.TokenizeParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Input:      cmd.Args().First(),
						Stdin:      cmd.Root().Reader,
						Output:     cmd.Root().Writer,
						Format:     cmd.String("format"),
						Template:   cmd.String("template"),
						Merge:      cmd.Bool("merge"),
					})
				},
			},
			{
				Name:      "highlight",
				Usage:     "Print a query with terminal colors",
				ArgsUsage: "[file]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return rqlcli.Highlight(ctx, rqlcli.HighlightParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Input:      cmd.Args().First(),
						Stdin:      cmd.Root().Reader,
						Output:     cmd.Root().Writer,
					})
				},
			},
			{
				Name:      "complete",
				Usage:     "Print completion candidates at a cursor position",
				ArgsUsage: "[file]",
				Flags: append(formatFlags(),
					&cli.StringFlag{
						Name:    "pos",
						Aliases: []string{"p"},
						Usage:   "Cursor as line:column, zero based, or end",
					},
					&cli.IntFlag{
						Name:  "line",
						Usage: "Cursor line, zero based (ignored with --pos)",
					},
					&cli.IntFlag{
						Name:  "column",
						Usage: "Cursor column, zero based (ignored with --pos)",
					},
					&cli.StringFlag{
						Name:    "tenant",
						Usage:   "Tenant whose resources are suggested when completion.use_catalog is set",
						Sources: cli.EnvVars("RESTQL_ASSIST_TENANT"),
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return rqlcli.Complete(ctx, rqlcli.CompleteParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Input:      cmd.Args().First(),
						Stdin:      cmd.Root().Reader,
						Output:     cmd.Root().Writer,
						Position:   cmd.String("pos"),
						Line:       int(cmd.Int("line")),
						Column:     int(cmd.Int("column")),
						Tenant:     cmd.String("tenant"),
						Format:     cmd.String("format"),
						Template:   cmd.String("template"),
					})
				},
			},
			{
				Name:  "tenants",
				Usage: "List the tenants of the restQL API",
				Flags: formatFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return rqlcli.Tenants(ctx, rqlcli.TenantsParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Output:     cmd.Root().Writer,
						Format:     cmd.String("format"),
						Template:   cmd.String("template"),
					})
				},
			},
			{
				Name:  "resources",
				Usage: "List the resource mappings of a tenant",
				Flags: append(formatFlags(),
					&cli.StringFlag{
						Name:    "tenant",
						Usage:   "Tenant to list (defaults to the first tenant)",
						Sources: cli.EnvVars("RESTQL_ASSIST_TENANT"),
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return rqlcli.Resources(ctx, rqlcli.ResourcesParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Output:     cmd.Root().Writer,
						Tenant:     cmd.String("tenant"),
						Format:     cmd.String("format"),
						Template:   cmd.String("template"),
					})
				},
			},
			{
				Name:  "save-resource",
				Usage: "Point a resource of a tenant at a new URL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant",
						Usage:    "Tenant owning the resource",
						Required: true,
						Sources:  cli.EnvVars("RESTQL_ASSIST_TENANT"),
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Resource name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "New resource URL",
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Authorization key (defaults to api.authorization_key)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return rqlcli.SaveResource(ctx, rqlcli.SaveResourceParams{
						ConfigPath:       cmd.String("config"),
						LogLevel:         cmd.String("log-level"),
						Output:           cmd.Root().Writer,
						Tenant:           cmd.String("tenant"),
						Name:             cmd.String("name"),
						URL:              cmd.String("url"),
						AuthorizationKey: cmd.String("key"),
					})
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a restql-assist configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()
					if path == "" {
						path = cmd.String("config")
					}
					return rqlcli.Validate(path, cmd.Root().Writer)
				},
			},
			{
				Name:  "schema",
				Usage: "Print the JSON Schema of the configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the schema to a file instead of stdout",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return rqlcli.Schema(cmd.String("output"), cmd.Root().Writer)
				},
			},
			{
				Name:  "status",
				Usage: "Show the effective setup",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return rqlcli.Status(rqlcli.StatusParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Output:     cmd.Root().Writer,
					})
				},
			},
			{
				Name:  "cache",
				Usage: "Show or clear the tenant resource cache",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Remove every cached listing",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: text, json or yaml",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return rqlcli.Cache(rqlcli.CacheParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Output:     cmd.Root().Writer,
						Clear:      cmd.Bool("clear"),
						Format:     cmd.String("format"),
					})
				},
			},
			{
				Name:  "config",
				Usage: "Print the effective configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "yaml",
						Usage:   "Output format: yaml or json",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return rqlcli.Config(rqlcli.ConfigParams{
						ConfigPath: cmd.String("config"),
						LogLevel:   cmd.String("log-level"),
						Output:     cmd.Root().Writer,
						Format:     cmd.String("format"),
					})
				},
			},
		},
	}
}
