package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tjfontaine/mrr-go/internal/api/mrr"
	"github.com/tjfontaine/mrr-go/internal/commands"
	"github.com/tjfontaine/mrr-go/internal/pkg/config"
)

var groupUsage = map[string]string{
	"info":     "Public marketplace information",
	"account":  "Account, balance, profiles and saved pools",
	"rig":      "Rigs you own or can rent",
	"riggroup": "Rig groups",
	"rental":   "Rentals you own or bought",
}

func newRootCommand(a *app, reg *commands.Registry) *cli.Command {
	root := &cli.Command{
		Name:      "mrr",
		Usage:     "Signed client for the Mining Rig Rentals v2 API",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file (default ./" + config.DefaultFile + " when present)",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Ask the API for pretty-printed JSON",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Print 200 bodies as received instead of decoding them",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Echo every request line and response body to stderr",
			},
		},
	}

	for _, c := range reg.All() {
		if c.Group == "" {
			root.Commands = append(root.Commands, a.apiCommand(c))
		}
	}
	for _, group := range reg.Groups() {
		gc := &cli.Command{Name: group, Usage: groupUsage[group]}
		for _, c := range reg.All() {
			if c.Group == group {
				gc.Commands = append(gc.Commands, a.apiCommand(c))
			}
		}
		root.Commands = append(root.Commands, gc)
	}

	root.Commands = append(root.Commands,
		a.callCommand(),
		a.historyCommand(),
		a.catalogCommand(reg),
	)
	return root
}

// apiCommand turns a catalog entry into a subcommand with one flag per
// path placeholder and body parameter.
func (a *app) apiCommand(c commands.Command) *cli.Command {
	var flags []cli.Flag
	for _, name := range c.PathArgs() {
		usage := "ID"
		if name == "ids" || name == "rigids" {
			usage = "One or more IDs, separated by ',' or ';'"
		}
		flags = append(flags, &cli.StringFlag{Name: name, Usage: usage, Required: true})
	}
	for _, p := range c.Params {
		flags = append(flags, &cli.StringFlag{
			Name:     p.FlagName(),
			Usage:    fmt.Sprintf("%s (%s)", p.Usage, p.Kind),
			Required: p.Required,
		})
	}

	return &cli.Command{
		Name:  c.Name,
		Usage: fmt.Sprintf("%s [%s %s]", c.Usage, c.Method, c.Path),
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := a.setup(cmd, true); err != nil {
				return err
			}

			pathArgs := make(map[string]string)
			for _, name := range c.PathArgs() {
				pathArgs[name] = cmd.String(name)
			}
			raw := make(map[string]string)
			for _, p := range c.Params {
				if cmd.IsSet(p.FlagName()) {
					raw[p.Name] = cmd.String(p.FlagName())
				}
			}

			res, err := a.runner.Run(ctx, c, pathArgs, raw)
			if err != nil {
				return err
			}
			return a.printResult(res)
		},
	}
}

func (a *app) callCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "Send a signed request to any endpoint",
		ArgsUsage: "<VERB> <path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data", Usage: "JSON object sent as the request body"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("call: expected <VERB> <path>, got %d arguments", cmd.Args().Len())
			}
			verb, path := cmd.Args().Get(0), cmd.Args().Get(1)
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			var params mrr.Params
			if data := cmd.String("data"); data != "" {
				if err := json.Unmarshal([]byte(data), &params); err != nil {
					return fmt.Errorf("call: --data must be a JSON object: %w", err)
				}
			}

			if err := a.setup(cmd, true); err != nil {
				return err
			}
			res, err := a.runner.Call(ctx, "call", verb, path, params)
			if err != nil {
				return err
			}
			return a.printResult(res)
		},
	}
}

func (a *app) historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent calls from the local journal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "limit", Usage: "Number of entries, 0 for all", Value: "20"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			limit, err := strconv.Atoi(cmd.String("limit"))
			if err != nil {
				return fmt.Errorf("history: --limit %q is not a number", cmd.String("limit"))
			}
			if err := a.setup(cmd, false); err != nil {
				return err
			}
			if a.journal == nil {
				return errors.New("history: journal is disabled, set journal.path or MRR_JOURNAL__PATH")
			}

			records, err := a.journal.List(ctx, limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tCOMMAND\tMETHOD\tPATH\tSTATUS\tOUTCOME\tDURATION")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					r.CreatedAt.Local().Format(time.RFC3339),
					r.Command, r.Method, r.Path, r.Status, r.Outcome,
					r.Duration.Round(time.Millisecond),
				)
			}
			return tw.Flush()
		},
	}
}

func (a *app) catalogCommand(reg *commands.Registry) *cli.Command {
	return &cli.Command{
		Name:  "commands",
		Usage: "List every API command with its verb and path",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, c := range reg.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID(), c.Method, c.Path, c.Usage)
			}
			return tw.Flush()
		},
	}
}
