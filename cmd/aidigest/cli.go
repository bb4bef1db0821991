package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpann/aidigest/internal/apperr"
	"github.com/hpann/aidigest/internal/digest"
	"github.com/hpann/aidigest/internal/history"
	"github.com/hpann/aidigest/internal/settings"
	"github.com/hpann/aidigest/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "aidigest",
		Usage:   "Daily AI tool digests",
		Version: Version,
		Commands: []*cli.Command{
			generateCmd(d),
			latestCmd(d),
			historyCmd(d),
			clearCmd(d),
			settingsCmd(d),
			scheduleCmd(d),
			sampleCmd(),
			serveCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// generateCmd creates the generate command.
func generateCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Ask the agent for today's digest and record it in history",
		Action: func(c *cli.Context) error {
			out, err := d.generator.Run(c.Context)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"digest":     out,
				"tool_count": out.ToolCount(),
				"new_tools":  out.NewToolCount(),
			})
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "latest",
		Usage: "Show the most recently recorded digest",
		Action: func(c *cli.Context) error {
			entries := d.history.Load()
			if len(entries) == 0 {
				return outputError(apperr.NewNotFound("digest"))
			}
			return outputJSON(entries[0])
		},
	}
}

// historyCmd creates the history command.
func historyCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List stored digests, optionally filtered by a search query",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Case-insensitive substring to match"},
			&cli.BoolFlag{Name: "by-date", Usage: "Group entries by digest date"},
		},
		Action: func(c *cli.Context) error {
			entries := history.Search(d.history.Load(), c.String("query"))

			if c.Bool("by-date") {
				groups, dates := history.GroupByDate(entries)
				out := make([]map[string]any, 0, len(dates))
				for _, date := range dates {
					out = append(out, map[string]any{
						"date":    date,
						"entries": groups[date],
						"tools":   history.ToolsForDate(groups[date]),
					})
				}
				return outputJSON(map[string]any{"days": out, "total": len(entries)})
			}

			return outputJSON(map[string]any{"entries": entries, "total": len(entries)})
		},
	}
}

// clearCmd creates the clear command.
func clearCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all stored digests",
		Action: func(c *cli.Context) error {
			d.history.Clear()
			return outputJSON(map[string]any{"cleared": true})
		},
	}
}

// settingsCmd creates the settings command with show/set subcommands.
func settingsCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change digest settings",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current settings",
				Action: func(c *cli.Context) error {
					return outputJSON(d.settings.Load())
				},
			},
			{
				Name:  "set",
				Usage: "Change settings; only provided flags are applied",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "enable", Usage: "Category to enable (repeatable)"},
					&cli.StringSliceFlag{Name: "disable", Usage: "Category to disable (repeatable)"},
					&cli.StringFlag{Name: "delivery-time", Usage: "Delivery time as HH:MM"},
					&cli.StringFlag{Name: "timezone", Usage: "IANA timezone name"},
					&cli.StringFlag{Name: "number", Usage: "Notification phone number (digits only)"},
					&cli.StringFlag{Name: "country-code", Usage: "Country calling code, e.g. +1"},
				},
				Action: func(c *cli.Context) error {
					s := d.settings.Load()

					known := make(map[string]bool, len(settings.Categories))
					for _, cat := range settings.Categories {
						known[cat] = true
					}
					for _, cat := range c.StringSlice("enable") {
						if !known[cat] {
							return outputError(apperr.NewInvalidRequest(fmt.Sprintf("unknown category: %s", cat)))
						}
						s.CategoryEnabled[cat] = true
					}
					for _, cat := range c.StringSlice("disable") {
						if !known[cat] {
							return outputError(apperr.NewInvalidRequest(fmt.Sprintf("unknown category: %s", cat)))
						}
						s.CategoryEnabled[cat] = false
					}

					if v := c.String("delivery-time"); v != "" {
						s.DeliveryTime = v
					}
					if v := c.String("timezone"); v != "" {
						s.Timezone = v
					}
					if c.IsSet("number") {
						s.NotificationNumber = c.String("number")
					}
					if v := c.String("country-code"); v != "" {
						s.NotificationCountryCode = v
					}

					if err := d.settings.Save(s); err != nil {
						return outputError(err)
					}
					return outputJSON(d.settings.Load())
				},
			},
		},
	}
}

// scheduleCmd creates the schedule command with status/logs/pause/resume subcommands.
func scheduleCmd(d *deps) *cli.Command {
	requireService := func() error {
		if d.sched == nil {
			return outputError(apperr.NewInvalidRequest("no schedule service configured; set schedule_endpoint in config.json"))
		}
		return nil
	}
	return &cli.Command{
		Name:  "schedule",
		Usage: "Inspect or toggle the external generation schedule",
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "List schedules known to the service",
				Action: func(c *cli.Context) error {
					if err := requireService(); err != nil {
						return err
					}
					schedules, err := d.sched.List(c.Context)
					if err != nil {
						return outputError(apperr.NewTransport(err))
					}
					return outputJSON(map[string]any{"schedules": schedules})
				},
			},
			{
				Name:      "logs",
				Usage:     "Show recent executions of a schedule",
				ArgsUsage: "<schedule-id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 10, Usage: "Maximum executions to return"},
				},
				Action: func(c *cli.Context) error {
					if err := requireService(); err != nil {
						return err
					}
					if c.NArg() == 0 {
						return outputError(apperr.NewInvalidRequest("schedule id is required"))
					}
					logs, err := d.sched.Logs(c.Context, c.Args().First(), c.Int("limit"))
					if err != nil {
						return outputError(apperr.NewTransport(err))
					}
					return outputJSON(map[string]any{"executions": logs})
				},
			},
			{
				Name:      "pause",
				Usage:     "Pause a schedule",
				ArgsUsage: "<schedule-id>",
				Action: func(c *cli.Context) error {
					if err := requireService(); err != nil {
						return err
					}
					if c.NArg() == 0 {
						return outputError(apperr.NewInvalidRequest("schedule id is required"))
					}
					if err := d.sched.Pause(c.Context, c.Args().First()); err != nil {
						return outputError(apperr.NewTransport(err))
					}
					return outputJSON(map[string]any{"paused": true})
				},
			},
			{
				Name:      "resume",
				Usage:     "Resume a paused schedule",
				ArgsUsage: "<schedule-id>",
				Action: func(c *cli.Context) error {
					if err := requireService(); err != nil {
						return err
					}
					if c.NArg() == 0 {
						return outputError(apperr.NewInvalidRequest("schedule id is required"))
					}
					if err := d.sched.Resume(c.Context, c.Args().First()); err != nil {
						return outputError(apperr.NewTransport(err))
					}
					return outputJSON(map[string]any{"resumed": true})
				},
			},
		},
	}
}

// sampleCmd creates the sample command.
func sampleCmd() *cli.Command {
	return &cli.Command{
		Name:  "sample",
		Usage: "Print a sample digest (no agent call, nothing stored)",
		Action: func(c *cli.Context) error {
			s := digest.Sample()
			return outputJSON(map[string]any{
				"digest":     s,
				"tool_count": s.ToolCount(),
				"new_tools":  s.NewToolCount(),
			})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Interface to listen on (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			bind := d.cfg.WebBind
			if v := c.String("bind"); v != "" {
				bind = v
			}
			port := d.cfg.WebPort
			if v := c.Int("port"); v != 0 {
				port = v
			}

			srv := web.NewServer(web.Deps{
				History:    d.history,
				Settings:   d.settings,
				Generator:  d.generator,
				Schedule:   d.sched,
				ScheduleID: d.cfg.ScheduleID,
			}, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if aErr, ok := err.(*apperr.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
