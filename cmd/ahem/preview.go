package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/codenest/ahem"
	"github.com/codenest/ahem/pkg/settings"
)

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Render a notice to stdout",
		UsageText: "ahem preview [--settings file] --type success --message text [--message text...]",
		Description: `Builds a notice from the resolved settings and prints its markup.

A message written as key=text is stored under key. Use it to check
templates before deploying a settings file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Value:   "info",
				Usage:   "notice type",
			},
			&cli.StringSliceFlag{
				Name:    "message",
				Aliases: []string{"m"},
				Usage:   "message text, repeatable",
			},
			&cli.StringFlag{
				Name:  "heading",
				Usage: "heading text",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			r, err := settings.NewFromConfig(settings.Config{File: c.String("settings")})
			if err != nil {
				return err
			}
			return preview(ctx, c.Root().Writer, r, c.String("type"), c.String("heading"), c.StringSlice("message"))
		},
	}
}

func preview(ctx context.Context, w io.Writer, r *settings.Resolver, typ, heading string, messages []string) error {
	f, err := ahem.New(ctx, nil, r)
	if err != nil {
		return err
	}

	opts := make([]ahem.MakeOption, 0, len(messages)+1)
	for _, m := range messages {
		if key, text, ok := strings.Cut(m, "="); ok && key != "" {
			opts = append(opts, ahem.WithKeyedMessage(key, text))
			continue
		}
		opts = append(opts, ahem.WithMessage(m))
	}
	if heading != "" {
		opts = append(opts, ahem.WithHeading(heading))
	}
	if _, err := f.Make(ctx, typ, opts...); err != nil {
		return err
	}

	html, err := f.Render(ctx, typ)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, html)
	return err
}
