package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Black-And-White-Club/archery-scorer/app/modules/round/application/parsers"
	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	shootservice "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/application"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	"github.com/Black-And-White-Club/archery-scorer/config"
)

var roundFlags = []cli.Flag{
	&cli.StringFlag{Name: "round", Usage: "round name from the built-in catalogue; empty for practice"},
	&cli.StringFlag{Name: "sub-type", Usage: "sub-type name; defaults to the first"},
}

func scorePadCommand() *cli.Command {
	return &cli.Command{
		Name:  "scorepad",
		Usage: "render a score pad from arrow values without a database",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "arrows", Required: true, Usage: `arrow values, e.g. "X 10 9 M"`},
			&cli.IntFlag{Name: "end-size", Usage: "arrows per end; defaults to the configured size"},
			&cli.StringFlag{Name: "golds", Usage: "nines_up, tens_only or x_only; defaults from the round"},
			&cli.StringFlag{Name: "lang", Usage: "locale of the labels"},
		}, roundFlags...),
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			arrows, err := shootdomain.ParseArrows(c.String("arrows"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			round, structure, err := catalogueRound(c.String("round"), c.String("sub-type"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			golds := shootdomain.GoldsTypeForRound(round)
			if name := c.String("golds"); name != "" {
				if golds, err = shootdomain.ParseGoldsType(name); err != nil {
					return cli.Exit(err.Error(), 2)
				}
			}
			endSize := c.Int("end-size")
			if endSize <= 0 {
				endSize = cfg.Scoring.EndSize
			}
			locale := c.String("lang")
			if locale == "" {
				locale = cfg.Scoring.Locale
			}

			rows, err := shootdomain.ScorePad(arrows, endSize, structure, golds)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return writeScorePad(c.App.Writer, shootservice.RenderScorePad(rows, cfg.Scoring, locale))
		},
	}
}

func remainingCommand() *cli.Command {
	return &cli.Command{
		Name:  "remaining",
		Usage: "report the arrows left in a round after a number of arrows",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "shot", Usage: "arrows already shot"},
		}, roundFlags...),
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if c.String("round") == "" {
				return cli.Exit("--round is required", 2)
			}
			_, structure, err := catalogueRound(c.String("round"), c.String("sub-type"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			remaining, err := shootdomain.RemainingArrowsFor(c.Int("shot"), *structure)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			if remaining == nil {
				fmt.Fprintln(c.App.Writer, "round complete")
				return nil
			}
			current, later := shootservice.NewFormatter(cfg.Scoring).Remaining(remaining)
			fmt.Fprintln(c.App.Writer, current)
			if later != "" {
				fmt.Fprintln(c.App.Writer, "then", later)
			}
			fmt.Fprintln(c.App.Writer, "total", remaining.Total())
			return nil
		},
	}
}

// catalogueRound resolves a round and sub-type by name from the built-in
// catalogue. An empty name is a practice shoot and returns nils.
func catalogueRound(name, subType string) (*rounddomain.Round, *rounddomain.Structure, error) {
	if name == "" {
		return nil, nil, nil
	}
	defs, err := parsers.DefaultCatalogue()
	if err != nil {
		return nil, nil, err
	}
	for _, def := range defs {
		if !strings.EqualFold(def.Name, name) {
			continue
		}

		subTypeID := 0
		for i, st := range def.SubTypes {
			if subType == "" || strings.EqualFold(st.Name, subType) {
				subTypeID = i + 1
				break
			}
		}
		if subTypeID == 0 {
			return nil, nil, fmt.Errorf("round %s has no sub-type %q", def.Name, subType)
		}

		counts, _, distances := def.Records(0)
		structure, err := rounddomain.NewStructure(counts, rounddomain.DistancesForSubType(distances, subTypeID))
		if err != nil {
			return nil, nil, err
		}
		round := &rounddomain.Round{
			Name:        def.Name,
			DisplayName: def.DisplayName,
			IsOutdoor:   def.IsOutdoor,
			IsMetric:    def.IsMetric,
		}
		return round, &structure, nil
	}
	return nil, nil, fmt.Errorf("unknown round %q", name)
}

func writeScorePad(out io.Writer, view shootservice.ScorePadView) error {
	if len(view.Rows) == 0 {
		_, err := fmt.Fprintln(out, "no arrows")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tarrows\tscore\thits\tgolds\trunning")
	for _, row := range view.Rows {
		if row.Kind == shootdomain.RowEnd {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", row.Label, row.Text, row.Totals.Score, row.Totals.Hits, row.Totals.Golds, row.RunningTotal)
			continue
		}
		fmt.Fprintf(w, "%s\t\t%d\t%d\t%d\t\n", row.Label, row.Totals.Score, row.Totals.Hits, row.Totals.Golds)
	}
	fmt.Fprintf(w, "\t\t%s\t\t\t\n", view.Average)
	return w.Flush()
}
