package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/erazemk/vrt/internal/advice"
	"github.com/erazemk/vrt/internal/imaging"
	"github.com/erazemk/vrt/internal/model"
)

var errUnknownPlant = errors.New("no plant with that id")

func newPlantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plants",
		Short: "List and update plants from the command line (stop serve first)",
		Long: `List and update plants from the command line.

Each vrt process loads the plant collection once at startup and rewrites all of
it on every change. Stop "vrt serve" before adding or updating plants here:
a running server does not see these changes and its next save overwrites them.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all plants",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				plants := a.garden.Plants()
				if len(plants) == 0 {
					fmt.Fprintln(out, "No plants yet.")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tLAST WATERED\tWATERINGS\tPHOTOS")
				for _, p := range plants {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", p.ID, p.Name, lastWatered(p), len(p.WaterLog), len(p.Photos))
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a plant",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.garden.AddPlant(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if p == nil {
					return errors.New("plant name must not be empty")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %d)\n", p.Name, p.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "water <id>",
			Short: "Log a watering for a plant",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := a.garden.LogWatering(cmd.Context(), id)
				if err != nil {
					return err
				}
				if p == nil {
					return fmt.Errorf("%w: %d", errUnknownPlant, id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Watered %s at %s\n", p.Name, *p.LastWatered)
				return nil
			},
		},
		&cobra.Command{
			Use:   "photo <id> <file>",
			Short: "Attach a photo to a plant",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if a.garden.FindPlant(id) == nil {
					return fmt.Errorf("%w: %d", errUnknownPlant, id)
				}

				f, err := os.Open(args[1])
				if err != nil {
					return fmt.Errorf("opening photo: %w", err)
				}
				defer f.Close()

				info, err := f.Stat()
				if err != nil {
					return fmt.Errorf("reading photo: %w", err)
				}
				up, err := imaging.Encode(f, info.Size(), mime.TypeByExtension(filepath.Ext(args[1])))
				if errors.Is(err, imaging.ErrTooLarge) {
					return fmt.Errorf("%s is %s, photos are limited to %s",
						args[1], humanize.IBytes(uint64(info.Size())), humanize.IBytes(imaging.MaxUploadBytes))
				}
				if err != nil {
					return err
				}

				p, err := a.garden.AddPhoto(cmd.Context(), id, up.DataURL)
				if err != nil {
					return err
				}
				if p == nil {
					return fmt.Errorf("%w: %d", errUnknownPlant, id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s photo to %s (%d photos)\n", up.MIME, p.Name, len(p.Photos))
				return nil
			},
		},
	)

	return cmd
}

func newTipCmd(a *app) *cobra.Command {
	var fact bool

	cmd := &cobra.Command{
		Use:   "tip <id>",
		Short: "Show a care tip (or a fun fact) for a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p := a.garden.FindPlant(id)
			if p == nil {
				return fmt.Errorf("%w: %d", errUnknownPlant, id)
			}
			text := advice.CareTip(p.Name)
			if fact {
				text = advice.FunFact(p.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fact, "fact", false, "show a fun fact instead of a care tip")

	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid plant id %q", s)
	}
	return id, nil
}

func lastWatered(p model.Plant) string {
	if !p.Watered() {
		return "Never"
	}
	t, err := model.ParseTime(*p.LastWatered)
	if err != nil {
		return *p.LastWatered
	}
	return humanize.RelTime(t, time.Now(), "ago", "from now")
}
