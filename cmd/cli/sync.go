package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/himanishpuri/djaysync/pkg/djaysync/report"
	"github.com/himanishpuri/djaysync/pkg/models"
	"github.com/spf13/cobra"
)

type syncFlags struct {
	playlist         string
	limit            int
	apply            bool
	noOverwrite      bool
	updateAllMatches bool
	verbose          bool
	preview          int
	reportSkipped    bool
	reportLimit      int
	skippedCSV       string
	allCSV           string
}

func newSyncCmd(a *app) *cobra.Command {
	f := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync --playlist <name>",
		Short: "Plan, report and optionally apply BPM/key updates for one playlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, a, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.playlist, "playlist", "", "Exact djay playlist name (or UUID)")
	fl.IntVar(&f.limit, "limit", 0, "Limit number of tracks (0 = no limit)")
	fl.BoolVar(&f.apply, "apply", false, "Write to the Music app (otherwise dry-run)")
	fl.BoolVar(&f.noOverwrite, "no-overwrite", false, "Fill blanks only (do not overwrite)")
	fl.BoolVar(&f.updateAllMatches, "update-all-matches", false, "If several Music tracks match, update all of them (use with care)")
	fl.BoolVar(&f.verbose, "verbose", false, "Print per-track status during --apply")
	fl.IntVar(&f.preview, "preview", report.DefaultPreview, "Number of planned tracks to preview (0 = all)")
	fl.BoolVar(&f.reportSkipped, "report-skipped", false, "Print skipped track report")
	fl.IntVar(&f.reportLimit, "report-limit", report.DefaultSkippedLimit, "Limit printed skipped rows (0 = no limit)")
	fl.StringVar(&f.skippedCSV, "report-skipped-csv", "", "Write skipped report CSV to this path")
	fl.StringVar(&f.allCSV, "report-all-csv", "", "Write full report CSV to this path")
	return cmd
}

// mergeFlags lets explicitly set flags override the loaded configuration.
func (f *syncFlags) mergeFlags(cmd *cobra.Command, a *app) {
	changed := cmd.Flags().Changed
	if changed("limit") {
		a.cfg.Limit = f.limit
	}
	if changed("no-overwrite") {
		a.cfg.NoOverwrite = f.noOverwrite
	}
	if changed("update-all-matches") {
		a.cfg.UpdateAllMatches = f.updateAllMatches
	}
	if changed("preview") {
		a.cfg.PreviewLimit = f.preview
	}
	if changed("report-limit") {
		a.cfg.ReportLimit = f.reportLimit
	}
}

func runSync(cmd *cobra.Command, a *app, f *syncFlags) error {
	if f.playlist == "" {
		return errors.New("provide --playlist or use the playlists command")
	}
	f.mergeFlags(cmd, a)
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	svc, err := a.openService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if f.verbose {
		if stats, err := svc.LibraryStats(ctx); err == nil {
			collections := make([]string, 0, len(stats))
			for collection := range stats {
				collections = append(collections, collection)
			}
			slices.Sort(collections)
			for _, collection := range collections {
				a.log.Infof("Library %s: %s records", collection, humanize.Comma(stats[collection]))
			}
		} else {
			a.log.Warnf("Could not read library stats: %v", err)
		}
	}

	planned, err := svc.PlanPlaylist(ctx, f.playlist)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Playlist: %s\n", f.playlist)
	fmt.Fprintf(out, "Tracks found (with title+artist): %s\n", humanize.Comma(int64(len(planned))))
	if a.cfg.PreviewLimit > 0 {
		fmt.Fprintf(out, "Preview (first %d):\n", a.cfg.PreviewLimit)
	} else {
		fmt.Fprintln(out, "Preview:")
	}
	if err := report.WritePreview(out, planned, a.cfg.PreviewLimit); err != nil {
		return err
	}

	skipped := report.Skipped(planned)
	if f.reportSkipped {
		fmt.Fprintln(out)
		if err := report.WriteSkipped(out, skipped, a.cfg.ReportLimit); err != nil {
			return err
		}
	}
	if f.skippedCSV != "" {
		if err := report.WriteCSV(f.skippedCSV, skipped); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote skipped CSV: %s\n", f.skippedCSV)
	}
	if f.allCSV != "" {
		if err := report.WriteCSV(f.allCSV, planned); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote full CSV: %s\n", f.allCSV)
	}

	if !f.apply {
		fmt.Fprintln(out, "\nDry run only. Re-run with --apply to write to the Music app.")
		return nil
	}

	summary, err := svc.Apply(ctx, planned, func(u models.PlannedUpdate, o models.Outcome) {
		if f.verbose {
			fmt.Fprintf(out, "%s | %s / %s | src=%s\n", o, u.Artist, u.Title, u.Source)
		}
	})
	fmt.Fprintf(out, "Done. Summary: %s\n", summary)
	return err
}
