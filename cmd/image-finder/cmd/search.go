package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytget/image-finder/internal/bootstrap"
	"github.com/ytget/image-finder/internal/download"
	"github.com/ytget/image-finder/internal/model"
	"github.com/ytget/image-finder/internal/session"
)

type searchOptions struct {
	pages       int
	pageSize    int
	all         bool
	pick        string
	downloadDir string
	copy        bool
	maxParallel int
}

func searchCmd(opts *rootOptions) *cobra.Command {
	so := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search images and optionally download or copy a selection",
		Long: "Search Pixabay for photos matching the keyword and print their URLs.\n" +
			"Select results with --all or --pick, then --download and/or --copy them.",
		Example: `  image-finder search "red fox" --pages 2
  image-finder search cat --pick 1,3-5 --download ~/Pictures/cats
  image-finder search sunset --all --copy`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runSearch(ctx, cmd.OutOrStdout(), opts, so, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&so.pages, "pages", "p", 1, "number of result pages to fetch")
	cmd.Flags().IntVar(&so.pageSize, "page-size", 0, "results per page (default from config)")
	cmd.Flags().BoolVarP(&so.all, "all", "a", false, "select every result")
	cmd.Flags().StringVar(&so.pick, "pick", "", "select results by number, e.g. 1,3,5-8")
	cmd.Flags().StringVarP(&so.downloadDir, "download", "d", "", "download the selection into this directory")
	cmd.Flags().BoolVar(&so.copy, "copy", false, "copy the selected URLs to the clipboard")
	cmd.Flags().IntVar(&so.maxParallel, "parallel", 0, "parallel downloads (default from config)")
	cmd.MarkFlagsMutuallyExclusive("all", "pick")

	return cmd
}

func runSearch(ctx context.Context, out io.Writer, opts *rootOptions, so *searchOptions, keyword string) error {
	if so.pages < 1 {
		return fmt.Errorf("%w: --pages must be at least 1", model.ErrInvalidInput)
	}

	services, err := opts.services(bootstrap.Options{
		PageSize:    so.pageSize,
		MaxParallel: so.maxParallel,
		DownloadDir: so.downloadDir,
	})
	if err != nil {
		return err
	}
	defer services.Close()

	sess := services.Session

	page, err := sess.StartSearch(ctx, keyword)
	if err != nil {
		return err
	}
	for i := 1; i < so.pages && page.Outcome == session.OutcomeAppended; i++ {
		if page, err = sess.LoadMore(ctx); err != nil {
			return err
		}
	}

	items := sess.Items()
	if len(items) == 0 {
		fmt.Fprintf(out, "No images found for %q\n", keyword)
		return nil
	}
	for i, item := range items {
		fmt.Fprintf(out, "%3d  %s\n", i+1, item.URL)
	}

	switch {
	case so.all:
		sess.SelectAll()
	case so.pick != "":
		picks, err := parsePicks(so.pick, len(items))
		if err != nil {
			return err
		}
		for _, n := range picks {
			url := items[n-1].URL
			if sess.IsSelected(url) {
				continue
			}
			if err := sess.ToggleSelection(url); err != nil {
				return err
			}
		}
	}

	if !sess.HasSelection() {
		if so.copy || so.downloadDir != "" {
			return fmt.Errorf("%w: select images with --all or --pick", model.ErrInvalidInput)
		}
		return nil
	}

	fmt.Fprintf(out, "\nSelected %d of %d\n", sess.SelectedCount(), len(items))

	if so.copy {
		sink := &clipboardSink{w: opts.clip}
		n, err := sess.CopySelected(sink)
		if err != nil {
			return err
		}
		if sink.err != nil {
			return fmt.Errorf("%w: writing clipboard: %w", model.ErrIO, sink.err)
		}
		fmt.Fprintf(out, "Copied %d URL(s) to the clipboard\n", n)
	}

	if so.downloadDir != "" {
		result, err := sess.DownloadSelected(ctx, so.downloadDir)
		if result != nil {
			printDownloadResult(out, result)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func printDownloadResult(out io.Writer, result *download.Result) {
	for _, task := range result.Tasks {
		if task.Status == model.TaskStatusCompleted {
			fmt.Fprintf(out, "  ok    %s (%d bytes)\n", task.GetDisplayTitle(), task.FileSize)
			continue
		}
		fmt.Fprintf(out, "  fail  %s: %s\n", task.URL, task.LastError)
	}
	fmt.Fprintf(out, "Saved %d image(s) to %s, %d failed\n", result.Completed, result.Dir, result.Failed)
}

// parsePicks parses "1,3,5-8" into sorted unique 1-based indexes within [1, n]
func parsePicks(list string, n int) ([]int, error) {
	seen := make(map[int]struct{})
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: bad pick %q", model.ErrInvalidInput, part)
		}
		last := first
		if isRange {
			if last, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("%w: bad pick %q", model.ErrInvalidInput, part)
			}
		}
		if first > last {
			first, last = last, first
		}
		if first < 1 || last > n {
			return nil, fmt.Errorf("%w: pick %q out of range 1-%d", model.ErrInvalidInput, part, n)
		}
		for i := first; i <= last; i++ {
			seen[i] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: no results picked", model.ErrInvalidInput)
	}

	picks := make([]int, 0, len(seen))
	for i := range seen {
		picks = append(picks, i)
	}
	sort.Ints(picks)
	return picks, nil
}
