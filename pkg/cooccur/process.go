package cooccur

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ProcessFiles builds one tracker from a set of JSONL files. Files are
// read concurrently (workers caps the fan-out, <= 0 means unlimited) and
// merged in sorted path order, so the result is independent of
// scheduling. All files must use the same id space: either pre-tokenized
// id records or text records, never both across the set.
func ProcessFiles(ctx context.Context, paths []string, contextLength, workers int) (*Tracker, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	locals := make([]*Tracker, len(sorted))
	grp, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		grp.SetLimit(workers)
	}
	for i, path := range sorted {
		i, path := i, path
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			local, err := readFile(path, contextLength)
			if err != nil {
				return err
			}
			locals[i] = local
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	merged, err := NewTracker(contextLength)
	if err != nil {
		return nil, err
	}
	for _, local := range locals {
		if err := merged.Merge(local); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
