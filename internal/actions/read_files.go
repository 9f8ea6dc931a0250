package actions

import (
	"context"
	"fmt"
	"os"
	"sync"

	"shipit.dev/shipit/internal/errors"
)

// maxConcurrentReads bounds the file-read fan-out
const maxConcurrentReads = 8

// readFiles reads every file's content in parallel, bounded by
// maxConcurrentReads. The first failure cancels the remaining reads and
// aborts the whole batch, naming the offending path; a partial result is
// never returned. No remote call has been made by the time this runs for
// writes beyond the two reads of ref and commit.
func readFiles(ctx context.Context, paths []repoPath) (map[string]string, error) {
	contents := make(map[string]string, len(paths))

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	sem := make(chan struct{}, maxConcurrentReads)

	for _, p := range paths {
		wg.Add(1)
		go func(p repoPath) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-readCtx.Done():
				return
			}

			data, err := os.ReadFile(p.Local)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = errors.NewFileReadError(p.Local, err)
					cancel()
				}
				return
			}
			contents[p.Repo] = string(data)
		}(p)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	// A caller-side cancellation can park readers on the semaphore until
	// the cancel fires, leaving paths unread without any read error. The
	// batch is all-or-nothing, so a partial map must never escape.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", stageReadFiles, err)
	}

	return contents, nil
}
