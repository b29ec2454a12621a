package numa

import (
	"os"

	"golang.org/x/sync/errgroup"
)

// prefault writes one byte per page so the kernel attaches physical memory
// under the active memory policy. Large ranges are split across workers.
func prefault(pages []byte, workers int) error {
	page := os.Getpagesize()
	n := len(pages)
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	// At least 64 pages per goroutine; below that the spawn cost dominates.
	chunk := max((n/workers+page-1)&^(page-1), 64*page)

	var g errgroup.Group
	g.SetLimit(workers)
	for off := 0; off < n; off += chunk {
		end := min(off+chunk, n)
		g.Go(func() error {
			for i := off; i < end; i += page {
				pages[i] = 0
			}
			return nil
		})
	}
	return g.Wait()
}
