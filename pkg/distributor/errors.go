package distributor

import "fmt"

// DownloadFailedError reports that one file in an install plan could not be
// fetched. It aborts the current install; the partial tree plus the old
// game_metadata.json remain on disk, so the next run retries.
type DownloadFailedError struct {
	File   string
	Reason error
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("distributor: download failed for %q: %v", e.File, e.Reason)
}

func (e *DownloadFailedError) Unwrap() error { return e.Reason }
