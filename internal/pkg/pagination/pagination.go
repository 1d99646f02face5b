// Package pagination computes the page summaries returned by list endpoints.
package pagination

import (
	"fmt"
	"math"
)

// TotalPages returns the number of pages of size limit needed for total items.
func TotalPages(limit int, total int64) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Showing renders the "from-to of total" label for a page, or "0 of 0" when empty.
func Showing(page, limit int, total int64) string {
	if total == 0 {
		return "0 of 0"
	}
	from := (page-1)*limit + 1
	to := min(page*limit, int(total))
	return fmt.Sprintf("%d-%d of %d", from, to, total)
}
