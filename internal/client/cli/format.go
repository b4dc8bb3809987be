package cli

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const dateLayout = "Mon, 2 Jan 2006 15:04"

// naira formats a major-unit amount as ₦1,000.
func naira(amount int64) string {
	return "₦" + humanize.Comma(amount)
}

func formatDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// describeImage summarises a stored profile image reference.
func describeImage(ref string) string {
	switch {
	case ref == "":
		return "none"
	case strings.HasPrefix(ref, "data:"):
		ct, _, _ := strings.Cut(strings.TrimPrefix(ref, "data:"), ";")
		return "inline " + ct + " (" + humanize.Bytes(uint64(len(ref))) + " encoded)"
	default:
		return ref
	}
}
