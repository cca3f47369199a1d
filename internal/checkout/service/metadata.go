package service

import (
	"fmt"
	"strings"

	taxdomain "github.com/eventlane/eventlane/internal/tax/domain"
)

// Payment processors enforce hard byte limits on session metadata. Keys and
// values past the cap are dropped whole, least essential first; a silently
// truncated value is worse than an absent one.
const metadataMaxBytes = 1000

// buildSessionMetadata assembles the metadata payload attached to the hosted
// session. customer_id always survives; tax_total and tax_rates are shed in
// that order when the payload would exceed the cap.
func buildSessionMetadata(customerID string, taxTotal int64, lines []taxdomain.Line) map[string]string {
	md := map[string]string{
		"customer_id": customerID,
		"tax_total":   fmt.Sprintf("%d", taxTotal),
	}
	if rates := abbreviateRates(lines); rates != "" {
		md["tax_rates"] = rates
	}

	for _, key := range []string{"tax_rates", "tax_total"} {
		if metadataSize(md) <= metadataMaxBytes {
			break
		}
		delete(md, key)
	}
	return md
}

// abbreviateRates renders per-jurisdiction rates as "code=rate%" pairs.
func abbreviateRates(lines []taxdomain.Line) string {
	if len(lines) == 0 {
		return ""
	}
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s=%.3g%%", line.Jurisdiction, line.Rate))
	}
	return strings.Join(parts, ",")
}

func metadataSize(md map[string]string) int {
	size := 0
	for k, v := range md {
		size += len(k) + len(v)
	}
	return size
}
