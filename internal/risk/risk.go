// Package risk folds per-email classifications into dashboard aggregates.
package risk

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/dkathe/phishdash/internal/types"
)

// Score computes the batch risk score in [0,100]:
// 100 × (emails scored phishing) / (total emails).
//
// An empty batch scores 100: vacuously "fully safe". Failed classifications
// count as not-phishing here so the denominator stays stable; they remain
// "unknown" at the verdict level.
func Score(batch []types.ScoredEmail) float64 {
	if len(batch) == 0 {
		return 100
	}
	phished := 0
	for _, s := range batch {
		if s.IsThreat() {
			phished++
		}
	}
	return float64(phished) / float64(len(batch)) * 100
}

// Partition splits a batch by verdict.
func Partition(batch []types.ScoredEmail) (threats, safe, unknown []types.ScoredEmail) {
	for _, s := range batch {
		switch s.Verdict() {
		case types.VerdictPhishing:
			threats = append(threats, s)
		case types.VerdictUnknown:
			unknown = append(unknown, s)
		default:
			safe = append(safe, s)
		}
	}
	return threats, safe, unknown
}

// HourlyActivity buckets emails by the hour of day they were received.
// Emails with unparseable dates are skipped. Buckets are sorted by hour.
func HourlyActivity(emails []types.Email) []types.ActivityBucket {
	counts := make(map[int]int)
	for _, e := range emails {
		t, err := mail.ParseDate(e.Date)
		if err != nil {
			continue
		}
		counts[t.Hour()]++
	}

	buckets := make([]types.ActivityBucket, 0, len(counts))
	for hour, count := range counts {
		buckets = append(buckets, types.ActivityBucket{Hour: hour, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Hour < buckets[j].Hour })
	return buckets
}

// ExternalSenders returns the emails whose sender is outside every trusted
// domain. Matching is a case-insensitive substring check on the full sender
// header, so display names and angle brackets don't interfere.
func ExternalSenders(emails []types.Email, trustedDomains []string) []types.Email {
	var external []types.Email
	for _, e := range emails {
		if !isTrusted(e.Sender, trustedDomains) {
			external = append(external, e)
		}
	}
	return external
}

func isTrusted(sender string, trustedDomains []string) bool {
	lower := strings.ToLower(sender)
	for _, domain := range trustedDomains {
		if domain == "" {
			continue
		}
		if strings.Contains(lower, "@"+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}
