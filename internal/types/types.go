// Package types defines core data structures for phishdash.
package types

// Email is a normalized Gmail message as used by the dashboard.
// Snippet holds the extracted plain-text body, not the provider snippet.
type Email struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Snippet string `json:"snippet"`
}

// Classification is the score pair returned by the inference endpoint.
type Classification struct {
	Phishing    float64 `json:"phishing"`
	NotPhishing float64 `json:"not_phishing"`
}

// ScoredEmail pairs an email with its classification. A nil Classification
// means the classifier call failed; such an email is "unknown", never "safe".
type ScoredEmail struct {
	Email          Email           `json:"email"`
	Classification *Classification `json:"classification,omitempty"`
}

// Verdict constants.
const (
	VerdictPhishing = "phishing"
	VerdictSafe     = "safe"
	VerdictUnknown  = "unknown"
)

// Verdict returns the three-way verdict for a scored email.
func (s ScoredEmail) Verdict() string {
	switch {
	case s.Classification == nil:
		return VerdictUnknown
	case s.Classification.Phishing > s.Classification.NotPhishing:
		return VerdictPhishing
	default:
		return VerdictSafe
	}
}

// IsThreat reports whether the classifier scored the email as phishing.
func (s ScoredEmail) IsThreat() bool {
	return s.Verdict() == VerdictPhishing
}

// ValidVerdicts is the set of allowed verdict values.
var ValidVerdicts = []string{VerdictPhishing, VerdictSafe, VerdictUnknown}

// IsValidVerdict checks if a verdict string is valid.
func IsValidVerdict(v string) bool {
	for _, w := range ValidVerdicts {
		if w == v {
			return true
		}
	}
	return false
}

// ActivityBucket counts messages received during one hour of the day.
type ActivityBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}
