package risk

import (
	"testing"

	"github.com/dkathe/phishdash/internal/types"
)

func scored(id string, c *types.Classification) types.ScoredEmail {
	return types.ScoredEmail{Email: types.Email{ID: id}, Classification: c}
}

var (
	phishy = &types.Classification{Phishing: 0.8, NotPhishing: 0.2}
	benign = &types.Classification{Phishing: 0.1, NotPhishing: 0.9}
)

func TestScore_EmptyBatch(t *testing.T) {
	// Vacuously "fully safe".
	if got := Score(nil); got != 100 {
		t.Errorf("Score(nil) = %v, want 100", got)
	}
	if got := Score([]types.ScoredEmail{}); got != 100 {
		t.Errorf("Score([]) = %v, want 100", got)
	}
}

func TestScore_PhishingFraction(t *testing.T) {
	batch := []types.ScoredEmail{
		scored("1", phishy),
		scored("2", benign),
		scored("3", benign),
		scored("4", benign),
	}
	if got := Score(batch); got != 25 {
		t.Errorf("Score = %v, want 25", got)
	}
}

func TestScore_Bounds(t *testing.T) {
	all := []types.ScoredEmail{scored("1", phishy), scored("2", phishy)}
	if got := Score(all); got != 100 {
		t.Errorf("Score(all phishing) = %v, want 100", got)
	}
	none := []types.ScoredEmail{scored("1", benign), scored("2", benign)}
	if got := Score(none); got != 0 {
		t.Errorf("Score(none phishing) = %v, want 0", got)
	}
}

func TestScore_FailedClassificationsCountNotPhishing(t *testing.T) {
	// A nil classification keeps the denominator stable and contributes
	// nothing to the phishing count.
	batch := []types.ScoredEmail{
		scored("1", phishy),
		scored("2", nil),
		scored("3", nil),
		scored("4", nil),
	}
	if got := Score(batch); got != 25 {
		t.Errorf("Score = %v, want 25", got)
	}

	allFailed := []types.ScoredEmail{scored("1", nil), scored("2", nil)}
	if got := Score(allFailed); got != 0 {
		t.Errorf("Score(all failed) = %v, want 0", got)
	}
}

func TestPartition_ThreeWay(t *testing.T) {
	batch := []types.ScoredEmail{
		scored("1", phishy),
		scored("2", benign),
		scored("3", nil),
		scored("4", phishy),
	}

	threats, safe, unknown := Partition(batch)
	if len(threats) != 2 || threats[0].Email.ID != "1" || threats[1].Email.ID != "4" {
		t.Errorf("threats = %+v", threats)
	}
	if len(safe) != 1 || safe[0].Email.ID != "2" {
		t.Errorf("safe = %+v", safe)
	}
	// Failed classification is unknown, never safe.
	if len(unknown) != 1 || unknown[0].Email.ID != "3" {
		t.Errorf("unknown = %+v", unknown)
	}
}

func TestHourlyActivity(t *testing.T) {
	emails := []types.Email{
		{ID: "1", Date: "Mon, 2 Jun 2025 09:15:00 +0000"},
		{ID: "2", Date: "Tue, 3 Jun 2025 09:45:00 +0000"},
		{ID: "3", Date: "Wed, 4 Jun 2025 17:05:00 +0000"},
		{ID: "4", Date: "not a date"},
		{ID: "5", Date: ""},
	}

	buckets := HourlyActivity(emails)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %+v, want 2 entries", buckets)
	}
	if buckets[0].Hour != 9 || buckets[0].Count != 2 {
		t.Errorf("bucket[0] = %+v, want hour 9 count 2", buckets[0])
	}
	if buckets[1].Hour != 17 || buckets[1].Count != 1 {
		t.Errorf("bucket[1] = %+v, want hour 17 count 1", buckets[1])
	}
}

func TestExternalSenders(t *testing.T) {
	emails := []types.Email{
		{ID: "1", Sender: "Alice <alice@corp.example>"},
		{ID: "2", Sender: "stranger@elsewhere.net"},
		{ID: "3", Sender: "bob@CORP.EXAMPLE"},
	}

	external := ExternalSenders(emails, []string{"corp.example"})
	if len(external) != 1 || external[0].ID != "2" {
		t.Errorf("external = %+v, want only the stranger", external)
	}

	// No trusted domains: everyone is external.
	if got := ExternalSenders(emails, nil); len(got) != 3 {
		t.Errorf("external with no trust list = %d entries, want 3", len(got))
	}
}
