package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkathe/phishdash/internal/classify"
	"github.com/dkathe/phishdash/internal/display"
	"github.com/dkathe/phishdash/internal/gmail"
	"github.com/dkathe/phishdash/internal/ingest"
	"github.com/dkathe/phishdash/internal/risk"
	"github.com/dkathe/phishdash/internal/types"
	"github.com/dkathe/phishdash/internal/view"
)

var (
	scanMax     int
	scanSearch  string
	scanPage    int
	scanVerdict string
)

// scanReport is the JSON shape of a scan.
type scanReport struct {
	RiskScore  float64                `json:"risk_score"`
	Total      int                    `json:"total"`
	Threats    int                    `json:"threats"`
	Safe       int                    `json:"safe"`
	Unknown    int                    `json:"unknown"`
	Patterns   []types.ActivityBucket `json:"patterns"`
	External   []types.Email          `json:"external_senders,omitempty"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
	Emails     []types.ScoredEmail    `json:"emails"`
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Fetch recent messages, classify them, and show the risk dashboard",
	Long: `Fetch a batch of recent Gmail messages, run each body through the
phishing classifier, and render the aggregate risk score plus a searchable,
paginated result list.`,
	Example: `  phishdash scan
  phishdash scan --max 25
  phishdash scan --search "invoice" --page 2
  phishdash scan --verdict phishing
  phishdash scan --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if scanVerdict != "" && !types.IsValidVerdict(scanVerdict) {
			return fmt.Errorf("invalid verdict %q (valid: %s)", scanVerdict, strings.Join(types.ValidVerdicts, ", "))
		}

		session, err := openSession()
		if err != nil {
			return err
		}
		if !session.IsSignedIn() {
			return fmt.Errorf("not signed in — run 'phishdash auth signin' first")
		}

		svc, err := session.Service(ctx)
		if err != nil {
			return err
		}

		limit := int64(cfg.MaxEmails())
		if scanMax > 0 {
			limit = int64(scanMax)
		}

		classifier := classify.NewClient(cfg.ClassifierURL(), logger)
		pipeline := ingest.New(gmail.NewClient(svc, logger), classifier, logger, cfg.MaxInFlight())

		state := view.NewState(cfg.PageSize())
		token := state.Begin()
		scored, err := pipeline.Run(ctx, limit)
		if err != nil {
			return err
		}
		// Aggregates below cover the whole batch; the verdict filter only
		// narrows the result list.
		listed := scored
		if scanVerdict != "" {
			listed = nil
			for _, s := range scored {
				if s.Verdict() == scanVerdict {
					listed = append(listed, s)
				}
			}
		}

		state.ApplyBatch(token, listed)
		state.SetSearch(scanSearch)
		if scanPage > 0 {
			state.SetPage(scanPage)
		}

		emails := make([]types.Email, len(scored))
		for i, s := range scored {
			emails[i] = s.Email
		}

		score := risk.Score(scored)
		threats, safe, unknown := risk.Partition(scored)
		patterns := risk.HourlyActivity(emails)
		external := risk.ExternalSenders(emails, cfg.TrustedDomains())

		visible, totalPages := state.Visible()

		if jsonOutput {
			report := scanReport{
				RiskScore:  score,
				Total:      len(scored),
				Threats:    len(threats),
				Safe:       len(safe),
				Unknown:    len(unknown),
				Patterns:   patterns,
				External:   external,
				Page:       state.Page(),
				TotalPages: totalPages,
				Emails:     visible,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		w := cmd.OutOrStdout()

		display.Header("Email Security Score")
		fmt.Fprintf(w, "  %s\n\n", display.ScoreBar(score, 40))
		fmt.Fprintf(w, "  %d scanned — %d threats, %d safe, %d unknown\n\n",
			len(scored), len(threats), len(safe), len(unknown))

		display.Header("Email Activity Patterns")
		fmt.Fprintln(w, display.Histogram(patterns))
		fmt.Fprintln(w)

		if len(external) > 0 {
			display.Header("First-Time Senders")
			for _, e := range external {
				fmt.Fprintf(w, "  %s\n", display.Truncate(e.Sender, 60))
			}
			fmt.Fprintln(w)
		}

		display.Header("Email Analysis Results")
		if scanSearch != "" {
			fmt.Fprintf(w, "  %s\n", display.Dim.Render(fmt.Sprintf("filter: %q", scanSearch)))
		}
		if len(visible) == 0 {
			fmt.Fprintln(w, display.Muted.Render("  no matching emails"))
		}
		for _, s := range visible {
			fmt.Fprintln(w)
			fmt.Fprint(w, display.EmailCard(s))
			if s.IsThreat() {
				fmt.Fprintf(w, "  %s\n", display.Dim.Render("→ phishdash spam "+s.Email.ID))
			}
		}
		if line := display.PageLine(state.Page(), totalPages); line != "" {
			fmt.Fprintf(w, "\n%s\n", line)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVarP(&scanMax, "max", "n", 0, "Maximum messages to fetch (default: fetch.max_emails)")
	scanCmd.Flags().StringVarP(&scanSearch, "search", "s", "", "Filter results by sender/subject/body substring")
	scanCmd.Flags().IntVarP(&scanPage, "page", "p", 1, "Result page to display")
	scanCmd.Flags().StringVar(&scanVerdict, "verdict", "", "Only list emails with this verdict (phishing, safe, unknown)")
	rootCmd.AddCommand(scanCmd)
}
