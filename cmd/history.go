package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/fallback"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed tests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		testType, _ := cmd.Flags().GetString("type")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)

		records, err := a.Store.GetAllTestRecords(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if testType != "" {
			records = filterRecords(records, domain.CanonicalTestTypeID(testType))
		}
		if len(records) == 0 {
			fmt.Println("No completed tests yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-22s  %5s  %-10s  %s\n", "ID", "Completed", "Test", "Score", "Result", "AI")
		fmt.Println(strings.Repeat("─", 104))
		shown := 0
		for _, r := range records {
			if limit > 0 && shown == limit {
				break
			}
			fmt.Printf("%-36s  %-16s  %-22s  %5s  %-10s  %s\n",
				truncate(r.ID, 36),
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(testTypeName(r.TestTypeID), 22),
				scoreText(r.TotalScore),
				truncate(resultLabel(r.ResultSummary), 10),
				aiMark(r),
			)
			shown++
		}
		fmt.Println(strings.Repeat("─", 104))
		fmt.Printf("%d of %d records\n", shown, len(records))
		return nil
	},
}

func filterRecords(records []domain.TestRecord, testTypeID string) []domain.TestRecord {
	out := records[:0]
	for _, r := range records {
		if r.TestTypeID == testTypeID {
			out = append(out, r)
		}
	}
	return out
}

// testTypeName resolves a display name without touching the network.
func testTypeName(id string) string {
	if t, ok := fallback.TestType(id); ok {
		return t.Name
	}
	return id
}

func scoreText(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprint(*score)
}

// resultLabel returns the band label of a "Label: summary" result.
func resultLabel(summary string) string {
	label, _, _ := strings.Cut(summary, ":")
	return strings.TrimSpace(label)
}

func aiMark(r domain.TestRecord) string {
	if r.AIAnalysisResult == "" {
		return ""
	}
	return theme.Live.Render("✓")
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of records to show (0 for all)")
	historyCmd.Flags().String("type", "", "Only records of this test type")
}
