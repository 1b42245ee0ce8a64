package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show test statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)
		ctx := cmd.Context()

		user, err := a.Store.GetCurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		records, err := a.Store.GetAllTestRecords(ctx)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		fmt.Println(theme.Title.Render(strings.TrimSpace(user.AvatarEmoji + " " + user.Nickname)))
		fmt.Println(theme.Field("Member since", user.JoinDate.Local().Format("2006-01-02")))
		fmt.Println(theme.Field("Tests", fmt.Sprint(user.TestCount)))
		fmt.Println(theme.Field("Active days", fmt.Sprint(user.TestDays)))

		rows := aggregateByType(records)
		if len(rows) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Printf("%-26s  %6s  %8s  %6s  %-16s\n", "Test", "Taken", "Avg", "Last", "Last taken")
		fmt.Println(strings.Repeat("─", 72))
		for _, r := range rows {
			fmt.Printf("%-26s  %6d  %8.1f  %6s  %-16s\n",
				truncate(testTypeName(r.testTypeID), 26), r.count, r.average(),
				scoreText(r.last.TotalScore), r.last.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

type typeStats struct {
	testTypeID string
	count      int
	scored     int
	sum        int
	last       domain.TestRecord
}

func (s typeStats) average() float64 {
	if s.scored == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.scored)
}

// aggregateByType groups records (newest first) per test type, ordered by
// most recent activity.
func aggregateByType(records []domain.TestRecord) []typeStats {
	byType := make(map[string]*typeStats)
	var order []string
	for _, r := range records {
		st, ok := byType[r.TestTypeID]
		if !ok {
			st = &typeStats{testTypeID: r.TestTypeID, last: r}
			byType[r.TestTypeID] = st
			order = append(order, r.TestTypeID)
		}
		if r.CreatedAt.After(st.last.CreatedAt) {
			st.last = r
		}
		st.count++
		if r.TotalScore != nil {
			st.scored++
			st.sum += *r.TotalScore
		}
	}

	out := make([]typeStats, 0, len(order))
	for _, id := range order {
		out = append(out, *byType[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].last.CreatedAt.After(out[j].last.CreatedAt)
	})
	return out
}
