package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every completed test",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes all test history; re-run with --yes to confirm")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)
		ctx := cmd.Context()

		records, err := a.Store.GetAllTestRecords(ctx)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		users := make(map[string]bool)
		for _, r := range records {
			if err := a.Store.DeleteTestRecord(ctx, r.ID); err != nil {
				return fmt.Errorf("delete record %s: %w", r.ID, err)
			}
			users[r.UserID] = true
		}
		for id := range users {
			if err := a.Store.RefreshUserStats(ctx, id); err != nil {
				a.Log.Warn("refresh user stats failed", "user_id", id, "error", err.Error())
			}
		}

		fmt.Printf("Deleted %d records.\n", len(records))
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
