package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/quiz"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <record-id>",
	Short: "Ask the AI to interpret a completed test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)

		if a.Analysis == nil {
			return errors.New("AI analysis is not configured (set INNERSEE_LLM_PROVIDER and its API key)")
		}

		fmt.Println(theme.Hint.Render("Asking the AI for an analysis..."))
		result, err := a.Quiz.Enrich(cmd.Context(), args[0], note)
		if errors.Is(err, quiz.ErrRecordNotFound) {
			return fmt.Errorf("record %q not found", args[0])
		}
		if err != nil {
			return err
		}
		printAnalysis(*result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("note", "", "Your own words to include in the analysis")
}
