package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var showCmd = &cobra.Command{
	Use:   "show <record-id>",
	Short: "Show a completed test with its answers and AI analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)
		ctx := cmd.Context()

		rec, err := a.Store.GetTestRecordByID(ctx, args[0])
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("record %q not found", args[0])
		}
		answers, err := a.Store.GetUserAnswersByRecordID(ctx, rec.ID)
		if err != nil {
			return err
		}

		printRecord(*rec)

		if len(answers) > 0 {
			fmt.Println()
			fmt.Println(theme.Subtitle.Render("Answers"))
			for i, ans := range answers {
				choice := ans.UserChoiceText
				if choice == "" {
					choice = ans.UserChoice
				}
				fmt.Printf("%2d. %s\n    %s (%d)\n", i+1, ans.QuestionText, choice, ans.ScoreObtained)
			}
		}

		if rec.AIAnalysisResult == "" {
			fmt.Println()
			fmt.Println(theme.Hint.Render("No AI analysis yet. Run: innersee analyze " + rec.ID))
			return nil
		}
		result, err := domain.ParseAIAnalysisResult(rec.AIAnalysisResult)
		if err != nil {
			a.Log.Warn("stored AI analysis unreadable", "record_id", rec.ID, "error", err.Error())
			fmt.Println(theme.Failure.Render("The stored AI analysis could not be read."))
			return nil
		}
		printAnalysis(*result)
		return nil
	},
}

func printRecord(rec domain.TestRecord) {
	label, summary, _ := strings.Cut(rec.ResultSummary, ":")
	fmt.Println(theme.Title.Render(testTypeName(rec.TestTypeID)))
	fmt.Println(theme.Field("Completed", rec.CreatedAt.Local().Format("2006-01-02 15:04")))
	if rec.EndTime != nil {
		fmt.Println(theme.Field("Duration", rec.EndTime.Sub(rec.StartTime).Round(time.Second).String()))
	}
	score := scoreText(rec.TotalScore)
	if rec.MaxScore != nil && *rec.MaxScore > 0 {
		score += fmt.Sprintf(" / %d", *rec.MaxScore)
	}
	fmt.Println(theme.Field("Score", score))
	fmt.Println(theme.Field("Result", strings.TrimSpace(label)))
	if s := strings.TrimSpace(summary); s != "" {
		fmt.Println(theme.Body.Render(s))
	}
	if rec.ImprovementSuggestions != "" {
		fmt.Println()
		fmt.Println(theme.Subtitle.Render("Suggestions"))
		fmt.Println(rec.ImprovementSuggestions)
	}
	if rec.ReferenceMaterials != "" {
		fmt.Println()
		fmt.Println(theme.Subtitle.Render("References"))
		fmt.Println(rec.ReferenceMaterials)
	}
}

func printAnalysis(r domain.AIAnalysisResult) {
	var b strings.Builder
	section := func(title, body string) {
		if body == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(theme.Subtitle.Render(title))
		b.WriteString("\n")
		b.WriteString(body)
	}
	section("Summary", r.Summary)
	section("Suggestions", r.Suggestions)
	section("Further reading", r.References)
	if b.Len() == 0 {
		b.WriteString(r.RawText)
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(r.Disclaimer))

	fmt.Println()
	fmt.Println(theme.Title.Render("AI analysis"))
	fmt.Println(theme.Card.Render(b.String()))
}
