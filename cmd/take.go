package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/app"
	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/quiz"
	"github.com/wayss000/Inner-See-sub000/internal/ui/components"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var takeCmd = &cobra.Command{
	Use:   "take <test-type>",
	Short: "Take a test interactively and save the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		src, _ := cmd.Flags().GetString("source")
		analyze, _ := cmd.Flags().GetBool("analyze")
		note, _ := cmd.Flags().GetString("note")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)
		ctx := cmd.Context()
		testType := domain.CanonicalTestTypeID(args[0])

		qs, err := loadQuestions(ctx, a, testType, questionSource(src, a.Bank != nil), limit)
		if err != nil {
			return err
		}
		if len(qs) == 0 {
			return fmt.Errorf("no questions available for %q", testType)
		}

		user, err := a.Store.GetCurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}

		in := bufio.NewScanner(os.Stdin)
		start := time.Now()
		choices, err := askQuestions(in, os.Stdout, qs, a.Log.Warn)
		if err != nil {
			return err
		}
		if len(choices) == 0 {
			fmt.Println("No answers given, nothing saved.")
			return nil
		}

		rec, answers, err := a.Quiz.Submit(ctx, quiz.Submission{
			UserID:     user.ID,
			TestTypeID: testType,
			StartTime:  start,
			Questions:  qs,
			Choices:    choices,
		})
		if err != nil {
			return err
		}
		printRecord(*rec)
		fmt.Println(components.NewScoreMeter("", *rec.TotalScore, *rec.MaxScore, 48).View())
		fmt.Println()

		// Mirror the record to the API. Offline this yields local ids and the
		// local copy stays authoritative.
		synced := a.Service.CreateTestRecord(ctx, *rec)
		for _, ans := range answers {
			a.Service.CreateUserAnswer(ctx, ans)
		}
		fmt.Printf("Saved as %s  sync %s\n", rec.ID, theme.Source(synced.Source.String()))

		if !analyze {
			return nil
		}
		if a.Analysis == nil {
			fmt.Println(theme.Hint.Render("AI analysis is not configured."))
			return nil
		}
		if note == "" {
			fmt.Print("\nAnything you would like to add in your own words? (Enter to skip): ")
			if in.Scan() {
				note = strings.TrimSpace(in.Text())
			}
		}
		fmt.Println(theme.Hint.Render("Asking the AI for an analysis..."))
		result, err := a.Quiz.Enrich(ctx, rec.ID, note)
		if err != nil {
			return fmt.Errorf("AI analysis failed (your result is saved): %w", err)
		}
		printAnalysis(*result)
		return nil
	},
}

// questionSource picks the bank when one is configured and no source was
// requested explicitly.
func questionSource(flag string, haveBank bool) string {
	if flag != "" {
		return flag
	}
	if haveBank {
		return "bank"
	}
	return "api"
}

// loadQuestions reads up to limit questions (0 for all) from the API
// service or the packaged bank.
func loadQuestions(ctx context.Context, a *app.App, testType, src string, limit int) ([]domain.Question, error) {
	if src != "bank" {
		return a.Service.GetQuestionsByTestType(ctx, testType, 1, limit).Data, nil
	}
	if a.Bank == nil {
		return nil, errNoBank
	}

	var qs []domain.Question
	it := a.Bank.Iterate(testType, 0)
	for limit <= 0 || len(qs) < limit {
		q, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// askQuestions prompts for every question and returns the chosen option
// values by question id. An empty line skips a question; "q" stops early.
func askQuestions(in *bufio.Scanner, out io.Writer, qs []domain.Question, warn func(string, ...interface{})) (map[string]string, error) {
	choices := make(map[string]string, len(qs))
	for i, q := range qs {
		opts := q.OptionsOrPlaceholder(func(err error) {
			warn("question options unreadable", "question_id", q.ID, "error", err.Error())
		})

		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, len(qs))
		fmt.Fprintln(out, q.QuestionText)
		for j, o := range opts {
			fmt.Fprintf(out, "  %d) %s\n", j+1, o.Label)
		}

		for {
			fmt.Fprint(out, "\nYour answer: ")
			if !in.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return choices, in.Err()
			}
			answer := strings.TrimSpace(in.Text())
			if answer == "" {
				fmt.Fprintln(out, "(skipped)")
				break
			}
			if strings.EqualFold(answer, "q") {
				return choices, nil
			}
			if value, ok := matchOption(opts, answer); ok {
				choices[q.ID] = value
				break
			}
			fmt.Fprintf(out, "Pick 1-%d, an option value, or Enter to skip.\n", len(opts))
		}
		fmt.Fprintln(out)
	}
	return choices, nil
}

// matchOption resolves a 1-based index or an option value.
func matchOption(opts []domain.QuestionOption, answer string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(opts) {
		return opts[n-1].Value, true
	}
	for _, o := range opts {
		if strings.EqualFold(o.Value, answer) {
			return o.Value, true
		}
	}
	return "", false
}

func init() {
	takeCmd.Flags().IntP("limit", "n", 0, "Ask at most this many questions (0 for all)")
	takeCmd.Flags().String("source", "", "Where to read questions from: api or bank (default bank when configured, else api)")
	takeCmd.Flags().Bool("analyze", false, "Ask the AI for an analysis after saving")
	takeCmd.Flags().String("note", "", "Your own words to include in the AI analysis")
}
