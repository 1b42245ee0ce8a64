package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var errNoBank = errors.New("no question bank configured (set INNERSEE_QUESTION_BANK or --question-bank)")

var questionsCmd = &cobra.Command{
	Use:   "questions <test-type>",
	Short: "Browse the questions of a test type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		if id == "" && len(args) == 0 {
			return errors.New("a test type or --id is required")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)
		ctx := cmd.Context()
		src, _ := cmd.Flags().GetString("source")

		if id != "" {
			var (
				q      *domain.Question
				source string
			)
			if src == "bank" {
				if a.Bank == nil {
					return errNoBank
				}
				if q, err = a.Bank.Question(ctx, id); err != nil {
					return err
				}
				source = "local"
			} else {
				res := a.Service.GetQuestionByID(ctx, id)
				q, source = res.Data, res.Source.String()
			}
			if q == nil {
				return fmt.Errorf("question %q not found", id)
			}
			printQuestion(*q, a.Log.Warn)
			fmt.Println(theme.Source(source))
			return nil
		}

		testType := args[0]
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")
		search, _ := cmd.Flags().GetString("search")
		recommended, _ := cmd.Flags().GetInt("recommended")
		if page < 1 {
			page = 1
		}

		var (
			qs      []domain.Question
			source  string
			total   int
			hasMore bool
		)
		switch {
		case src == "bank":
			if a.Bank == nil {
				return errNoBank
			}
			batch, err := a.Bank.LoadBatch(ctx, testType, (page-1)*size, size)
			if err != nil {
				return err
			}
			qs, total, hasMore, source = batch.Questions, batch.Total, batch.HasMore, "local"
		case search != "":
			res := a.Service.SearchQuestions(ctx, search, testType)
			qs, source, total = res.Data, res.Source.String(), len(res.Data)
		case recommended > 0:
			res := a.Service.GetRecommendedQuestions(ctx, testType, recommended)
			qs, source, total = res.Data, res.Source.String(), len(res.Data)
		default:
			res := a.Service.GetQuestionsByTestType(ctx, testType, page, size)
			qs, source = res.Data, res.Source.String()
			total = a.Service.GetQuestionCountByTestType(ctx, testType).Data
			hasMore = a.Service.HasMoreQuestions(ctx, testType, page, size).Data
		}

		if len(qs) == 0 {
			fmt.Println("No questions found.")
			return nil
		}

		fmt.Printf("%-28s  %-5s  %s\n", "ID", "Order", "Question")
		fmt.Println(strings.Repeat("─", 90))
		for _, q := range qs {
			fmt.Printf("%-28s  %-5d  %s\n", truncate(q.ID, 28), q.SortOrder, truncate(q.QuestionText, 52))
		}
		fmt.Println(strings.Repeat("─", 90))

		summary := fmt.Sprintf("%d of %d questions", len(qs), total)
		if hasMore {
			summary += fmt.Sprintf(", more on page %d", page+1)
		}
		fmt.Printf("%s  %s\n", summary, theme.Source(source))
		return nil
	},
}

func printQuestion(q domain.Question, warn func(string, ...interface{})) {
	fmt.Println(theme.Subtitle.Render(q.QuestionText))
	opts := q.OptionsOrPlaceholder(func(err error) {
		warn("question options unreadable", "question_id", q.ID, "error", err.Error())
	})
	for i, o := range opts {
		fmt.Printf("  %d) %s\n", i+1, o.Label)
	}
	if q.SourceReference != "" {
		fmt.Println(theme.Hint.Render("Source: " + q.SourceReference))
	}
}

func init() {
	questionsCmd.Flags().Int("page", 1, "Page number, starting at 1")
	questionsCmd.Flags().Int("size", 10, "Questions per page")
	questionsCmd.Flags().String("search", "", "Only questions containing this keyword")
	questionsCmd.Flags().Int("recommended", 0, "Show this many recommended questions")
	questionsCmd.Flags().String("id", "", "Show a single question")
	questionsCmd.Flags().String("source", "api", "Where to read questions from: api or bank")
}
