package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var typesCmd = &cobra.Command{
	Use:   "types [id]",
	Short: "List the available test types, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer closeApp(cmd, a)
		ctx := cmd.Context()

		if len(args) == 1 {
			res := a.Service.GetTestTypeByID(ctx, args[0])
			if res.Data == nil {
				return fmt.Errorf("unknown test type %q", args[0])
			}
			printTestType(*res.Data)
			fmt.Println(theme.Source(res.Source.String()))
			return nil
		}

		var (
			types  []domain.TestType
			source string
		)
		if src, _ := cmd.Flags().GetString("source"); src == "bank" {
			if a.Bank == nil {
				return errNoBank
			}
			if types, err = a.Bank.Categories(ctx); err != nil {
				return err
			}
			source = "local"
		} else {
			res := a.Service.GetTestTypes(ctx)
			types, source = res.Data, res.Source.String()
		}

		if len(types) == 0 {
			fmt.Println("No test types found.")
			return nil
		}

		fmt.Printf("%-22s  %-32s  %-12s  %5s  %4s\n", "ID", "Name", "Category", "Min", "Qs")
		fmt.Println(strings.Repeat("─", 84))
		for _, t := range types {
			fmt.Printf("%-22s  %-32s  %-12s  %5d  %4d\n",
				truncate(t.ID, 22), truncate(t.Name, 32), truncate(t.Category, 12),
				t.EstimatedDuration, t.QuestionCount)
		}
		fmt.Println(strings.Repeat("─", 84))
		fmt.Printf("%d test types  %s\n", len(types), theme.Source(source))
		return nil
	},
}

func printTestType(t domain.TestType) {
	fmt.Println(theme.Title.Render(strings.TrimSpace(t.Icon + " " + t.Name)))
	if t.Description != "" {
		fmt.Println(theme.Hint.Render(t.Description))
	}
	fmt.Println(theme.Field("ID", t.ID))
	fmt.Println(theme.Field("Category", t.Category))
	if t.EstimatedDuration > 0 {
		fmt.Println(theme.Field("Duration", fmt.Sprintf("%d min", t.EstimatedDuration)))
	}
	if t.QuestionCount > 0 {
		fmt.Println(theme.Field("Questions", fmt.Sprint(t.QuestionCount)))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	typesCmd.Flags().String("source", "api", "Where to list test types from: api or bank")
}
