package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayss000/Inner-See-sub000/internal/store"
	"github.com/wayss000/Inner-See-sub000/internal/ui/theme"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Show your profile. Pass any of the flags to change the matching field;
--model selects the AI model used for analysis.`,
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

		upd, changed := profileUpdate(cmd)
		if changed {
			if err := a.Store.UpdateUser(ctx, user.ID, upd); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
			if user, err = a.Store.GetCurrentUser(ctx); err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
		}

		fmt.Println(theme.Title.Render(strings.TrimSpace(user.AvatarEmoji + " " + user.Nickname)))
		fmt.Println(theme.Field("ID", user.ID))
		fmt.Println(theme.Field("Joined", user.JoinDate.Local().Format("2006-01-02")))
		if user.Gender != "" {
			fmt.Println(theme.Field("Gender", user.Gender))
		}
		if user.Age != nil {
			fmt.Println(theme.Field("Age", fmt.Sprint(*user.Age)))
		}
		if user.Occupation != "" {
			fmt.Println(theme.Field("Occupation", user.Occupation))
		}
		fmt.Println(theme.Field("AI model", user.SelectedModel))
		return nil
	},
}

// profileUpdate collects the flags the user actually set.
func profileUpdate(cmd *cobra.Command) (store.UserUpdate, bool) {
	var upd store.UserUpdate
	changed := false
	str := func(name string, dst **string) {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetString(name)
			*dst = &v
			changed = true
		}
	}
	str("nickname", &upd.Nickname)
	str("avatar", &upd.AvatarEmoji)
	str("gender", &upd.Gender)
	str("occupation", &upd.Occupation)
	str("model", &upd.SelectedModel)
	if cmd.Flags().Changed("age") {
		v, _ := cmd.Flags().GetInt("age")
		upd.Age = &v
		changed = true
	}
	return upd, changed
}

func init() {
	profileCmd.Flags().String("nickname", "", "Display name")
	profileCmd.Flags().String("avatar", "", "Avatar emoji")
	profileCmd.Flags().String("gender", "", "Gender")
	profileCmd.Flags().Int("age", 0, "Age")
	profileCmd.Flags().String("occupation", "", "Occupation")
	profileCmd.Flags().String("model", "", "AI model used for analysis")
}
