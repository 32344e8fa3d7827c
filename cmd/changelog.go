package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sm0kydev/skingraft/pkg/changelog"
)

// changelogCmd represents the changelog command
var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Print the modding changelog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := changelog.Load(viper.GetString("files.changelog"))
		if err != nil {
			return err
		}

		entries := cl.Entries()
		if len(entries) == 0 {
			fmt.Println("Changelog is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Println(e.Raw)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
}
