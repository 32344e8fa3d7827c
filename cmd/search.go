package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sm0kydev/skingraft/pkg/catalog"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the gun catalog by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := catalog.Load(viper.GetString("files.catalog"))
		if err != nil {
			return err
		}

		results := catalog.Search(records, args[0])
		if len(results) == 0 {
			fmt.Printf("No gun matches %q.\n", args[0])
			return nil
		}
		for _, r := range results {
			fmt.Printf("%s  %s  %s\n", r.ID, r.Hex, colorizeName(r.Name))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
