package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sm0kydev/skingraft/pkg/fetch"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download refreshed catalog and skin index files",
	Long:  `Download community-maintained gun catalog and skin index files into the configured locations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogURL, _ := cmd.Flags().GetString("catalog-url")
		indexURL, _ := cmd.Flags().GetString("index-url")
		if catalogURL == "" && indexURL == "" {
			return fmt.Errorf("nothing to fetch: pass --catalog-url and/or --index-url")
		}

		if catalogURL != "" {
			dest := viper.GetString("files.catalog")
			if err := fetch.Download(catalogURL, dest); err != nil {
				return err
			}
			fmt.Printf("Catalog updated: %s\n", dest)
		}
		if indexURL != "" {
			dest := viper.GetString("files.skin_index")
			if err := fetch.Download(indexURL, dest); err != nil {
				return err
			}
			fmt.Printf("Skin index updated: %s\n", dest)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().String("catalog-url", "", "URL of the gun catalog file")
	fetchCmd.Flags().String("index-url", "", "URL of the skin index file")
}
