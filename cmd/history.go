package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sm0kydev/skingraft/pkg/history"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent patch events from the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		events, err := db.List(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No patch history yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "WHEN\tCATEGORY\tFILE\tSOURCE\tTARGET\t")
		for _, e := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				e.OccurredAt.Format("2006-01-02 15:04"), e.Category, e.FileName, e.SourceGun, e.TargetGun)
		}
		w.Flush()
		return nil
	},
}

// historyStatsCmd represents the history stats command
var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints patch counts per asset category.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "CATEGORY\tPATCHES\tFILES\t")

		var totalPatches, totalFiles int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t\n", s.Category, s.PatchCount, s.FileCount)
			totalPatches += s.PatchCount
			totalFiles += s.FileCount
		}

		fmt.Fprintln(w, " \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t\n", totalPatches, totalFiles)

		w.Flush()
		return nil
	},
}

func openHistory() (*history.DB, error) {
	dbPath := viper.GetString("files.history_db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("history database not found: %s", dbPath)
	}
	return history.Open(dbPath)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of events to list")
}
