package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sm0kydev/skingraft/internal/utils"
	"github.com/sm0kydev/skingraft/pkg/catalog"
	"github.com/sm0kydev/skingraft/pkg/changelog"
	"github.com/sm0kydev/skingraft/pkg/history"
	"github.com/sm0kydev/skingraft/pkg/session"
	"github.com/sm0kydev/skingraft/pkg/skindex"
)

// modCmd represents the mod command
var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Start an interactive skin modding session",
	Long:  `Interactively pick a source gun and a target skin, then patch every staged asset category in the repack directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := catalog.Load(viper.GetString("files.catalog"))
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("gun catalog is empty: %s", viper.GetString("files.catalog"))
		}

		paths := configuredPaths()
		if err := os.MkdirAll(paths.Repack, 0755); err != nil {
			return err
		}

		idx, err := skindex.Parse(paths.SkinIndex)
		if err != nil {
			utils.Log.Warnf("skin index unavailable, icon modding disabled: %v", err)
			idx = nil
		}

		cl, err := changelog.Load(viper.GetString("files.changelog"))
		if err != nil {
			return err
		}

		hist, err := history.Open(viper.GetString("files.history_db"))
		if err != nil {
			utils.Log.Warnf("patch history unavailable: %v", err)
			hist = nil
		}
		defer hist.Close()

		s := session.New(paths, records, idx, cl, hist)
		reader := bufio.NewReader(os.Stdin)

		for {
			source, ok := pickGun(reader, records, "source gun")
			if !ok {
				break
			}
			target, ok := pickGun(reader, records, "target skin")
			if !ok {
				break
			}

			res, err := s.Graft(context.Background(), source, target)
			if err != nil {
				utils.Log.Error(err)
			} else if len(res.Lines) == 0 {
				fmt.Println("Nothing to do: no staged file matched the fingerprints.")
			} else {
				for _, line := range res.Lines {
					fmt.Println("\033[32m" + line + "\033[0m")
				}
			}

			if removed, err := s.Prune(); err != nil {
				utils.Log.Warnf("%v", err)
			} else if len(removed) > 0 {
				utils.Log.Debugf("pruned %d unmodified file(s)", len(removed))
			}
			if err := cl.Save(); err != nil {
				utils.Log.Errorf("save changelog: %v", err)
			}

			if !promptYesNo(reader, "Mod another gun? (y/n): ") {
				break
			}
		}
		return nil
	},
}

// pickGun runs the search-then-choose prompt loop. Returns false when the
// user submits an empty query to leave the session.
func pickGun(reader *bufio.Reader, records []catalog.GunRecord, what string) (catalog.GunRecord, bool) {
	for {
		fmt.Printf("Search %s (empty to quit): ", what)
		query, err := reader.ReadString('\n')
		if err != nil {
			return catalog.GunRecord{}, false
		}
		query = strings.TrimSpace(query)
		if query == "" {
			return catalog.GunRecord{}, false
		}

		results := catalog.Search(records, query)
		if len(results) == 0 {
			fmt.Printf("No gun matches %q.\n", query)
			continue
		}

		for i, r := range results {
			fmt.Printf("  %2d) %s\n", i+1, colorizeName(r.Name))
		}

		choice, ok := promptChoice(reader, len(results))
		if !ok {
			continue
		}
		return results[choice-1], true
	}
}

// promptChoice reads a 1-based menu selection, re-prompting on invalid
// input. Returns false when the user submits an empty line to search again.
func promptChoice(reader *bufio.Reader, max int) (int, bool) {
	for {
		fmt.Print("Pick a number: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, false
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > max {
			fmt.Printf("Enter a number between 1 and %d.\n", max)
			continue
		}
		return n, true
	}
}

func promptYesNo(reader *bufio.Reader, prompt string) bool {
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

// levelColors maps the (Lv. N) marker to an ANSI color, climbing from
// plain white at level 1 up to gold at the max level.
var levelColors = map[int]string{
	1: "\033[37m",
	2: "\033[36m",
	3: "\033[32m",
	4: "\033[34m",
	5: "\033[35m",
	6: "\033[31m",
	7: "\033[91m",
	8: "\033[33m",
}

func colorizeName(name string) string {
	lv, ok := catalog.Level(name)
	if !ok {
		return name
	}
	return levelColors[lv] + name + " ★\033[0m"
}

func init() {
	rootCmd.AddCommand(modCmd)
}
