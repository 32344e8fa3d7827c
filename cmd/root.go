package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sm0kydev/skingraft/internal/utils"
	"github.com/sm0kydev/skingraft/pkg/session"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	     _    _                        __ _
	 ___| | _(_)_ __   __ _ _ __ __ _ / _| |_
	/ __| |/ / | '_ \ / _` + "`" + ` | '__/ _` + "`" + ` | |_| __|
	\__ \   <| | | | | (_| | | | (_| |  _| |_
	|___/_|\_\_|_| |_|\__, |_|  \__,_|_|  \__|
	                  |___/

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skingraft",
	Short: "Graft one gun skin's assets onto another weapon.",
	Long: LOGO + `skingraft patches binary game-asset files by locating and replacing the
hex fingerprints that identify a gun skin, so one skin's visuals, hit
effects, lootbox art and icons can be carried over to another weapon.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.skingraft.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".skingraft")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.skingraft.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	home, _ := homedir.Dir()
	base := filepath.Join(home, "skingraft")

	// Default paths for the asset tree and bookkeeping files
	viper.SetDefault("dirs.gun_skins", filepath.Join(base, "gun_skins"))
	viper.SetDefault("dirs.hit_effect", filepath.Join(base, "hit_effect"))
	viper.SetDefault("dirs.lootbox", filepath.Join(base, "lootbox"))
	viper.SetDefault("dirs.icon", filepath.Join(base, "icon"))
	viper.SetDefault("dirs.repack", filepath.Join(base, "repack"))
	viper.SetDefault("files.skin_index", filepath.Join(base, "skin_index.txt"))
	viper.SetDefault("files.catalog", filepath.Join(base, "guns.txt"))
	viper.SetDefault("files.changelog", filepath.Join(base, "changelog.txt"))
	viper.SetDefault("files.history_db", filepath.Join(base, "skingraft.sqlite"))

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// configuredPaths resolves the six core paths from the config.
func configuredPaths() session.Paths {
	return session.Paths{
		GunSkins:  viper.GetString("dirs.gun_skins"),
		HitEffect: viper.GetString("dirs.hit_effect"),
		Lootbox:   viper.GetString("dirs.lootbox"),
		Icon:      viper.GetString("dirs.icon"),
		Repack:    viper.GetString("dirs.repack"),
		SkinIndex: viper.GetString("files.skin_index"),
	}
}
