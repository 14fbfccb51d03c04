package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "userlist",
	Short: "Browse, search and sort a remote user directory",
	Long: `Userlist fetches the user collection once, then lets you filter it by
name and flip the sort order. The last search term is remembered between runs.`,
	Args: cobra.NoArgs,
	Run:  runBrowse,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is the nearest userlist.toml)")
	flags.String("endpoint", "", "URL of the user collection")
	flags.String("store", "", "path of the search term store (default under the user config dir)")
	flags.Bool("ephemeral", false, "keep the search term in memory only")
	flags.String("log-level", "", "log level: error, warn, info, debug")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.BoolP("verbose", "v", false, "show recent log lines under the list")

	for _, name := range []string{"endpoint", "store", "ephemeral", "log-level", "log-file", "verbose"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}

	registerBrowseFlags(rootCmd)
}

func initConfig() {
	viper.SetEnvPrefix("userlist")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
