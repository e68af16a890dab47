package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "renamesafe",
	Short: "Batch file renaming that never clobbers",
	Long: `renamesafe renames sets of files in a directory by match/replacement
pairs. It resolves conflicts between the renames up front - chains, swaps,
and occupied target names - and either produces a move sequence that is
guaranteed not to overwrite or lose any file, or refuses to touch the
directory at all.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newApplyCommand())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Print the version number of renamesafe`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("renamesafe version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
