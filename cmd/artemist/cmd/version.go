package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the artemist CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("artemist version %s\n", version)
		fmt.Println("A tick-by-tick mean-reversion backtesting engine")
		fmt.Println("https://github.com/Odey340/Artemist")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
