package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "over",
	Short:         "Over is a tool for reading and writing OVER data files.",
	Long:          "Over is a tool for reading and writing OVER data files. It can evaluate documents, query fields, convert to and from YAML, and explore documents interactively.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		log.SetPrefix("over: ")
		if verbose {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Over",
	Long:  `All software has versions. This is Over's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Over v0.1 -- HEAD")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(yamlCmd)
	rootCmd.AddCommand(replCmd)
}
