package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	showName   string
	showID     string
	noConfirm  bool
	recursive  bool
	promptSize int64
	matchMode  string
	logLevel   string

	// promptSizeSet distinguishes an explicit --prompt-size 0 from the
	// flag being left at its default.
	promptSizeSet bool
)

var rootCmd = &cobra.Command{
	Use:   "epmatch [flags] <file-or-directory>...",
	Short: "Identify and rename TV episode files",
	Long: `epmatch - identify and rename TV episode files

Reads the production code off each file's closing credits via OCR,
resolves it against a locally cached TVDB episode catalog, and renames
the file to "<show> - SxxExx - <title>.mkv".

Files that resist automatic identification can be resolved manually,
either by typing a code or by reviewing the file's subtitles.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (showName == "") == (showID == "") {
			return fmt.Errorf("exactly one of --show or --show-id is required")
		}
		promptSizeSet = cmd.Flags().Changed("prompt-size")
		return run(cmd.Context(), args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "epmatch: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&showName, "show", "", "Show name to search for")
	rootCmd.Flags().StringVar(&showID, "show-id", "", "TVDB series id (skips the search)")
	rootCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "Rename without asking")
	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into directories")
	rootCmd.Flags().Int64Var(&promptSize, "prompt-size", 0, "File size in bytes above which unidentified files prompt for manual entry (0 disables)")
	rootCmd.Flags().StringVar(&matchMode, "match-mode", "production-code", "Matching strategy: production-code or subtitles")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("epmatch {{.Version}}\n")
}
