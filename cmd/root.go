/*
Copyright © 2025 abhijeet-gautam-07
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rag-docs",
	Short: "PDF ingestion and semantic search service",
	Long: `rag-docs pulls PDF documents from object storage, splits them into
token-budgeted chunks, embeds the chunks and indexes the vectors for
semantic search. It runs either as an HTTP server or as one-shot CLI
commands for ingestion and querying.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}
