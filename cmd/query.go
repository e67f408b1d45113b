/*
Copyright © 2025 abhijeet-gautam-07
*/
package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a semantic search against the vector index",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		topK, _ := cmd.Flags().GetInt("top-k")
		namespace, _ := cmd.Flags().GetString("namespace")

		ctx := context.Background()
		p, err := buildPipeline(ctx)
		if err != nil {
			log.Fatalf("Failed to build services: %v", err)
		}
		defer p.Close()

		if namespace == "" {
			namespace = p.cfg.Weaviate.Namespace
		}

		matches, err := p.query.Query(ctx, strings.Join(args, " "), topK, namespace)
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(matches)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntP("top-k", "k", 0, "number of matches to return")
	queryCmd.Flags().StringP("namespace", "n", "", "namespace to search (defaults to weaviate.namespace)")
}
