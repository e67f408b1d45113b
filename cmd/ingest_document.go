/*
Copyright © 2025 abhijeet-gautam-07
*/
package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhijeet-gautam-07/rag-docs/types"
)

// ingestDocumentCmd represents the ingest-document command
var ingestDocumentCmd = &cobra.Command{
	Use:   "ingest-document",
	Short: "Ingest one stored PDF into the vector index",
	Long: `Fetches a PDF from object storage, chunks it and indexes the
embedded chunks. Progress is logged per page; the final summary is
printed as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		bucket, _ := cmd.Flags().GetString("bucket")
		path, _ := cmd.Flags().GetString("path")
		namespace, _ := cmd.Flags().GetString("namespace")

		ctx := context.Background()
		p, err := buildPipeline(ctx)
		if err != nil {
			log.Fatalf("Failed to build services: %v", err)
		}
		defer p.Close()

		if bucket == "" {
			bucket = p.cfg.Storage.Bucket
		}
		if namespace == "" {
			namespace = p.cfg.Weaviate.Namespace
		}
		if bucket == "" || path == "" {
			log.Fatal("bucket and path are required")
		}

		result, err := p.ingest.IngestDocument(ctx, bucket, path, namespace, func(update types.IngestProgress) {
			log.Printf("page %d done, %d chunks so far", update.ProcessedPages, update.Chunks)
		})
		if err != nil {
			log.Fatalf("Ingest failed: %v", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(ingestDocumentCmd)
	ingestDocumentCmd.Flags().StringP("bucket", "b", "", "source bucket (defaults to storage.bucket)")
	ingestDocumentCmd.Flags().StringP("path", "p", "", "object key of the PDF")
	ingestDocumentCmd.Flags().StringP("namespace", "n", "", "target namespace (defaults to weaviate.namespace)")
}
