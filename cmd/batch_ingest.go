/*
Copyright © 2025 abhijeet-gautam-07
*/
package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/spf13/cobra"
)

// batchIngestCmd represents the batch-ingest-documents command
var batchIngestCmd = &cobra.Command{
	Use:   "batch-ingest-documents",
	Short: "Ingest every PDF under an object-store prefix",
	Long: `Lists all objects under the given prefix and ingests each PDF in
turn. A document that fails is logged and skipped; the rest of the
batch continues.`,
	Run: func(cmd *cobra.Command, args []string) {
		bucket, _ := cmd.Flags().GetString("bucket")
		prefix, _ := cmd.Flags().GetString("prefix")
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
		if bucket == "" {
			log.Fatal("bucket is required")
		}

		keys, err := p.storage.ListKeys(ctx, bucket, prefix)
		if err != nil {
			log.Fatalf("Failed to list objects: %v", err)
		}

		ingested, failed := 0, 0
		for _, key := range keys {
			if !strings.HasSuffix(strings.ToLower(key), ".pdf") {
				continue
			}
			result, err := p.ingest.IngestDocument(ctx, bucket, key, namespace, nil)
			if err != nil {
				log.Printf("Failed to ingest %s: %v", key, err)
				failed++
				continue
			}
			log.Printf("Ingested %s: %d chunks, %d vectors", key, result.Chunks, result.Vectors)
			ingested++
		}
		log.Printf("Batch done: %d ingested, %d failed", ingested, failed)
	},
}

func init() {
	rootCmd.AddCommand(batchIngestCmd)
	batchIngestCmd.Flags().StringP("bucket", "b", "", "source bucket (defaults to storage.bucket)")
	batchIngestCmd.Flags().String("prefix", "", "object key prefix to ingest")
	batchIngestCmd.Flags().StringP("namespace", "n", "", "target namespace (defaults to weaviate.namespace)")
}
