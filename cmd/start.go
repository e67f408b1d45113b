/*
Copyright © 2025 abhijeet-gautam-07
*/
package cmd

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/abhijeet-gautam-07/rag-docs/handler"
	"github.com/abhijeet-gautam-07/rag-docs/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ingestion and query server",
	Long:  `Starts an HTTP server exposing document ingestion and semantic search`,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := buildPipeline(context.Background())
		if err != nil {
			log.Fatalf("Failed to build services: %v", err)
		}
		defer p.Close()

		corsHandler := handler.NewCorsHandler()
		queryHandler := handler.NewQueryHandler(p.query)
		ingestHandler := handler.NewIngestHandler(p.ingest)
		uploadHandler := handler.NewUploadHandler(p.storage, p.ingest, p.cfg.Storage.Bucket, p.cfg.Ingest.MaxDocumentBytes)
		wsService := service.NewWebSocketService(p.ingest)

		mux := http.NewServeMux()
		mux.Handle("/api/v1/query", queryHandler.HandleQuery())
		mux.Handle("/api/v1/documents/ingest", ingestHandler.HandleIngest())
		mux.Handle("/api/v1/documents/upload", uploadHandler.HandleUpload())
		if p.documents != nil {
			documentHandler := handler.NewDocumentHandler(p.documents, p.cfg.Storage.Bucket)
			mux.Handle("/api/v1/documents", documentHandler.HandleDocuments())
		}
		mux.HandleFunc("/ws/ingest", wsService.HandleIngest)
		mux.Handle("/health", wsService.Health())

		log.Printf("Starting server on port %s...\n", p.cfg.Port)
		if err := http.ListenAndServe(":"+p.cfg.Port, corsHandler.Wrap(mux)); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
