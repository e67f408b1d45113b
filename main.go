/*
Copyright © 2025 abhijeet-gautam-07
*/
package main

import (
	"github.com/abhijeet-gautam-07/rag-docs/cmd"
	"github.com/joho/godotenv"
)

func main() {
	cmd.Execute()
}

func init() {
	// Secrets (API keys, Mongo URI, AWS credentials) come from the
	// environment; a local .env is optional.
	_ = godotenv.Load()
}
