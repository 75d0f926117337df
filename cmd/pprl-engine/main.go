package main

import (
	"log"
	"os"

	"github.com/ul-mds/pprl-go/internal/api"
)

func main() {
	log.Println("Starting PPRL Engine (privacy-preserving record linkage)...")

	// Setup WebSocket event stream hub.
	wsHub := api.NewHub()
	go wsHub.Run()

	// Setup the Gin router.
	r := api.SetupRouter(wsHub)

	port := getEnvOrDefault("PORT", "8000")

	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
