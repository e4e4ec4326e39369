package main

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed .env.example
var envExampleContent string

// runInit generates .env.example in the current directory.
func runInit() error {
	const filename = ".env.example"

	// Always overwrite .env.example (it's a template, safe to update)
	if err := os.WriteFile(filename, []byte(envExampleContent), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	fmt.Printf("✓ generated %s\n", filename)
	fmt.Println("  Next steps:")
	fmt.Println("  1. Copy the template: cp .env.example .env")
	fmt.Println("  2. Edit .env and set OPENAI_API_KEY / ANTHROPIC_API_KEY if you want remote fallback")
	fmt.Println("  3. Start the server: ./ai-router")
	fmt.Println("  4. Try it: curl -s localhost:8700/api/health")

	return nil
}
