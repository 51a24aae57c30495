// topics labels short posts with one category each by word-embedding distance.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"topics/cmd/topics/cmd"
)

func main() {
	_ = godotenv.Load()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
