package main

import (
	"log"

	"tableflip.dev/moodlog/pkg/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
