// Package main provides the clinicdesk CLI.
//
// Usage:
//
//	clinicdesk chat            talk to the assistant in the terminal
//	clinicdesk seed            load demo patients, appointments and feedback
//	clinicdesk token           issue an admin API token
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/wolfman30/clinicdesk-ai/cmd/clinicdesk/commands"
)

func main() {
	_ = godotenv.Load()
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
