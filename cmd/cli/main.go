package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jejomarc/askjejo/internal/client"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	// The TUI owns the terminal, so logs go to a file instead of stderr.
	logPath := stateFile("cli.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
		defer f.Close()
	}

	serverURL := os.Getenv("ASKJEJO_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	creds, err := client.OpenCredentialStore(stateFile("credentials.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open credential store: %v\n", err)
		os.Exit(1)
	}
	defer creds.Close()

	session := client.NewSession(client.NewAPI(serverURL), creds)

	p := tea.NewProgram(newModel(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func stateFile(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "askjejo", name)
}
