// cmd/recruit/main.go
//
// This is the entry point for the recruitment client.
//
// Flow:
// 1. Load .env and resolve the client home directory
// 2. Initialize ~/.xdsec-recruit (config, state, logs, exports)
// 3. Wire the store, API services and session
// 4. Launch the TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/api"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/config"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/logbook"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/session"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/store"
	"github.com/Xiaozonglin/XDSEC-Recruitment-System/internal/tui"
)

func main() {
	// A .env in the working directory can set XDSEC_API_BASE and
	// XDSEC_RECRUIT_HOME; absence is not an error.
	_ = godotenv.Load()

	homeDir, err := config.ResolveHomeDir()
	if err != nil {
		fatal(err)
	}
	if err := config.InitHomeDir(homeDir); err != nil {
		fatal(err)
	}
	cfg, err := config.New(homeDir)
	if err != nil {
		fatal(err)
	}

	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		fatal(err)
	}

	st, err := store.NewFile(cfg.StatePath())
	if err != nil {
		fatal(err)
	}

	services := api.NewServices(cfg.APIBaseURL(), st)
	sess := session.New(services.Auth, st)

	lb.Info("client started against %s", cfg.APIBaseURL())

	p := tea.NewProgram(
		tui.NewApp(cfg, services, sess, st, lb),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "recruit: %v\n", err)
	os.Exit(1)
}
