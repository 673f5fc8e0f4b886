package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"atui/api"
	"atui/config"
	appmodel "atui/model"
	"atui/session"
	"atui/telemetry"
	"atui/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, both must be set:\n"+
			"  • ATUI_API_URL\n"+
			"  • ATUI_DATA_DIR\n\n"+
			"Set the missing variable(s) before launching atui.",
			missingVar)

		errorModal := ui.NewErrorModal("Configuration Error", errorMsg)
		p := tea.NewProgram(
			errorModal,
			tea.WithAltScreen(),
		)

		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	logsDir := config.GetLogsDir(cfg.DataDir())

	logger, err := telemetry.InitLogger(logsDir, config.Debug)
	if err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	tracer, meter, cleanup, err := telemetry.InitTelemetry(context.Background(), logsDir, Version)
	if err != nil {
		fmt.Printf("Failed to initialize telemetry: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	client, err := api.NewClient(cfg.AgentURL, api.Options{
		Logger: logger,
		Tracer: tracer,
		Meter:  meter,
	})
	if err != nil {
		errorModal := ui.NewErrorModal("Configuration Error", err.Error())
		p := tea.NewProgram(
			errorModal,
			tea.WithAltScreen(),
		)
		if _, runErr := p.Run(); runErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		os.Exit(0)
	}

	ctrl := session.NewController(client, session.Config{
		SystemPrompt:     cfg.SystemPrompt,
		UseKnowledgeBase: cfg.UseKnowledgeBase,
		KnowledgeBaseID:  cfg.KnowledgeBaseID,
		Streaming:        cfg.Streaming,
		MaxHistory:       cfg.MaxHistory,
		IdleTimeout:      time.Duration(cfg.StreamIdleTimeoutSecs) * time.Second,
	}, logger)

	dataModel := appmodel.NewModel(cfg, client, ctrl, Version, License)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running atui: %v\n", err)
		os.Exit(1)
	}
}
