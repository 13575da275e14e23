package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/streed/notecards/internal/config"
	"github.com/streed/notecards/internal/database"
	"github.com/streed/notecards/internal/logger"
	"github.com/streed/notecards/internal/models"
	"github.com/streed/notecards/internal/preferences"
	"github.com/streed/notecards/internal/services"
)

var (
	db        *database.DB
	noteRepo  *models.NoteRepository
	appSvc    *services.Services
	appConfig *config.Config
	debugFlag bool
	Version   = "dev" // Version is set from main.go
)

var rootCmd = &cobra.Command{
	Use:     "notecards",
	Short:   "A searchable notes list, from the command line",
	Version: Version,
	Long: `notecards keeps short notes in a local database and finds them again with
relevance-ranked word search: notes containing more of your search words come first.

First time users should run 'notecards init' to set up the configuration.`,
}

func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initAppConfig)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func initAppConfig() {
	// Skip initialization for init and config commands
	if len(os.Args) > 1 && (os.Args[1] == "init" || os.Args[1] == "config") {
		return
	}

	var err error
	appConfig, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		fmt.Fprintf(os.Stderr, "Please run 'notecards init' to set up the configuration.\n")
		os.Exit(1)
	}

	if err := logger.SetFormat(appConfig.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	// Enable debug mode from flag or config
	if debugFlag || appConfig.Debug {
		logger.SetDebugMode(true)
		logger.Debug("Configuration loaded from: %s", func() string {
			path, _ := config.GetConfigPath()
			return path
		}())
		logger.Debug("Data directory: %s", appConfig.DataDirectory)
		logger.Debug("Empty query mode: %s", appConfig.EmptyQuery)
		logger.Debug("Default search limit: %d", appConfig.DefaultSearchLimit)
	}

	db, err = database.New(appConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		os.Exit(1)
	}

	noteRepo = models.NewNoteRepository(db.Conn())
	appSvc = services.NewServices(appConfig, noteRepo, preferences.NewPreferencesRepository(db.Conn()))
}
