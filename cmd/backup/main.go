package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"readwell/internal/config"
	"readwell/internal/database"
	"readwell/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")
	importYes := importCmd.Bool("yes", false, "Skip the confirmation prompt for -clear")

	// List flags
	listLimit := listCmd.Int("limit", 20, "Number of assessments to show")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	backupService := service.NewBackupService(db)

	switch os.Args[1] {
	case "export":
		_ = exportCmd.Parse(os.Args[2:])
		handleExport(backupService, *exportOutput)

	case "import":
		_ = importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, *importInput, *importClear, *importYes)

	case "list":
		_ = listCmd.Parse(os.Args[2:])
		handleList(backupService, *listLimit)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Msg("Failed to create output directory")
		}
	}

	log.Info().Str("path", outputPath).Msg("Exporting database")
	if err := backupService.Export(outputPath); err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	if fileInfo, err := os.Stat(outputPath); err == nil {
		log.Info().Msgf("Export complete! File size: %.2f MB", float64(fileInfo.Size())/1024/1024)
	}
}

func handleImport(backupService *service.BackupService, inputPath string, clearData, skipConfirm bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatal().Str("path", inputPath).Msg("Input file does not exist")
	}

	if clearData {
		if !skipConfirm {
			fmt.Print("WARNING: This will delete all existing data. Type 'yes' to confirm: ")
			var confirmation string
			_, _ = fmt.Scanln(&confirmation)
			if confirmation != "yes" {
				log.Info().Msg("Import cancelled")
				return
			}
		}

		log.Info().Msg("Clearing existing data...")
		if err := backupService.Clear(); err != nil {
			log.Fatal().Err(err).Msg("Failed to clear database")
		}
	}

	if err := backupService.Import(inputPath); err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	log.Info().Msg("Import complete!")
}

func handleList(backupService *service.BackupService, limit int) {
	assessments, err := backupService.ListAssessments(limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list assessments")
	}
	if len(assessments) == 0 {
		fmt.Println("No assessments found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHILD\tSTATUS\tSCORE\tSEVERITY\tSTARTED")
	for _, a := range assessments {
		score := "-"
		if a.OverallScore != nil {
			score = fmt.Sprintf("%.1f", *a.OverallScore)
		}
		severity := string(a.Severity)
		if severity == "" {
			severity = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.ChildName, a.Status, score, severity,
			a.CreatedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}

func printUsage() {
	fmt.Println("ReadWell Database Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export database to JSON file")
	fmt.Println("  backup import [options]    Import database from JSON file")
	fmt.Println("  backup list [options]      List the most recent assessments")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing data before import (WARNING: destructive)")
	fmt.Println("  -yes              Do not ask for confirmation when clearing")
	fmt.Println()
	fmt.Println("List Options:")
	fmt.Println("  -limit <n>        Number of assessments to show (default: 20)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export -output mybackup.json")
	fmt.Println("  backup import -input backup.json")
	fmt.Println("  backup import -input backup.json -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./readwell.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
