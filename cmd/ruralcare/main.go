package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/ruralcare/internal/config"
	"github.com/jask/ruralcare/internal/database"
	"github.com/jask/ruralcare/internal/database/repository"
	"github.com/jask/ruralcare/internal/i18n"
	"github.com/jask/ruralcare/internal/logging"
	"github.com/jask/ruralcare/internal/prefs"
	"github.com/jask/ruralcare/internal/secrets"
	"github.com/jask/ruralcare/internal/service"
	"github.com/jask/ruralcare/internal/tui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ruralcare",
		Short:         "Telemedicine terminal for rural clinics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(langCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs once config, logging and storage are up.
type env struct {
	cfg   config.Config
	log   zerolog.Logger
	db    *sql.DB
	prefs *prefs.Store
	close func()
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	db, err := database.Prepare(ctx, cfg.Database.Path)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	sealer, err := secrets.NewSealer("")
	if err != nil {
		db.Close()
		logCloser.Close()
		return nil, fmt.Errorf("sealer: %w", err)
	}
	return &env{
		cfg:   cfg,
		log:   log,
		db:    db,
		prefs: prefs.New(repository.NewPreferenceRepo(db), sealer),
		close: func() {
			db.Close()
			logCloser.Close()
		},
	}, nil
}

func runTUI(ctx context.Context) error {
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.close()
	log := e.log

	auth := &service.SimulatedAuth{
		Delay:        e.cfg.Sim.LoginDelay,
		Users:        e.prefs,
		PasswordHash: e.cfg.Auth.PasswordHash,
		Logger:       log,
	}
	catalog := &service.CatalogService{
		DoctorRepo:   repository.NewDoctorRepo(e.db),
		PharmacyRepo: repository.NewPharmacyRepo(e.db),
		RecordRepo:   repository.NewRecordRepo(e.db),
		AdminRepo:    repository.NewAdminRepo(e.db),
		Logger:       log,
	}
	booking := &service.BookingService{Appointments: repository.NewAppointmentRepo(e.db), Logger: log}

	code, err := e.prefs.LoadLanguage(ctx, e.cfg.UI.Language)
	if err != nil {
		log.Warn().Err(err).Msg("load language")
	}
	lang, err := i18n.Parse(code)
	if err != nil {
		log.Warn().Str("language", code).Msg("unknown language, using english")
		lang = i18n.English
	}

	m := tui.New(ctx, tui.Deps{
		Auth:            auth,
		Analyzer:        &service.SimulatedAnalyzer{Step: e.cfg.Sim.AnalysisStep, Logger: log},
		Booking:         booking,
		Catalog:         catalog,
		Languages:       e.prefs,
		Logger:          log,
		Now:             time.Now,
		Rand:            rand.New(rand.NewSource(time.Now().UnixNano())),
		PatientName:     e.cfg.UI.PatientName,
		QualityInterval: e.cfg.Sim.QualityInterval,
	}, i18n.MustLoad(), lang)

	if u, ok, err := auth.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restore session")
	} else if ok {
		if err := m.Restore(u); err != nil {
			log.Warn().Err(err).Msg("discarding stored session")
			_ = auth.Logout(ctx)
		}
	}

	log.Info().Str("language", string(lang)).Msg("starting")
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if err := database.RunMigrations(cfg.Database.Path); err != nil {
				return err
			}
			v, dirty, err := database.SchemaVersion(cfg.Database.Path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%v)\n", v, dirty)
			return nil
		},
	}
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered user",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.prefs.ClearUser(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func langCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lang <en|hi|pa|ur>",
		Short: "Set the interface language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := i18n.Parse(args[0])
			if err != nil {
				return err
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()
			if err := e.prefs.SaveLanguage(cmd.Context(), string(lang)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "language set to %s\n", lang.Name())
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete bookings and preferences and reload the sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			e, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer e.close()
			if err := (&service.MaintenanceService{DB: e.db}).Reset(cmd.Context()); err != nil {
				return err
			}
			e.log.Info().Msg("database reset")
			fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for auth.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := service.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return config.Save(cfg)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})
	return cmd
}

func printConfig(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "database.path         %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "log.path              %s\n", cfg.Log.Path)
	fmt.Fprintf(w, "log.level             %s\n", cfg.Log.Level)
	fmt.Fprintf(w, "ui.language           %s\n", cfg.UI.Language)
	fmt.Fprintf(w, "ui.patient_name       %s\n", cfg.UI.PatientName)
	fmt.Fprintf(w, "sim.login_delay       %s\n", cfg.Sim.LoginDelay)
	fmt.Fprintf(w, "sim.analysis_step     %s\n", cfg.Sim.AnalysisStep)
	fmt.Fprintf(w, "sim.quality_interval  %s\n", cfg.Sim.QualityInterval)
	fmt.Fprintf(w, "auth.password_hash    %v\n", cfg.Auth.PasswordHash != "")
}
