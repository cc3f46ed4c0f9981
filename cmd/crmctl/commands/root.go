package commands

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/admissions-crm-api/internal/repository"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	"github.com/noah-isme/admissions-crm-api/pkg/config"
	"github.com/noah-isme/admissions-crm-api/pkg/database"
	"github.com/noah-isme/admissions-crm-api/pkg/logger"
)

// actorName tags audit rows written by this tool.
const actorName = "crmctl"

var (
	cfg  *config.Config
	logr *zap.Logger
	db   *sqlx.DB
)

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Operational commands for the admissions CRM API",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logr, err = logger.New(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		db, err = database.NewPostgres(cmd.Context(), cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if db != nil {
			_ = db.Close()
		}
		if logr != nil {
			_ = logr.Sync()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(newImportRosterCmd(), newCreateUserCmd(), newFlushCacheCmd())
}

func newValidator() *validator.Validate {
	v := validator.New()
	service.RegisterValidators(v)
	return v
}

// auditService writes inline; a one-shot command has no worker pool to drain.
func auditService() *service.AuditService {
	return service.NewAuditService(repository.NewAuditRepository(db), nil, logr)
}
