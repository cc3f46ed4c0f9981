package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/repository"
	"github.com/noah-isme/admissions-crm-api/internal/service"
)

type rosterImporter interface {
	Import(ctx context.Context, rows []service.RawRosterRow, actor service.RosterImportActor) *models.RosterImportResult
}

func newImportRosterCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import-roster",
		Short: "Upsert a roster CSV through the same path as the HTTP import",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := service.NewCatalogService(repository.NewCatalogRepository(db), nil, logr)
			roster := service.NewRosterService(repository.NewRosterRepository(db), catalog, auditService(), nil, newValidator(), logr, cfg.Analytics.DefaultCampaign)
			return runImportRoster(cmd.Context(), roster, file, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the roster CSV")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runImportRoster(ctx context.Context, importer rosterImporter, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	rows, err := service.ParseRosterCSV(f)
	if err != nil {
		return err
	}

	result := importer.Import(ctx, rows, service.RosterImportActor{UserAgent: actorName})
	fmt.Fprintf(out, "created=%d updated=%d errors=%d\n", result.Created, result.Updated, len(result.Errors))
	for _, rowErr := range result.Errors {
		fmt.Fprintf(out, "row %d: %s\n", rowErr.Row, rowErr.Error)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d of %d rows failed", len(result.Errors), len(rows))
	}
	return nil
}
