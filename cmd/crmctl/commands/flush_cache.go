package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/admissions-crm-api/internal/repository"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	"github.com/noah-isme/admissions-crm-api/pkg/cache"
)

type cacheFlusher interface {
	FlushCache(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

func newFlushCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush-catalog-cache",
		Short: "Drop cached catalog lookups after editing catalog rows by hand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := cache.NewRedis(cmd.Context(), cfg.Redis)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			if client == nil {
				return errors.New("redis is not configured")
			}
			defer client.Close()

			cacheRepo := repository.NewCacheRepository(client, "crm", logr)
			cacheSvc := service.NewCacheService(cacheRepo, nil, cfg.Catalog.CacheTTL, logr, true)
			catalog := service.NewCatalogService(repository.NewCatalogRepository(db), cacheSvc, logr)
			return runFlushCache(cmd.Context(), cacheRepo, catalog, cmd.OutOrStdout())
		},
	}
}

func runFlushCache(ctx context.Context, store pinger, catalog cacheFlusher, out io.Writer) error {
	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	if err := catalog.FlushCache(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "catalog cache flushed")
	return nil
}
