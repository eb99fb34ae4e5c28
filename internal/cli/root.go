// Package cli implements hubctl, an operator tool that works directly on the
// record slots used by the API server.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/janezhang99/SEW-v5-sub002/internal/core/domain"
	portssvc "github.com/janezhang99/SEW-v5-sub002/internal/core/ports/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/core/services"
	"github.com/janezhang99/SEW-v5-sub002/internal/platform/config"
	"github.com/janezhang99/SEW-v5-sub002/internal/repositories/slots"
)

// Opener loads the service container. The returned func releases the slots.
type Opener func(ctx context.Context) (*portssvc.ServiceContainer, func() error, error)

// ConfigOpener opens the slots named by the environment configuration, like the API server.
func ConfigOpener(logger *slog.Logger) Opener {
	return func(ctx context.Context) (*portssvc.ServiceContainer, func() error, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		catalog, err := domain.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := slots.New(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		container, err := services.NewServiceContainer(ctx, repo, catalog,
			services.WithContainerLogger(logger),
			services.WithStrictWorkflow(cfg.StrictWorkflow()),
		)
		if err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		return container, repo.Close, nil
	}
}

// NewRootCmd builds the hubctl command tree.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "hubctl",
		Short: "Inspect and load community hub records",
		Long: `hubctl reads and writes the same record slots as the API server.

Configuration comes from the environment (and .env), e.g. SLOT_BACKEND and DATA_DIR.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newListCmd(open),
		newSummaryCmd(open),
		newImportCmd(open),
		newCatalogCmd(open),
	)
	return root
}

// withContainer opens the container for the duration of fn.
func withContainer(cmd *cobra.Command, open Opener, fn func(*portssvc.ServiceContainer) error) (err error) {
	container, closeFn, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(container)
}

func parseKind(arg string) (domain.Kind, error) {
	k := domain.Kind(arg)
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind %q (want one of %v)", arg, domain.Kinds)
	}
	return k, nil
}

// Execute runs hubctl and exits non-zero on failure.
func Execute(ctx context.Context, open Opener) {
	if err := NewRootCmd(open).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
