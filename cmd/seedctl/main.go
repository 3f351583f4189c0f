// Command seedctl runs the ingestion pipeline and batch lookups from a shell.
package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/seedhouse-backend/internal/config"
	"github.com/georgemunganga/seedhouse-backend/internal/events"
	"github.com/georgemunganga/seedhouse-backend/internal/logger"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/batch"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/ingest"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/lot"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/operator"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
	"github.com/georgemunganga/seedhouse-backend/internal/platform/postgres"
)

type app struct {
	cfg       *config.Config
	log       logger.Logger
	db        *sql.DB
	publisher events.Publisher
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "seedctl",
		Short:         "Seed order ingestion and fulfillment batches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.AddCommand(a.ingestCmd(), a.reprocessCmd(), a.batchCmd(), a.operatorCmd())

	if err := root.Execute(); err != nil {
		a.close()
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	var verr *ingest.ValidationError
	var cerr *ingest.ConflictError
	switch {
	case errors.As(err, &verr):
		printJSON(verr)
	case errors.As(err, &cerr):
		printJSON(map[string]interface{}{"error": cerr.Error(), "order_numbers": cerr.OrderNumbers})
	default:
		printJSON(map[string]string{"error": err.Error()})
	}
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		return err
	}
	db, err := postgres.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	publisher, err := events.NewPublisher(cfg.Kafka, log)
	if err != nil {
		db.Close()
		return fmt.Errorf("create batch publisher: %w", err)
	}
	a.cfg, a.log, a.db, a.publisher = cfg, log, db, publisher
	return nil
}

func (a *app) close() {
	if a.publisher != nil {
		a.publisher.Close()
		a.publisher = nil
	}
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	if a.log != nil {
		a.log.Sync()
	}
}

func (a *app) ingestService() (ingest.Service, error) {
	opts, err := ingest.OptionsFromConfig(a.cfg.Ingest)
	if err != nil {
		return nil, err
	}
	return ingest.NewService(
		ingest.NewPostgresStore(a.db),
		order.NewService(order.NewPostgresRepository(a.db)),
		catalog.NewService(catalog.NewPostgresRepository(a.db)),
		lot.NewService(lot.NewPostgresRepository(a.db)),
		a.publisher,
		a.log,
		opts,
	), nil
}

func (a *app) ingestCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest an order export (.csv or .xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.ingestService()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := svc.Ingest(cmd.Context(), ingest.Upload{
				Filename: filepath.Base(args[0]),
				Body:     f,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and preview without saving")
	return cmd
}

func (a *app) reprocessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess <order-number>",
		Short: "Re-derive the worklists of a committed order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.ingestService()
			if err != nil {
				return err
			}
			res, err := svc.Reprocess(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func (a *app) batchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "batch [id]",
		Short: "Show one fulfillment batch, or list recent ones",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := batch.NewService(batch.NewPostgresRepository(a.db))
			if len(args) == 0 {
				batches, err := svc.ListBatches(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printJSON(batches)
			}
			b, err := svc.GetBatch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(b)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of batches to list")
	return cmd
}

func (a *app) operatorCmd() *cobra.Command {
	var req operator.RegisterRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an operator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := operator.NewService(operator.NewPostgresRepository(a.db))
			op, err := svc.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(op)
		},
	}
	add.Flags().StringVar(&req.Email, "email", "", "login email")
	add.Flags().StringVar(&req.Password, "password", "", "initial password")
	add.Flags().StringVar(&req.DisplayName, "name", "", "display name")
	add.MarkFlagRequired("email")
	add.MarkFlagRequired("password")

	cmd := &cobra.Command{Use: "operator", Short: "Manage operator accounts"}
	cmd.AddCommand(add)
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
