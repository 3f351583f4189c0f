package ingest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/seedhouse-backend/internal/config"
	"github.com/georgemunganga/seedhouse-backend/internal/events"
	"github.com/georgemunganga/seedhouse-backend/internal/logger"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/batch"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

// OrderLookup reads committed orders.
type OrderLookup interface {
	GetOrder(ctx context.Context, orderNumber string) (*order.Order, error)
}

// Notifier is told about every committed batch. Failures are logged, not returned.
type Notifier interface {
	PublishBatchCommitted(ctx context.Context, ev events.BatchCommitted) error
}

// Options are the fixed parameters of the pipeline.
type Options struct {
	Location      *time.Location
	ReferenceHour int
	MaxGapSpan    int
	CSVEncoding   string
	Clock         func() time.Time
}

// OptionsFromConfig resolves the configured time zone.
func OptionsFromConfig(cfg config.IngestConfig) (Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, fmt.Errorf("load ingest time zone: %w", err)
	}
	return Options{
		Location:      loc,
		ReferenceHour: cfg.ReferenceHour,
		MaxGapSpan:    cfg.MaxGapSpan,
		CSVEncoding:   cfg.CSVEncoding,
		Clock:         time.Now,
	}, nil
}

// Upload is one export file handed to Ingest.
type Upload struct {
	Filename string
	Body     io.Reader
	DryRun   bool
}

// Service runs the order ingestion pipeline.
type Service interface {
	// Ingest validates a whole export file and, unless DryRun is set, commits
	// its orders, stock changes and batch in one transaction.
	Ingest(ctx context.Context, up Upload) (*Result, error)

	// Reprocess re-derives the worklists of one committed order. It never writes.
	Reprocess(ctx context.Context, orderNumber string) (*ReprocessResult, error)
}

type service struct {
	mu       sync.Mutex
	store    Store
	orders   OrderLookup
	catalog  catalog.Service
	labels   Labeler
	notifier Notifier
	log      logger.Logger
	opts     Options
}

func NewService(store Store, orders OrderLookup, cat catalog.Service, labels Labeler,
	notifier Notifier, log logger.Logger, opts Options) Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &service{
		store:    store,
		orders:   orders,
		catalog:  cat,
		labels:   labels,
		notifier: notifier,
		log:      log,
		opts:     opts,
	}
}

func (s *service) Ingest(ctx context.Context, up Upload) (*Result, error) {
	log := s.log.WithContext(ctx).WithFields(
		logger.String("file", up.Filename),
		logger.Bool("dry_run", up.DryRun))

	rows, err := ReadRows(up.Filename, up.Body, s.opts.CSVEncoding)
	if err != nil {
		return nil, err
	}

	resolutions, err := s.resolve(ctx, rows)
	if err != nil {
		return nil, err
	}

	numbers := distinctOrderNumbers(rows)
	report, err := AnalyzeIdentifiers(numbers, int64(s.opts.MaxGapSpan))
	if err != nil {
		return nil, err
	}
	if len(report.Gaps) > 0 {
		log.Warn("order identifier gaps", logger.Any("gaps", report.Gaps))
	}

	if !up.DryRun {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	if err := rejectCommitted(ctx, s.store.ExistingOrderNumbers, numbers); err != nil {
		return nil, err
	}

	agg, err := AggregateRows(rows, resolutions, s.opts.Location, s.opts.ReferenceHour)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DryRun:      up.DryRun,
		Orders:      make([]OrderDetail, 0, len(agg.Orders)),
		Identifiers: report,
		Gaps:        report.Gaps,
	}
	for _, o := range agg.Orders {
		result.Orders = append(result.Orders, detailOf(o, resolutions))
	}

	if up.DryRun {
		result.Allocations = Split(agg.Demand, cachedStock(agg.Demand))
		result.BulkToPrint, result.BulkToPull, err = BuildWorklists(ctx, s.labels, result.Allocations)
		if err != nil {
			return nil, err
		}
		log.Info("dry run complete", logger.Int("orders", len(agg.Orders)))
		return result, nil
	}

	b, err := s.commit(ctx, numbers, agg, result)
	if err != nil {
		return nil, err
	}
	log.Info("ingestion committed",
		logger.String("batch_number", b.BatchNumber),
		logger.Int("orders", len(agg.Orders)),
		logger.Int("allocations", len(result.Allocations)))

	s.announce(ctx, log, b, result.Allocations)
	return result, nil
}

// commit performs every write of a run inside one transaction and fills in
// the batch, allocation and worklist parts of result.
func (s *service) commit(ctx context.Context, numbers []string, agg *Aggregate, result *Result) (*batch.Batch, error) {
	var b *batch.Batch
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := rejectCommitted(ctx, tx.ExistingOrderNumbers, numbers); err != nil {
			return err
		}

		seq, err := tx.NextBatchSequence(ctx)
		if err != nil {
			return fmt.Errorf("next batch sequence: %w", err)
		}
		b = &batch.Batch{
			ID:               uuid.New(),
			BatchNumber:      batch.FormatNumber(s.opts.Clock().In(s.opts.Location), seq),
			Sequence:         seq,
			OrderCount:       len(agg.Orders),
			OrderNumberStart: agg.FirstOrder,
			OrderNumberEnd:   agg.LastOrder,
			OrderDateStart:   agg.DateStart,
			OrderDateEnd:     agg.DateEnd,
		}
		if err := tx.InsertBatch(ctx, b); err != nil {
			return err
		}

		for _, o := range agg.Orders {
			o.BatchID = &b.ID
			if err := tx.InsertOrder(ctx, o); err != nil {
				return err
			}
		}

		stock := map[uuid.UUID]int{}
		if len(agg.Demand) > 0 {
			if stock, err = tx.LockStock(ctx, productIDs(agg.Demand)); err != nil {
				return fmt.Errorf("lock prepack stock: %w", err)
			}
		}
		allocs := Split(agg.Demand, stock)
		for _, a := range allocs {
			if a.StockAfter == a.StockBefore {
				continue
			}
			if err := tx.SetStock(ctx, a.Product.ID, a.StockAfter); err != nil {
				return fmt.Errorf("update prepack stock %s: %w", a.SKU, err)
			}
		}

		b.Records = allocationRecords(b.ID, allocs)
		if err := tx.InsertAllocationRecords(ctx, b.Records); err != nil {
			return err
		}

		printList, pullList, err := BuildWorklists(ctx, tx, allocs)
		if err != nil {
			return fmt.Errorf("build worklists: %w", err)
		}
		result.BatchID = &b.ID
		result.BatchNumber = b.BatchNumber
		result.Allocations = allocs
		result.BulkToPrint = printList
		result.BulkToPull = pullList
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Reprocess(ctx context.Context, orderNumber string) (*ReprocessResult, error) {
	o, err := s.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	skus := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		skus = append(skus, it.SKU)
	}
	resolutions, err := s.catalog.ResolveAll(ctx, skus)
	if err != nil {
		return nil, err
	}

	demand := demandTally{}
	for _, it := range o.Items {
		if it.Kind != order.KindBulk {
			continue
		}
		res := resolutions[it.SKU]
		if res.Kind != catalog.KindBulk {
			return nil, fmt.Errorf("bulk product %s of order %s is no longer in the catalog", it.SKU, o.OrderNumber)
		}
		demand.add(res.Product, it.Quantity)
	}

	bulk := demand.list()
	allocs := Split(bulk, cachedStock(bulk))
	printList, pullList, err := BuildWorklists(ctx, s.labels, allocs)
	if err != nil {
		return nil, err
	}
	return &ReprocessResult{
		Order:       detailOf(o, resolutions),
		BatchID:     o.BatchID,
		BulkToPrint: printList,
		BulkToPull:  pullList,
		Allocations: allocs,
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// resolve looks up every distinct SKU and fails with the full list of
// unknown ones.
func (s *service) resolve(ctx context.Context, rows []Row) (map[string]catalog.Resolution, error) {
	skus := make([]string, 0, len(rows))
	for _, r := range rows {
		skus = append(skus, r.SKU)
	}
	resolutions, err := s.catalog.ResolveAll(ctx, skus)
	if err != nil {
		return nil, fmt.Errorf("resolve skus: %w", err)
	}

	var unresolved []string
	for sku, res := range resolutions {
		if !res.Found() {
			if sku == "" {
				sku = "(blank)"
			}
			unresolved = append(unresolved, sku)
		}
	}
	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		return nil, &ValidationError{Message: "unknown skus", UnresolvedSKUs: unresolved}
	}
	return resolutions, nil
}

func rejectCommitted(ctx context.Context, existing func(context.Context, []string) ([]string, error), numbers []string) error {
	found, err := existing(ctx, numbers)
	if err != nil {
		return fmt.Errorf("check committed orders: %w", err)
	}
	if len(found) > 0 {
		sort.Strings(found)
		return &ConflictError{OrderNumbers: found}
	}
	return nil
}

func (s *service) announce(ctx context.Context, log logger.Logger, b *batch.Batch, allocs []Allocation) {
	if s.notifier == nil {
		return
	}
	ev := events.BatchCommitted{
		BatchID:          b.ID.String(),
		BatchNumber:      b.BatchNumber,
		OrderCount:       b.OrderCount,
		OrderNumberStart: b.OrderNumberStart,
		OrderNumberEnd:   b.OrderNumberEnd,
		CommittedAt:      s.opts.Clock(),
	}
	for _, a := range allocs {
		ev.PrintUnits += a.Print
		ev.PullUnits += a.Pull
	}
	if err := s.notifier.PublishBatchCommitted(ctx, ev); err != nil {
		log.Warn("batch event not published", logger.String("batch_number", b.BatchNumber), logger.Error(err))
	}
}

func distinctOrderNumbers(rows []Row) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range rows {
		n := r.OrderNumber
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
