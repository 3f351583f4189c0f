package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/seedhouse-backend/internal/modules/catalog"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/order"
)

type aggregatorState int

const (
	stateIdle aggregatorState = iota
	stateOpen
)

// Aggregate is the result of grouping a file into orders.
type Aggregate struct {
	Orders []*order.Order
	Demand []BulkDemand

	FirstOrder, LastOrder string // by sequence
	DateStart, DateEnd    time.Time
}

// Aggregator groups consecutive rows of the same order identifier into one
// order. Order-level fields come from the first row of a group; later rows
// only contribute line items. A group boundary is an explicit flush.
type Aggregator struct {
	state      aggregatorState
	current    *order.Order
	flushed    map[string]bool
	orders     []*order.Order
	classifier *Classifier
	loc        *time.Location
	refHour    int
	problems   []string
}

func NewAggregator(classifier *Classifier, loc *time.Location, refHour int) *Aggregator {
	return &Aggregator{
		flushed:    map[string]bool{},
		classifier: classifier,
		loc:        loc,
		refHour:    refHour,
	}
}

// Feed advances the state machine by one row.
func (a *Aggregator) Feed(row Row) {
	id := strings.TrimSpace(row.OrderNumber)
	if id == "" {
		a.problem(row, "missing order identifier")
		return
	}

	switch a.state {
	case stateIdle:
		a.open(id, row)
	case stateOpen:
		if a.current.OrderNumber != id {
			a.flush()
			a.open(id, row)
		}
	}
	a.addItem(row)
}

// Finish flushes the open order and returns the grouped result, or a
// ValidationError listing every bad row.
func (a *Aggregator) Finish() (*Aggregate, error) {
	if a.state == stateOpen {
		a.flush()
	}
	if len(a.problems) > 0 {
		return nil, &ValidationError{Message: "invalid order rows", Problems: a.problems}
	}
	if len(a.orders) == 0 {
		return nil, invalid("file contains no orders")
	}

	agg := &Aggregate{Orders: a.orders, Demand: a.classifier.Demand()}
	first, last := a.orders[0], a.orders[0]
	agg.DateStart, agg.DateEnd = first.OrderDate, first.OrderDate
	for _, o := range a.orders[1:] {
		if o.Sequence < first.Sequence {
			first = o
		}
		if o.Sequence > last.Sequence {
			last = o
		}
		if o.OrderDate.Before(agg.DateStart) {
			agg.DateStart = o.OrderDate
		}
		if o.OrderDate.After(agg.DateEnd) {
			agg.DateEnd = o.OrderDate
		}
	}
	agg.FirstOrder, agg.LastOrder = first.OrderNumber, last.OrderNumber
	return agg, nil
}

// ── transitions ──────────────────────────────────────────────────────────────

func (a *Aggregator) open(id string, row Row) {
	if a.flushed[id] {
		a.problem(row, fmt.Sprintf("order %s appears in more than one group; rows of an order must be contiguous", id))
	}

	o := &order.Order{
		ID:           uuid.New(),
		OrderNumber:  id,
		CustomerName: fallback(row.Shipping.Name, row.Billing.Name),
		ShippingAddress: order.Address{
			Street1:    fallback(row.Shipping.Street1, row.Billing.Street1),
			Street2:    fallback(row.Shipping.Street2, row.Billing.Street2),
			City:       fallback(row.Shipping.City, row.Billing.City),
			Region:     fallback(row.Shipping.Region, row.Billing.Region),
			PostalCode: fallback(row.Shipping.PostalCode, row.Billing.PostalCode),
			Country:    fallback(row.Shipping.Country, row.Billing.Country),
		},
		Note: SanitizeNote(row.Note),
	}

	var err error
	if o.Sequence, err = ParseSequence(id); err != nil {
		a.problem(row, err.Error())
	}
	if o.OrderDate, err = ParseOrderDate(row.CreatedAt, a.loc, a.refHour); err != nil {
		a.problem(row, err.Error())
	}
	for _, m := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"subtotal", row.Subtotal, &o.Subtotal},
		{"shipping", row.ShippingFee, &o.Shipping},
		{"taxes", row.Taxes, &o.Tax},
		{"total", row.Total, &o.Total},
	} {
		if *m.dst, err = parseMoney(m.raw); err != nil {
			a.problem(row, fmt.Sprintf("%s: %v", m.name, err))
		}
	}

	a.current = o
	a.state = stateOpen
}

func (a *Aggregator) addItem(row Row) {
	qty, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
	if err != nil || qty <= 0 {
		a.problem(row, fmt.Sprintf("quantity %q must be a positive integer", row.Quantity))
		return
	}
	price, err := parseMoney(row.Price)
	if err != nil {
		a.problem(row, fmt.Sprintf("price: %v", err))
		return
	}
	item, err := a.classifier.Classify(row.SKU, qty, price)
	if err != nil {
		a.problem(row, err.Error())
		return
	}
	a.current.AddItem(item)
}

func (a *Aggregator) flush() {
	a.flushed[a.current.OrderNumber] = true
	a.orders = append(a.orders, a.current)
	a.current = nil
	a.state = stateIdle
}

func (a *Aggregator) problem(row Row, msg string) {
	a.problems = append(a.problems, fmt.Sprintf("line %d: %s", row.Line, msg))
}

// ── helpers ──────────────────────────────────────────────────────────────────

// AggregateRows runs the aggregator over a whole file.
func AggregateRows(rows []Row, resolutions map[string]catalog.Resolution, loc *time.Location, refHour int) (*Aggregate, error) {
	agg := NewAggregator(NewClassifier(resolutions), loc, refHour)
	for _, row := range rows {
		agg.Feed(row)
	}
	return agg.Finish()
}

func fallback(primary, secondary string) string {
	if v := strings.TrimSpace(primary); v != "" {
		return v
	}
	return strings.TrimSpace(secondary)
}

func parseMoney(raw string) (decimal.Decimal, error) {
	raw = strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q", raw)
	}
	return d, nil
}
