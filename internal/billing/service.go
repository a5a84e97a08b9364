package billing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-billing/internal/common"
	dbgen "github.com/noah-isme/backend-billing/internal/db/gen"
	"github.com/noah-isme/backend-billing/internal/document"
	"github.com/noah-isme/backend-billing/internal/events"
	"github.com/noah-isme/backend-billing/internal/obs"
	"github.com/noah-isme/backend-billing/internal/pricing"
)

// NoBillMessage is returned when a document is requested for a bill that is not available.
const NoBillMessage = "No bill found!"

// Skip reasons reported for dropped selections.
const (
	SkipMissingField        = "missing_field"
	SkipInvalidNumber       = "invalid_number"
	SkipNonPositiveQuantity = "non_positive_quantity"
	SkipUnknownProduct      = "unknown_product"
)

// Selection is one raw row of the billing form.
type Selection struct {
	ProductID string
	Size      string
	Quantity  string
}

// Input is a bill submission.
type Input struct {
	CustomerName string `validate:"required,max=255"`
	MobileNumber string `validate:"required,max=32"`
	Selections   []Selection
}

// Skipped explains why the selection at Index produced no line.
type Skipped struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result is the outcome of Generate.
type Result struct {
	Bill    pricing.Bill `json:"bill"`
	Skipped []Skipped    `json:"skipped"`
}

// Archiver stores a rendered PDF copy of each bill.
type Archiver interface {
	PutPDF(ctx context.Context, billID string, pdf []byte) (string, error)
}

type emitter interface {
	Emit(ctx context.Context, topic, key string, payload any) (events.Event, error)
}

// invalidator drops derived views of the ledger, such as the analytics summary.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service computes, records and serves bills.
type Service struct {
	ledger   Ledger
	store    Store
	events   emitter
	archiver Archiver
	derived  invalidator
	layout   document.Layout
	validate *validator.Validate
	log      zerolog.Logger
	loc      *time.Location
	now      func() time.Time
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Ledger    Ledger
	Store     Store
	Events    emitter
	Archiver  Archiver
	Analytics invalidator
	Layout    document.Layout
	Validator *validator.Validate
	Logger    zerolog.Logger
	Location  *time.Location
	Now       func() time.Time
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Ledger == nil {
		return nil, errors.New("billing: ledger is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("billing: bill store is required")
	}
	v := cfg.Validator
	if v == nil {
		v = validator.New()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		ledger:   cfg.Ledger,
		store:    cfg.Store,
		events:   cfg.Events,
		archiver: cfg.Archiver,
		derived:  cfg.Analytics,
		layout:   cfg.Layout,
		validate: v,
		log:      cfg.Logger,
		loc:      loc,
		now:      now,
	}, nil
}

// Layout returns the shop identity used for documents.
func (s *Service) Layout() document.Layout {
	return s.layout
}

type candidate struct {
	index     int
	productID int64
	size      string
	quantity  int
}

// Generate prices the valid selections, records them in one transaction and
// stores the resulting bill. Invalid selections are skipped, never fatal.
func (s *Service) Generate(ctx context.Context, in Input) (Result, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	if err := s.validate.Struct(in); err != nil {
		return Result{}, common.ValidationFailed("invalid bill", err)
	}

	var skipped []Skipped
	skip := func(index int, reason string) {
		skipped = append(skipped, Skipped{Index: index, Reason: reason})
		obs.IncCounter(obs.BillLinesSkippedTotal, reason)
	}

	candidates := make([]candidate, 0, len(in.Selections))
	ids := make([]int64, 0, len(in.Selections))
	seen := make(map[int64]struct{}, len(in.Selections))
	for i, sel := range in.Selections {
		c, reason := parseSelection(i, sel)
		if reason != "" {
			skip(i, reason)
			continue
		}
		candidates = append(candidates, c)
		if _, ok := seen[c.productID]; !ok {
			seen[c.productID] = struct{}{}
			ids = append(ids, c.productID)
		}
	}

	products, err := s.ledger.ResolveProducts(ctx, ids)
	if err != nil {
		obs.IncCounter(obs.BillsGeneratedTotal, "persist_failed")
		return Result{}, common.PersistenceError("catalog unavailable", err)
	}

	lines := make([]pricing.Line, 0, len(candidates))
	for _, c := range candidates {
		product, ok := products[c.productID]
		if !ok {
			skip(c.index, SkipUnknownProduct)
			continue
		}
		lines = append(lines, pricing.Line{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      c.size,
			Quantity:  c.quantity,
			UnitPrice: product.SellingPrice,
			UnitCost:  product.BuyingPrice,
		})
	}
	lines, total := pricing.Compute(lines)
	sort.SliceStable(skipped, func(i, j int) bool { return skipped[i].Index < skipped[j].Index })

	bill := pricing.Bill{
		ID:           uuid.NewString(),
		CustomerName: in.CustomerName,
		MobileNumber: in.MobileNumber,
		Items:        lines,
		GrandTotal:   total,
		GeneratedAt:  s.now().In(s.loc).Truncate(time.Second),
	}

	if err := s.store.Put(ctx, bill); err != nil {
		obs.IncCounter(obs.BillsGeneratedTotal, "persist_failed")
		return Result{}, common.PersistenceError("bill store unavailable", fmt.Errorf("put bill: %w", err))
	}
	if err := s.ledger.AppendLines(ctx, ledgerRows(bill)); err != nil {
		if delErr := s.store.Delete(ctx, bill.ID); delErr != nil {
			s.log.Warn().Err(delErr).Str("bill_id", bill.ID).Msg("drop unrecorded bill")
		}
		obs.IncCounter(obs.BillsGeneratedTotal, "persist_failed")
		return Result{}, common.PersistenceError("bill not recorded", err)
	}
	if len(lines) > 0 && s.derived != nil {
		if err := s.derived.Invalidate(ctx); err != nil {
			s.log.Warn().Err(err).Str("bill_id", bill.ID).Msg("invalidate analytics")
		}
	}

	result := "ok"
	if len(lines) == 0 {
		result = "empty"
	}
	obs.IncCounter(obs.BillsGeneratedTotal, result)
	if obs.BillLinesPerBill != nil {
		obs.BillLinesPerBill.Observe(float64(len(lines)))
	}
	s.log.Info().
		Str("bill_id", bill.ID).
		Int("lines", len(lines)).
		Int("skipped", len(skipped)).
		Str("grand_total", pricing.Format(total)).
		Msg("bill generated")

	s.publish(ctx, bill)
	s.archive(ctx, bill)
	return Result{Bill: bill, Skipped: skipped}, nil
}

// Lookup returns a stored bill or a StateError when it is unknown or expired.
func (s *Service) Lookup(ctx context.Context, id string) (pricing.Bill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pricing.Bill{}, common.StateError(NoBillMessage)
	}
	bill, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return pricing.Bill{}, common.PersistenceError("bill store unavailable", err)
	}
	if !ok {
		return pricing.Bill{}, common.StateError(NoBillMessage)
	}
	return bill, nil
}

func parseSelection(index int, sel Selection) (candidate, string) {
	rawID := strings.TrimSpace(sel.ProductID)
	rawQty := strings.TrimSpace(sel.Quantity)
	if rawID == "" || rawQty == "" {
		return candidate{}, SkipMissingField
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return candidate{}, SkipInvalidNumber
	}
	// ledger quantities are int4
	qty, err := strconv.ParseInt(rawQty, 10, 32)
	if err != nil {
		return candidate{}, SkipInvalidNumber
	}
	if qty <= 0 {
		return candidate{}, SkipNonPositiveQuantity
	}
	return candidate{index: index, productID: id, size: strings.TrimSpace(sel.Size), quantity: int(qty)}, ""
}

func ledgerRows(bill pricing.Bill) []dbgen.InsertBillLineParams {
	if len(bill.Items) == 0 {
		return nil
	}
	id, _ := uuid.Parse(bill.ID)
	rows := make([]dbgen.InsertBillLineParams, 0, len(bill.Items))
	for _, line := range bill.Items {
		rows = append(rows, dbgen.InsertBillLineParams{
			BillID:       pgtype.UUID{Bytes: id, Valid: true},
			CustomerName: bill.CustomerName,
			MobileNumber: bill.MobileNumber,
			ProductID:    line.ProductID,
			Size:         line.Size,
			Quantity:     int32(line.Quantity),
			UnitPrice:    line.UnitPrice,
			UnitCost:     line.UnitCost,
			Total:        line.Total,
			BillDate:     pgtype.Timestamptz{Time: bill.GeneratedAt, Valid: true},
		})
	}
	return rows
}

func (s *Service) publish(ctx context.Context, bill pricing.Bill) {
	if s.events == nil {
		return
	}
	payload := map[string]any{
		"bill_id":     bill.ID,
		"customer":    bill.CustomerName,
		"lines":       len(bill.Items),
		"grand_total": pricing.Format(bill.GrandTotal),
		"bill_date":   bill.GeneratedAt,
	}
	if _, err := s.events.Emit(ctx, events.TopicBillGenerated, bill.ID, payload); err != nil {
		s.log.Warn().Err(err).Str("bill_id", bill.ID).Msg("publish bill event")
	}
}

func (s *Service) archive(ctx context.Context, bill pricing.Bill) {
	if s.archiver == nil || len(bill.Items) == 0 {
		return
	}
	pdf, err := document.RenderPDF(bill, s.layout)
	if err != nil {
		obs.IncCounter(obs.ArchiveUploadsTotal, "render_failed")
		s.log.Warn().Err(err).Str("bill_id", bill.ID).Msg("render bill for archive")
		return
	}
	key, err := s.archiver.PutPDF(ctx, bill.ID, pdf)
	if err != nil {
		obs.IncCounter(obs.ArchiveUploadsTotal, "failed")
		s.log.Warn().Err(err).Str("bill_id", bill.ID).Msg("archive bill pdf")
		return
	}
	obs.IncCounter(obs.ArchiveUploadsTotal, "ok")
	s.log.Debug().Str("bill_id", bill.ID).Str("object", key).Msg("bill pdf archived")
}
