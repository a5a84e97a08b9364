package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-billing/internal/common"
	dbgen "github.com/noah-isme/backend-billing/internal/db/gen"
)

// Profit bases.
const (
	BasisCurrent = "current"
	BasisAtSale  = "at_sale"
)

const (
	topProductsLimit = 5
	salesDays        = 7
)

// VersionKey holds a counter bumped on every write that changes analytics
// input. Cached summaries are keyed by it, so a bump makes them unreachable.
const VersionKey = "an:summary:ver"

// Invalidator marks cached summaries stale after ledger appends and catalog writes.
type Invalidator struct {
	R *redis.Client
}

// Invalidate bumps the summary version. It is a no-op without Redis.
func (i Invalidator) Invalidate(ctx context.Context) error {
	if i.R == nil {
		return nil
	}
	return i.R.Incr(ctx, VersionKey).Err()
}

// Querier defines the database access required for analytics operations.
type Querier interface {
	GetSalesTotals(ctx context.Context, profitBasis string) (dbgen.GetSalesTotalsRow, error)
	ListTopProducts(ctx context.Context, arg dbgen.ListTopProductsParams) ([]dbgen.ListTopProductsRow, error)
	ListSalesByDate(ctx context.Context, arg dbgen.ListSalesByDateParams) ([]dbgen.ListSalesByDateRow, error)
}

// Service aggregates the ledger into the dashboard summary.
type Service struct {
	Q           Querier
	R           *redis.Client
	TTL         time.Duration
	ProfitBasis string
	Location    *time.Location
	Now         func() time.Time
}

// TopProduct is one best-seller row.
type TopProduct struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
	Profit    decimal.Decimal `json:"profit"`
}

// DaySales is the total for one calendar day.
type DaySales struct {
	Date   string          `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Profit decimal.Decimal `json:"profit"`
}

// Summary is the analytics dashboard payload.
type Summary struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	ProfitBasis string          `json:"profit_basis"`
	TopProducts []TopProduct    `json:"top_products"`
	SalesByDate []DaySales      `json:"sales_by_date"`
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *Service) basis() string {
	if s.ProfitBasis == BasisAtSale {
		return BasisAtSale
	}
	return BasisCurrent
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// Since returns local midnight six days before now, the start of the seven day window.
func Since(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()-(salesDays-1), 0, 0, 0, 0, loc)
}

// Compute returns totals, the top five products and the last seven days of sales.
func (s *Service) Compute(ctx context.Context) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, fmt.Errorf("analytics service not configured")
	}
	basis := s.basis()
	loc := s.location()
	since := Since(s.now(), loc)
	version, cacheable := s.version(ctx)
	key := cacheKey("an", "summary", version, basis, loc.String(), since.Format("2006-01-02"))
	if cacheable {
		if cached, ok := s.fromCache(ctx, key); ok {
			return cached, nil
		}
	}

	totals, err := s.Q.GetSalesTotals(ctx, basis)
	if err != nil {
		return Summary{}, common.PersistenceError("analytics unavailable", fmt.Errorf("sales totals: %w", err))
	}
	top, err := s.Q.ListTopProducts(ctx, dbgen.ListTopProductsParams{ProfitBasis: basis, LimitCount: topProductsLimit})
	if err != nil {
		return Summary{}, common.PersistenceError("analytics unavailable", fmt.Errorf("top products: %w", err))
	}
	days, err := s.Q.ListSalesByDate(ctx, dbgen.ListSalesByDateParams{
		Tz:          loc.String(),
		ProfitBasis: basis,
		Since:       pgtype.Timestamptz{Time: since, Valid: true},
		LimitCount:  salesDays,
	})
	if err != nil {
		return Summary{}, common.PersistenceError("analytics unavailable", fmt.Errorf("sales by date: %w", err))
	}

	out := Summary{
		TotalSales:  totals.TotalSales,
		TotalProfit: totals.TotalProfit,
		ProfitBasis: basis,
		TopProducts: make([]TopProduct, 0, len(top)),
		SalesByDate: make([]DaySales, 0, len(days)),
	}
	for _, row := range top {
		out.TopProducts = append(out.TopProducts, TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Amount:    row.Amount,
			Profit:    row.Profit,
		})
	}
	for _, row := range days {
		if !row.Day.Valid {
			continue
		}
		out.SalesByDate = append(out.SalesByDate, DaySales{
			Date:   row.Day.Time.Format("2006-01-02"),
			Total:  row.Total,
			Profit: row.Profit,
		})
	}
	if cacheable {
		s.store(ctx, key, out)
	}
	return out, nil
}

// version reads the summary version. The cache is skipped when it cannot be read.
func (s *Service) version(ctx context.Context) (int64, bool) {
	if s.R == nil || s.TTL <= 0 {
		return 0, false
	}
	v, err := s.R.Get(ctx, VersionKey).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		return 0, false
	}
	return v, true
}

func (s *Service) fromCache(ctx context.Context, key string) (Summary, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Summary{}, false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var out Summary
	if err := json.Unmarshal(data, &out); err != nil {
		return Summary{}, false
	}
	return out, true
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
