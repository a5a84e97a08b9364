package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-billing/internal/common"
	dbgen "github.com/noah-isme/backend-billing/internal/db/gen"
	"github.com/noah-isme/backend-billing/internal/events"
)

// DefaultSizes is stored when a product is added without sizes.
const DefaultSizes = "S,M,L,XL"

type queryProvider interface {
	ListProducts(ctx context.Context) ([]dbgen.Product, error)
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
	UpdateProduct(ctx context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error)
}

type emitter interface {
	Emit(ctx context.Context, topic, key string, payload any) (events.Event, error)
}

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service manages the product catalog.
type Service struct {
	queries  queryProvider
	cache    *Cache
	derived  invalidator
	events   emitter
	validate *validator.Validate
	log      zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries   queryProvider
	Cache     *Cache
	Analytics invalidator
	Events    emitter
	Validator *validator.Validate
	Logger    zerolog.Logger
}

// Product is the catalog entry exposed to handlers and views.
type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	BuyingPrice  decimal.Decimal `json:"buying_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Sizes        []string        `json:"sizes"`
}

// AddInput carries the raw add-product form.
type AddInput struct {
	Name         string `validate:"required,max=255"`
	BuyingPrice  string `validate:"required"`
	SellingPrice string `validate:"required"`
	Sizes        string
}

// UpdateRequest lists the fields to change. Nil fields are left untouched.
type UpdateRequest struct {
	ID           int64
	Name         *string
	BuyingPrice  *decimal.Decimal
	SellingPrice *decimal.Decimal
}

// Empty reports whether no field was supplied.
func (u UpdateRequest) Empty() bool {
	return u.Name == nil && u.BuyingPrice == nil && u.SellingPrice == nil
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	v := cfg.Validator
	if v == nil {
		v = validator.New()
	}
	return &Service{
		queries:  cfg.Queries,
		cache:    cfg.Cache,
		derived:  cfg.Analytics,
		events:   cfg.Events,
		validate: v,
		log:      cfg.Logger,
	}, nil
}

// List returns every product ordered by id.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	cached, ok, err := s.cache.Products(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("catalog cache read failed")
	}
	if ok {
		return cached, nil
	}
	rows, err := s.queries.ListProducts(ctx)
	if err != nil {
		return nil, common.PersistenceError("catalog unavailable", fmt.Errorf("list products: %w", err))
	}
	items := make([]Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, toProduct(row))
	}
	if err := s.cache.StoreProducts(ctx, items); err != nil {
		s.log.Warn().Err(err).Msg("catalog cache write failed")
	}
	return items, nil
}

// Add validates and inserts a new product.
func (s *Service) Add(ctx context.Context, in AddInput) (Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.BuyingPrice = strings.TrimSpace(in.BuyingPrice)
	in.SellingPrice = strings.TrimSpace(in.SellingPrice)
	if err := s.validate.Struct(in); err != nil {
		return Product{}, common.ValidationFailed("invalid product", err)
	}
	buying, err := ParsePrice("buying_price", in.BuyingPrice)
	if err != nil {
		return Product{}, err
	}
	selling, err := ParsePrice("selling_price", in.SellingPrice)
	if err != nil {
		return Product{}, err
	}
	row, err := s.queries.CreateProduct(ctx, dbgen.CreateProductParams{
		Name:         in.Name,
		BuyingPrice:  buying,
		SellingPrice: selling,
		Sizes:        NormalizeSizes(in.Sizes),
	})
	if err != nil {
		return Product{}, common.PersistenceError("product not saved", fmt.Errorf("create product: %w", err))
	}
	product := toProduct(row)
	s.invalidate(ctx)
	s.emit(ctx, events.TopicProductCreated, product)
	return product, nil
}

// Update applies the supplied fields in one fixed statement. An empty request is a no-op.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Product, error) {
	if req.ID <= 0 {
		return nil, common.ValidationError("product_id must be a positive integer", map[string]any{"field": "product_id"})
	}
	if req.Empty() {
		return nil, nil
	}
	params := dbgen.UpdateProductParams{ID: req.ID}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, common.ValidationError("name cannot be blank", map[string]any{"field": "new_name"})
		}
		params.Name = pgtype.Text{String: name, Valid: true}
	}
	if req.BuyingPrice != nil {
		if req.BuyingPrice.IsNegative() {
			return nil, common.ValidationError("buying_price must not be negative", map[string]any{"field": "new_buying_price"})
		}
		params.BuyingPrice = decimal.NewNullDecimal(*req.BuyingPrice)
	}
	if req.SellingPrice != nil {
		if req.SellingPrice.IsNegative() {
			return nil, common.ValidationError("selling_price must not be negative", map[string]any{"field": "new_selling_price"})
		}
		params.SellingPrice = decimal.NewNullDecimal(*req.SellingPrice)
	}
	row, err := s.queries.UpdateProduct(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NotFoundError("product not found", err)
		}
		return nil, common.PersistenceError("product not updated", fmt.Errorf("update product: %w", err))
	}
	product := toProduct(row)
	s.invalidate(ctx)
	s.emit(ctx, events.TopicProductUpdated, product)
	return &product, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
	if s.derived == nil {
		return
	}
	if err := s.derived.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("analytics invalidation failed")
	}
}

func (s *Service) emit(ctx context.Context, topic string, product Product) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Emit(ctx, topic, strconv.FormatInt(product.ID, 10), product); err != nil {
		s.log.Warn().Err(err).Str("topic", topic).Int64("product_id", product.ID).Msg("publish product event")
	}
}

// ParsePrice parses a non-negative amount with at most two decimal places.
func ParsePrice(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, common.ValidationError(field+" must be a number", map[string]any{"field": field, "value": raw})
	}
	if d.IsNegative() {
		return decimal.Zero, common.ValidationError(field+" must not be negative", map[string]any{"field": field, "value": raw})
	}
	if !d.Equal(d.Round(2)) {
		return decimal.Zero, common.ValidationError(field+" must have at most two decimal places", map[string]any{"field": field, "value": raw})
	}
	return d.Round(2), nil
}

// NormalizeSizes trims each size and drops blanks, falling back to DefaultSizes.
func NormalizeSizes(raw string) string {
	parts := SplitSizes(raw)
	if len(parts) == 0 {
		return DefaultSizes
	}
	return strings.Join(parts, ",")
}

// SplitSizes turns the stored comma-separated sizes into a list.
func SplitSizes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toProduct(row dbgen.Product) Product {
	return Product{
		ID:           row.ID,
		Name:         row.Name,
		BuyingPrice:  row.BuyingPrice,
		SellingPrice: row.SellingPrice,
		Sizes:        SplitSizes(row.Sizes),
	}
}
