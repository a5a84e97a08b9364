package main

import (
	"database/sql"
	"flag"
	"math/rand"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-billing/internal/config"
	"github.com/noah-isme/backend-billing/internal/obs"
)

type seedProduct struct {
	Name    string
	Buying  string
	Selling string
	Sizes   string
}

var products = []seedProduct{
	{"Oversized Tee", "180.00", "499.00", "S,M,L,XL"},
	{"Graphic Hoodie", "520.00", "1299.00", "M,L,XL"},
	{"Cargo Joggers", "410.00", "999.00", "S,M,L,XL"},
	{"Denim Jacket", "900.00", "2199.00", "M,L"},
	{"Bucket Hat", "90.00", "349.00", "Free"},
	{"Crew Socks (3 pack)", "60.00", "199.00", "Free"},
}

var customers = []struct {
	Name   string
	Mobile string
}{
	{"Asha Rao", "9876543210"},
	{"Vikram Shah", "9123456780"},
	{"Meera Iyer", "9988776655"},
	{"Rohan Das", "9090909090"},
}

func main() {
	days := flag.Int("history-days", 0, "also insert sample bills spread over this many past days")
	flag.Parse()

	logger := obs.NewLogger("console", "info")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	ids := seedProducts(db, logger)
	if *days > 0 {
		seedBills(db, logger, ids, *days)
	}
	logger.Info().Int("products", len(ids)).Msg("seeding completed")
}

func seedProducts(db *sql.DB, logger zerolog.Logger) map[int64]seedProduct {
	ids := make(map[int64]seedProduct, len(products))
	for _, p := range products {
		var id int64
		err := db.QueryRow(`
			SELECT id FROM products WHERE name = $1 ORDER BY id LIMIT 1
		`, p.Name).Scan(&id)
		if err == sql.ErrNoRows {
			err = db.QueryRow(`
				INSERT INTO products (name, buying_price, selling_price, sizes)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, p.Name, p.Buying, p.Selling, p.Sizes).Scan(&id)
		}
		if err != nil {
			logger.Error().Err(err).Str("product", p.Name).Msg("seed product")
			continue
		}
		ids[id] = p
	}
	return ids
}

func seedBills(db *sql.DB, logger zerolog.Logger, catalog map[int64]seedProduct, days int) {
	if len(catalog) == 0 {
		return
	}
	productIDs := make([]int64, 0, len(catalog))
	for id := range catalog {
		productIDs = append(productIDs, id)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	inserted := 0
	for day := 0; day < days; day++ {
		billDate := time.Now().AddDate(0, 0, -day).Truncate(time.Hour)
		for n := 0; n < 1+rng.Intn(3); n++ {
			customer := customers[rng.Intn(len(customers))]
			billID := uuid.New()
			for l := 0; l < 1+rng.Intn(3); l++ {
				id := productIDs[rng.Intn(len(productIDs))]
				p := catalog[id]
				qty := 1 + rng.Intn(3)
				_, err := db.Exec(`
					INSERT INTO bills (bill_id, customer_name, mobile_number, product_id, size, quantity, unit_price, unit_cost, total, bill_date)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $7::numeric * $6, $9)
				`, billID.String(), customer.Name, customer.Mobile, id, "M", qty, p.Selling, p.Buying, billDate)
				if err != nil {
					logger.Error().Err(err).Str("bill_id", billID.String()).Msg("seed bill line")
					continue
				}
				inserted++
			}
		}
	}
	logger.Info().Int("lines", inserted).Int("days", days).Msg("seeded bill history")
}
