package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-month-year layout printed on bills.
const DateLayout = "02-01-2006 15:04"

// Money represents a monetary value with two decimal places.
type Money = decimal.Decimal

// Line is one priced row of a bill.
type Line struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
	UnitCost  Money  `json:"unit_cost"`
	Total     Money  `json:"total"`
}

// Bill is the computed result of one submission.
type Bill struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	MobileNumber string    `json:"mobile_number"`
	Items        []Line    `json:"items"`
	GrandTotal   Money     `json:"grand_total"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// DateLabel formats the generation time the way it is printed on bills.
func (b Bill) DateLabel() string {
	return b.GeneratedAt.Format(DateLayout)
}

// LineTotal returns price multiplied by qty.
func LineTotal(price Money, qty int) Money {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}

// Compute fills in line totals and returns the lines together with the grand total.
// Lines with a non-positive quantity are dropped.
func Compute(lines []Line) ([]Line, Money) {
	out := make([]Line, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		line.Total = LineTotal(line.UnitPrice, line.Quantity)
		total = total.Add(line.Total)
		out = append(out, line)
	}
	return out, total
}

// Format renders an amount with exactly two decimal places.
func Format(m Money) string {
	return m.StringFixed(2)
}
