// Package measurement computes running totals of contract items across
// measurement bulletins.
package measurement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Entry is the quantity measured for one contract item in one bulletin.
type Entry struct {
	BulletinNumber int
	Quantity       decimal.Decimal
}

// Accumulation is the measured position of a contract item at a bulletin.
type Accumulation struct {
	Before     decimal.Decimal
	ThisPeriod decimal.Decimal
	After      decimal.Decimal
	Contracted decimal.Decimal
	Balance    decimal.Decimal
	Exceeded   bool
}

// Accumulate sums the history entries strictly before bulletinNumber and adds
// the current period. Entries at or after bulletinNumber are ignored, so the
// same history can be used for every bulletin of a contract.
func Accumulate(history []Entry, bulletinNumber int, current, contracted decimal.Decimal) Accumulation {
	before := decimal.Zero
	for _, h := range history {
		if h.BulletinNumber < bulletinNumber {
			before = before.Add(h.Quantity)
		}
	}
	return build(before, current, contracted)
}

// Additive computes an out-of-contract item. Its contracted quantity is
// local to the bulletin, so nothing is carried from earlier periods.
func Additive(current, contracted decimal.Decimal) Accumulation {
	return build(decimal.Zero, current, contracted)
}

func build(before, current, contracted decimal.Decimal) Accumulation {
	after := before.Add(current)
	return Accumulation{
		Before:     before,
		ThisPeriod: current,
		After:      after,
		Contracted: contracted,
		Balance:    contracted.Sub(after),
		Exceeded:   after.GreaterThan(contracted),
	}
}

// Point is the accumulation of a contract item at one bulletin.
type Point struct {
	BulletinNumber int
	Accumulation
}

// Series returns the accumulation of every bulletin in history, ordered by
// bulletin number.
func Series(history []Entry, contracted decimal.Decimal) []Point {
	sorted := make([]Entry, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BulletinNumber < sorted[j].BulletinNumber
	})

	out := make([]Point, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, Point{
			BulletinNumber: e.BulletinNumber,
			Accumulation:   Accumulate(sorted, e.BulletinNumber, e.Quantity, contracted),
		})
	}
	return out
}

// Value is quantity times unit price, rounded to cents.
func Value(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// Money holds the monetary view of an Accumulation.
type Money struct {
	Before     decimal.Decimal
	ThisPeriod decimal.Decimal
	After      decimal.Decimal
	Contracted decimal.Decimal
}

func (a Accumulation) Money(unitPrice decimal.Decimal) Money {
	return Money{
		Before:     Value(a.Before, unitPrice),
		ThisPeriod: Value(a.ThisPeriod, unitPrice),
		After:      Value(a.After, unitPrice),
		Contracted: Value(a.Contracted, unitPrice),
	}
}
