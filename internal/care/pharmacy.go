package care

import (
	"sort"
	"strings"
)

type Pharmacy struct {
	ID          string
	Name        string
	Address     string
	Phone       string
	DistanceKM  float64
	Rating      float64
	Open        bool
	OpenHours   string
	Services    []string
	Verified    bool
	LastUpdated string
}

// FilterPharmacies matches name or address and keeps pharmacies within radiusKM (0 means any),
// nearest first.
func FilterPharmacies(ps []Pharmacy, query string, radiusKM float64) []Pharmacy {
	out := make([]Pharmacy, 0, len(ps))
	for _, p := range ps {
		if radiusKM > 0 && p.DistanceKM > radiusKM {
			continue
		}
		if !Matches(query, p.Name, p.Address) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKM < out[j].DistanceKM })
	return out
}

// StockStatus of a medicine at one pharmacy.
type StockStatus string

const (
	InStock    StockStatus = "available"
	LowStock   StockStatus = "low-stock"
	OutOfStock StockStatus = "out-of-stock"
)

const lowStockThreshold = 10

func StatusFor(units int) StockStatus {
	switch {
	case units <= 0:
		return OutOfStock
	case units < lowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

type Medicine struct {
	ID           string
	Name         string
	GenericName  string
	Strength     string
	Form         string
	Category     string
	Manufacturer string
	Description  string
	SideEffects  []string
	Alternatives []string
}

// Stock is one pharmacy's listing for a medicine.
type Stock struct {
	MedicineID string
	Pharmacy   Pharmacy
	Units      int
	Price      int
}

func (s Stock) Status() StockStatus { return StatusFor(s.Units) }

// FilterMedicines matches name or generic name within category ("all" for any).
func FilterMedicines(ms []Medicine, query, category string) []Medicine {
	cat, byCat := selected(category)
	out := make([]Medicine, 0, len(ms))
	for _, m := range ms {
		if byCat && strings.ToLower(m.Category) != cat {
			continue
		}
		if !Matches(query, m.Name, m.GenericName) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SortStock orders listings by distance, price or stock.
func SortStock(ss []Stock, by string) {
	switch by {
	case "price":
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].Price < ss[j].Price })
	case "stock":
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].Units > ss[j].Units })
	default:
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].Pharmacy.DistanceKM < ss[j].Pharmacy.DistanceKM })
	}
}
