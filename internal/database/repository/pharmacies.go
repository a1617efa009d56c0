package repository

import (
	"context"

	"github.com/jask/ruralcare/internal/care"
)

// PharmacyRepo handles pharmacies, medicines and their stock listings.
type PharmacyRepo struct {
	db DBTX
}

func NewPharmacyRepo(db DBTX) *PharmacyRepo { return &PharmacyRepo{db: db} }

func (r *PharmacyRepo) UpsertPharmacy(ctx context.Context, p care.Pharmacy) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO pharmacies(id, name, address, phone, distance_km, rating, is_open, open_hours, services, verified, last_updated)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name, address=excluded.address, phone=excluded.phone,
	 distance_km=excluded.distance_km, rating=excluded.rating, is_open=excluded.is_open,
	 open_hours=excluded.open_hours, services=excluded.services, verified=excluded.verified,
	 last_updated=excluded.last_updated;
	`, p.ID, p.Name, p.Address, p.Phone, p.DistanceKM, p.Rating, boolInt(p.Open), p.OpenHours, joinList(p.Services), boolInt(p.Verified), p.LastUpdated)
	return err
}

const pharmacyCols = `p.id, p.name, p.address, p.phone, p.distance_km, p.rating, p.is_open, p.open_hours, p.services, p.verified, p.last_updated`

func scanPharmacy(dest []any, p *care.Pharmacy, open, verified *int, services *string) []any {
	return append(dest, &p.ID, &p.Name, &p.Address, &p.Phone, &p.DistanceKM, &p.Rating, open, &p.OpenHours, services, verified, &p.LastUpdated)
}

func (r *PharmacyRepo) ListPharmacies(ctx context.Context) ([]care.Pharmacy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+pharmacyCols+` FROM pharmacies p ORDER BY p.distance_km`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []care.Pharmacy
	for rows.Next() {
		var p care.Pharmacy
		var open, verified int
		var services string
		if err := rows.Scan(scanPharmacy(nil, &p, &open, &verified, &services)...); err != nil {
			return nil, err
		}
		p.Open, p.Verified, p.Services = open == 1, verified == 1, splitList(services)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PharmacyRepo) UpsertMedicine(ctx context.Context, m care.Medicine) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO medicines(id, name, generic_name, strength, form, category, manufacturer, description, side_effects, alternatives)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name, generic_name=excluded.generic_name, strength=excluded.strength,
	 form=excluded.form, category=excluded.category, manufacturer=excluded.manufacturer,
	 description=excluded.description, side_effects=excluded.side_effects, alternatives=excluded.alternatives;
	`, m.ID, m.Name, m.GenericName, m.Strength, m.Form, m.Category, m.Manufacturer, m.Description, joinList(m.SideEffects), joinList(m.Alternatives))
	return err
}

func (r *PharmacyRepo) ListMedicines(ctx context.Context) ([]care.Medicine, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, generic_name, strength, form, category, manufacturer, description, side_effects, alternatives
	FROM medicines ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []care.Medicine
	for rows.Next() {
		var m care.Medicine
		var side, alts string
		if err := rows.Scan(&m.ID, &m.Name, &m.GenericName, &m.Strength, &m.Form, &m.Category, &m.Manufacturer, &m.Description, &side, &alts); err != nil {
			return nil, err
		}
		m.SideEffects, m.Alternatives = splitList(side), splitList(alts)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PharmacyRepo) SetStock(ctx context.Context, medicineID, pharmacyID string, units, price int) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO medicine_stock(medicine_id, pharmacy_id, units, price) VALUES (?, ?, ?, ?)
	ON CONFLICT(medicine_id, pharmacy_id) DO UPDATE SET units=excluded.units, price=excluded.price;
	`, medicineID, pharmacyID, units, price)
	return err
}

// StockFor lists every pharmacy carrying the medicine, nearest first.
func (r *PharmacyRepo) StockFor(ctx context.Context, medicineID string) ([]care.Stock, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT s.units, s.price, `+pharmacyCols+`
	FROM medicine_stock s JOIN pharmacies p ON p.id = s.pharmacy_id
	WHERE s.medicine_id = ? ORDER BY p.distance_km`, medicineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []care.Stock
	for rows.Next() {
		st := care.Stock{MedicineID: medicineID}
		var open, verified int
		var services string
		dest := scanPharmacy([]any{&st.Units, &st.Price}, &st.Pharmacy, &open, &verified, &services)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		st.Pharmacy.Open, st.Pharmacy.Verified, st.Pharmacy.Services = open == 1, verified == 1, splitList(services)
		out = append(out, st)
	}
	return out, rows.Err()
}
