package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jask/ruralcare/internal/care"
	"github.com/jask/ruralcare/internal/database/repository"
)

// StableID derives a deterministic id so reseeding never duplicates rows.
func StableID(kind, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+name)).String()
}

// SeedDefaults loads the sample catalog (doctors, pharmacies, records, platform stats)
// into an empty database. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	existing, err := repository.NewDoctorRepo(db).List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, seed := range []func(context.Context, *sql.Tx) error{seedDoctors, seedPharmacies, seedRecords, seedAdmin} {
			if err := seed(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedDoctors(ctx context.Context, tx *sql.Tx) error {
	repo := repository.NewDoctorRepo(tx)
	doctors := []care.Doctor{
		{Name: "Dr. Simran Kaur", Specialization: "General Medicine", Rating: 4.8, Experience: 12,
			Languages: []string{"English", "Hindi", "Punjabi"}, Availability: care.Available, NextSlot: "Available now",
			Fee: 200, Location: "Patiala Medical College", Verified: true},
		{Name: "Dr. Rajesh Kumar", Specialization: "Cardiology", Rating: 4.9, Experience: 15,
			Languages: []string{"English", "Hindi"}, Availability: care.Available, NextSlot: "Available now",
			Fee: 350, Location: "AIIMS Chandigarh", Verified: true},
		{Name: "Dr. Priya Sharma", Specialization: "Pediatrics", Rating: 4.7, Experience: 8,
			Languages: []string{"English", "Hindi", "Punjabi"}, Availability: care.Busy, NextSlot: "2:30 PM today",
			Fee: 250, Location: "Child Care Hospital", Verified: true},
		{Name: "Dr. Manpreet Singh", Specialization: "Orthopedics", Rating: 4.6, Experience: 10,
			Languages: []string{"English", "Punjabi", "Hindi"}, Availability: care.Available, NextSlot: "Available now",
			Fee: 300, Location: "Bone & Joint Clinic", Verified: true},
	}
	for _, d := range doctors {
		d.ID = StableID("doctor", d.Name)
		if err := repo.Upsert(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func seedPharmacies(ctx context.Context, tx *sql.Tx) error {
	repo := repository.NewPharmacyRepo(tx)
	pharmacies := []care.Pharmacy{
		{Name: "Nabha Medical Store", Address: "Main Market, Nabha, Punjab 147201", Phone: "+91 98765 43210",
			DistanceKM: 0.5, Rating: 4.5, Open: true, OpenHours: "8:00 AM - 10:00 PM",
			Services: []string{"Prescription", "OTC Medicines", "Health Checkup", "Home Delivery"}, Verified: true, LastUpdated: "2 hours ago"},
		{Name: "City Pharmacy", Address: "Bus Stand Road, Nabha, Punjab 147201", Phone: "+91 98765 43211",
			DistanceKM: 1.2, Rating: 4.2, Open: true, OpenHours: "9:00 AM - 9:00 PM",
			Services: []string{"Prescription", "OTC Medicines", "Medical Equipment"}, Verified: true, LastUpdated: "4 hours ago"},
		{Name: "Health Plus Pharmacy", Address: "Civil Hospital Road, Nabha, Punjab 147201", Phone: "+91 98765 43212",
			DistanceKM: 2.1, Rating: 4.0, Open: false, OpenHours: "8:00 AM - 8:00 PM",
			Services: []string{"Prescription", "OTC Medicines", "Ayurvedic Medicines"}, Verified: false, LastUpdated: "1 day ago"},
		{Name: "Apollo Pharmacy", Address: "GT Road, Patiala, Punjab 147001", Phone: "+91 98765 43213",
			DistanceKM: 15.5, Rating: 4.8, Open: true, OpenHours: "24/7",
			Services: []string{"Prescription", "OTC Medicines", "Health Checkup", "Lab Tests", "Home Delivery"}, Verified: true, LastUpdated: "1 hour ago"},
	}
	// units and price per pharmacy, in the order above
	stock := [][2]int{{50, 25}, {5, 28}, {0, 30}, {100, 22}}

	for i := range pharmacies {
		pharmacies[i].ID = StableID("pharmacy", pharmacies[i].Name)
		if err := repo.UpsertPharmacy(ctx, pharmacies[i]); err != nil {
			return err
		}
	}

	medicines := []care.Medicine{
		{Name: "Paracetamol", GenericName: "Acetaminophen", Strength: "500mg", Form: "tablet", Category: "Pain Relief",
			Manufacturer: "Various", Description: "Used to treat pain and reduce fever",
			SideEffects:  []string{"Nausea", "Stomach upset", "Allergic reactions (rare)"},
			Alternatives: []string{"Ibuprofen", "Aspirin", "Diclofenac"}},
		{Name: "Metformin", GenericName: "Metformin Hydrochloride", Strength: "500mg", Form: "tablet", Category: "Diabetes",
			Manufacturer: "Sun Pharma", Description: "Used to control blood sugar in type 2 diabetes",
			SideEffects:  []string{"Nausea", "Diarrhea", "Metallic taste"},
			Alternatives: []string{"Glimepiride", "Gliclazide", "Pioglitazone"}},
		{Name: "Amoxicillin", GenericName: "Amoxicillin", Strength: "250mg", Form: "capsule", Category: "Antibiotic",
			Manufacturer: "Cipla", Description: "Antibiotic used to treat bacterial infections",
			SideEffects:  []string{"Nausea", "Diarrhea", "Allergic reactions"},
			Alternatives: []string{"Azithromycin", "Cephalexin", "Doxycycline"}},
	}
	for _, m := range medicines {
		m.ID = StableID("medicine", m.Name)
		if err := repo.UpsertMedicine(ctx, m); err != nil {
			return err
		}
		for i, p := range pharmacies {
			if err := repo.SetStock(ctx, m.ID, p.ID, stock[i][0], stock[i][1]); err != nil {
				return err
			}
		}
	}
	return nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func seedRecords(ctx context.Context, tx *sql.Tx) error {
	repo := repository.NewRecordRepo(tx)
	records := []care.HealthRecord{
		{Kind: care.KindConsultation, Title: "General Health Checkup", Date: day("2024-12-15"),
			Doctor: "Dr. Simran Kaur", Hospital: "Patiala Medical College", Status: "normal",
			Summary:     "Regular checkup completed. Blood pressure and vitals normal. Recommended continued medication.",
			Attachments: []string{"prescription.pdf", "notes.txt"}, Synced: true},
		{Kind: care.KindLabResult, Title: "Blood Test Results", Date: day("2024-12-10"),
			Doctor: "Dr. Rajesh Kumar", Hospital: "AIIMS Chandigarh", Status: "abnormal",
			Summary:     "Slightly elevated blood sugar levels. Recommended dietary changes and follow-up in 3 months.",
			Attachments: []string{"blood-test.pdf"}, Synced: true},
		{Kind: care.KindPrescription, Title: "Diabetes Medication", Date: day("2024-12-08"),
			Doctor: "Dr. Simran Kaur", Hospital: "Patiala Medical College", Status: "normal",
			Summary: "Metformin 500mg twice daily, Glimepiride 1mg once daily. Take with meals."},
		{Kind: care.KindVaccination, Title: "COVID-19 Booster", Date: day("2024-11-20"),
			Hospital: "Village Health Center", Status: "normal",
			Summary: "COVID-19 booster vaccination administered. No adverse reactions observed.", Synced: true},
		{Kind: care.KindVitalSigns, Title: "Daily Vitals", Date: day("2024-12-16"), Status: "normal",
			Summary: "BP: 120/80, Heart Rate: 72 bpm, Temperature: 98.6°F, Weight: 68kg"},
	}
	for _, r := range records {
		r.ID = StableID("record", r.Title)
		if err := repo.UpsertRecord(ctx, r); err != nil {
			return err
		}
	}

	contacts := []care.EmergencyContact{
		{Name: "Gurpreet Singh (Son)", Phone: "+91 98765 43211", Relation: "Son"},
		{Name: "Dr. Simran Kaur", Phone: "+91 98765 43212", Relation: "Primary Doctor"},
		{Name: "Village Health Worker", Phone: "+91 98765 43213", Relation: "Local Health Worker"},
	}
	for i, c := range contacts {
		if err := repo.UpsertContact(ctx, StableID("contact", c.Name), i, c); err != nil {
			return err
		}
	}

	alerts := []care.MedicalAlert{
		{Kind: "Allergy", Description: "Penicillin allergy - severe reaction", Severity: care.SeverityCritical},
		{Kind: "Condition", Description: "Type 2 Diabetes", Severity: care.SeverityImportant},
		{Kind: "Medication", Description: "Currently taking Metformin", Severity: care.SeverityNormal},
	}
	for _, a := range alerts {
		if err := repo.UpsertAlert(ctx, StableID("alert", a.Description), a); err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx) error {
	repo := repository.NewAdminRepo(tx)
	trend := []care.MonthlyConsultations{
		{Month: "Jan", Consultations: 245}, {Month: "Feb", Consultations: 312}, {Month: "Mar", Consultations: 389},
		{Month: "Apr", Consultations: 456}, {Month: "May", Consultations: 523}, {Month: "Jun", Consultations: 601},
	}
	for i, m := range trend {
		m.Revenue = m.Consultations * 50
		if err := repo.UpsertMonth(ctx, i, m); err != nil {
			return err
		}
	}
	for _, u := range []struct {
		kind  string
		total int
	}{{"Patients", 1247}, {"Doctors", 89}, {"Pharmacists", 34}, {"Admins", 12}} {
		if err := repo.SetUserCount(ctx, u.kind, u.total); err != nil {
			return err
		}
	}
	villages := []care.VillageStat{
		{Village: "Nabha", Patients: 234, Consultations: 89, Status: "active"},
		{Village: "Rajpura", Patients: 189, Consultations: 67, Status: "active"},
		{Village: "Samana", Patients: 156, Consultations: 45, Status: "active"},
		{Village: "Ghanaur", Patients: 123, Consultations: 34, Status: "maintenance"},
		{Village: "Bhadson", Patients: 98, Consultations: 28, Status: "active"},
	}
	for _, v := range villages {
		if err := repo.UpsertVillage(ctx, v); err != nil {
			return err
		}
	}
	consultations := []care.Consultation{
		{ID: "C001", Patient: "Ram Kumar", Doctor: "Dr. Simran Kaur", CallType: care.CallVideo, Status: "completed", DurationMin: 25, Village: "Nabha", Ago: "2 hours ago"},
		{ID: "C002", Patient: "Sunita Devi", Doctor: "Dr. Rajesh Sharma", CallType: care.CallAudio, Status: "in-progress", DurationMin: 12, Village: "Rajpura", Ago: "1 hour ago"},
		{ID: "C003", Patient: "Harpreet Singh", Doctor: "Dr. Kavita Patel", CallType: care.CallVideo, Status: "completed", DurationMin: 18, Village: "Samana", Ago: "3 hours ago"},
	}
	for _, c := range consultations {
		if err := repo.UpsertConsultation(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// SampleSystemHealth is the platform health snapshot shown to admins.
func SampleSystemHealth() care.SystemHealth {
	return care.SystemHealth{UptimePct: 99.8, ActiveConnections: 156, ServerLoadPct: 67, DatabaseHealthPct: 98, APIResponseMS: 245}
}
