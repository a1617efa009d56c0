package repository

import (
	"context"
	"time"

	"github.com/jask/ruralcare/internal/care"
)

// RecordRepo handles health records and the emergency profile.
type RecordRepo struct {
	db DBTX
}

func NewRecordRepo(db DBTX) *RecordRepo { return &RecordRepo{db: db} }

func (r *RecordRepo) UpsertRecord(ctx context.Context, rec care.HealthRecord) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO health_records(id, kind, title, day, doctor, hospital, status, summary, attachments, synced)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 kind=excluded.kind, title=excluded.title, day=excluded.day, doctor=excluded.doctor,
	 hospital=excluded.hospital, status=excluded.status, summary=excluded.summary,
	 attachments=excluded.attachments, synced=excluded.synced;
	`, rec.ID, string(rec.Kind), rec.Title, rec.Date.Format(dayLayout), rec.Doctor, rec.Hospital, rec.Status, rec.Summary, joinList(rec.Attachments), boolInt(rec.Synced))
	return err
}

func (r *RecordRepo) ListRecords(ctx context.Context) ([]care.HealthRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, kind, title, day, doctor, hospital, status, summary, attachments, synced
	FROM health_records ORDER BY day DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []care.HealthRecord
	for rows.Next() {
		var rec care.HealthRecord
		var kind, day, attachments string
		var synced int
		if err := rows.Scan(&rec.ID, &kind, &rec.Title, &day, &rec.Doctor, &rec.Hospital, &rec.Status, &rec.Summary, &attachments, &synced); err != nil {
			return nil, err
		}
		if rec.Date, err = time.Parse(dayLayout, day); err != nil {
			return nil, err
		}
		rec.Kind, rec.Attachments, rec.Synced = care.RecordKind(kind), splitList(attachments), synced == 1
		out = append(out, rec)
	}
	return out, rows.Err()
}

// MarkSynced flags every record as uploaded and returns how many changed.
func (r *RecordRepo) MarkSynced(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE health_records SET synced = 1 WHERE synced = 0`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *RecordRepo) UpsertContact(ctx context.Context, id string, order int, c care.EmergencyContact) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO emergency_contacts(id, name, phone, relation, sort_order) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, phone=excluded.phone, relation=excluded.relation, sort_order=excluded.sort_order;
	`, id, c.Name, c.Phone, c.Relation, order)
	return err
}

func (r *RecordRepo) UpsertAlert(ctx context.Context, id string, a care.MedicalAlert) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO medical_alerts(id, kind, description, severity) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET kind=excluded.kind, description=excluded.description, severity=excluded.severity;
	`, id, a.Kind, a.Description, string(a.Severity))
	return err
}

func (r *RecordRepo) EmergencyProfile(ctx context.Context) (care.EmergencyProfile, error) {
	var p care.EmergencyProfile
	rows, err := r.db.QueryContext(ctx, `SELECT name, phone, relation FROM emergency_contacts ORDER BY sort_order`)
	if err != nil {
		return p, err
	}
	for rows.Next() {
		var c care.EmergencyContact
		if err := rows.Scan(&c.Name, &c.Phone, &c.Relation); err != nil {
			rows.Close()
			return p, err
		}
		p.Contacts = append(p.Contacts, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return p, err
	}

	rows, err = r.db.QueryContext(ctx, `SELECT kind, description, severity FROM medical_alerts ORDER BY id`)
	if err != nil {
		return p, err
	}
	defer rows.Close()
	for rows.Next() {
		var a care.MedicalAlert
		var sev string
		if err := rows.Scan(&a.Kind, &a.Description, &sev); err != nil {
			return p, err
		}
		a.Severity = care.Severity(sev)
		p.Alerts = append(p.Alerts, a)
	}
	p.Alerts = care.CriticalFirst(p.Alerts)
	return p, rows.Err()
}
