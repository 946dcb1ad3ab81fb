package migrations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// A migration is an ordered, numbered schema step. Steps run exactly once,
// at process start, before any request is served.
type migration struct {
	version int
	name    string
	stmts   []string
}

var all = []migration{
	{
		version: 1,
		name:    "initial schema",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS doctors (
				doctor_id INTEGER PRIMARY KEY AUTOINCREMENT,
				f_name TEXT NOT NULL,
				l_name TEXT NOT NULL,
				specialization TEXT,
				contact TEXT,
				department TEXT,
				availability TEXT,
				password TEXT,
				created_at TEXT DEFAULT (datetime('now'))
			);`,
			`CREATE TABLE IF NOT EXISTS patients (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				dob TEXT,
				phone TEXT,
				address TEXT,
				doctor INTEGER REFERENCES doctors(doctor_id) ON DELETE SET NULL,
				department TEXT,
				created_at TEXT DEFAULT (datetime('now'))
			);`,
			`CREATE TABLE IF NOT EXISTS appointments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
				doctor_id INTEGER REFERENCES doctors(doctor_id) ON DELETE SET NULL,
				appointment_datetime TEXT NOT NULL,
				status TEXT NOT NULL CHECK(status IN ('booked','confirmed','cancelled','completed')) DEFAULT 'booked',
				notes TEXT,
				fee REAL DEFAULT 0,
				actions TEXT
			);`,
			`CREATE TABLE IF NOT EXISTS treatments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
				doctor_id INTEGER REFERENCES doctors(doctor_id) ON DELETE SET NULL,
				description TEXT,
				start_date TEXT DEFAULT (datetime('now')),
				end_date TEXT,
				cost REAL DEFAULT 0,
				notes TEXT
			);`,
			`CREATE TABLE IF NOT EXISTS prescriptions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
				doctor_id INTEGER REFERENCES doctors(doctor_id) ON DELETE SET NULL,
				treatment_id INTEGER REFERENCES treatments(id) ON DELETE SET NULL,
				created_at TEXT DEFAULT (datetime('now')),
				notes TEXT
			);`,
			`CREATE TABLE IF NOT EXISTS prescription_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				prescription_id INTEGER NOT NULL REFERENCES prescriptions(id) ON DELETE CASCADE,
				medication_name TEXT,
				medication_description TEXT,
				dosage TEXT,
				quantity INTEGER DEFAULT 1,
				unit_price REAL DEFAULT 0,
				fulfilled INTEGER DEFAULT 0,
				fulfilled_at TEXT
			);`,
			`CREATE TABLE IF NOT EXISTS lab_tests (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
				doctor_id INTEGER REFERENCES doctors(doctor_id) ON DELETE SET NULL,
				test_name TEXT NOT NULL,
				requested_at TEXT DEFAULT (datetime('now')),
				performed_at TEXT,
				result TEXT,
				status TEXT NOT NULL CHECK(status IN ('ordered','in_progress','completed','cancelled')) DEFAULT 'ordered',
				cost REAL DEFAULT 0,
				notes TEXT
			);`,
			`CREATE TABLE IF NOT EXISTS bills (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id INTEGER NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
				total_amount REAL DEFAULT 0,
				paid INTEGER DEFAULT 0,
				created_at TEXT DEFAULT (datetime('now')),
				paid_at TEXT
			);`,
			`CREATE TABLE IF NOT EXISTS bill_items (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				bill_id INTEGER NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
				item_type TEXT NOT NULL,
				item_ref INTEGER,
				description TEXT,
				amount REAL NOT NULL DEFAULT 0,
				created_at TEXT DEFAULT (datetime('now'))
			);`,
		},
	},
	{
		version: 2,
		name:    "item-level payment columns",
		stmts: []string{
			`ALTER TABLE bill_items ADD COLUMN paid INTEGER DEFAULT 0;`,
			`ALTER TABLE bill_items ADD COLUMN paid_at TEXT;`,
		},
	},
	{
		version: 3,
		name:    "treatment-prescription linkage",
		stmts: []string{
			`ALTER TABLE treatments ADD COLUMN prescription_id INTEGER REFERENCES prescriptions(id) ON DELETE SET NULL;`,
		},
	},
	{
		version: 4,
		name:    "one open bill per patient",
		stmts: []string{
			// Safety net for the open-bill invariant: a concurrent
			// lookup-or-create race becomes a retryable constraint error
			// instead of a silent duplicate.
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_bills_one_open_per_patient
				ON bills(patient_id) WHERE paid = 0;`,
		},
	},
	{
		version: 5,
		name:    "payment receipts",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS payments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				receipt_ref TEXT NOT NULL UNIQUE,
				method TEXT NOT NULL,
				amount REAL NOT NULL DEFAULT 0,
				item_count INTEGER NOT NULL DEFAULT 0,
				created_at TEXT DEFAULT (datetime('now'))
			);`,
		},
	},
}

// Run applies every migration not yet recorded in schema_migrations. Each
// step commits atomically together with its version row, so a partially
// applied step can never be recorded as done.
func Run(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT DEFAULT (datetime('now'))
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	var versions []int
	if err := db.Select(&versions, `SELECT version FROM schema_migrations`); err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range all {
		if applied[m.version] {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return err
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("applied migration")
	}
	return nil
}
