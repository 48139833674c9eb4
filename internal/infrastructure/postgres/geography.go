package postgres

import (
	"context"
	"encoding/csv"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// geographySeedLock serialises concurrent seeders across instances.
const geographySeedLock = 7_320_001

// SeedGeography loads federal districts, regions and cities from CSV files in
// fsys (under reference/) in one transaction. It is a no-op when any federal
// district already exists and reports whether rows were inserted.
func SeedGeography(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS) (bool, error) {
	districts, err := readCSV(fsys, "reference/federal_districts.csv", 2)
	if err != nil {
		return false, err
	}
	regions, err := readCSV(fsys, "reference/regions.csv", 3)
	if err != nil {
		return false, err
	}
	cities, err := readCSV(fsys, "reference/cities.csv", 4)
	if err != nil {
		return false, err
	}

	seeded := false
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, geographySeedLock); err != nil {
			return err
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM federal_districts)`).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return nil
		}

		b := &pgx.Batch{}
		for _, r := range districts {
			b.Queue(`INSERT INTO federal_districts (id, name) VALUES ($1, $2)`, r.id, r.cols[0])
		}
		for _, r := range regions {
			b.Queue(`INSERT INTO regions (id, name, federal_district_id) VALUES ($1, $2, $3)`, r.id, r.cols[0], r.refs[0])
		}
		for _, r := range cities {
			b.Queue(`INSERT INTO cities (id, name, region_id, federal_district_id) VALUES ($1, $2, $3, $4)`,
				r.id, r.cols[0], r.refs[0], r.refs[1])
		}
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

type refRow struct {
	id   int64
	cols []string
	refs []int64
}

// readCSV reads a headered file whose first column is the id, second the name
// and the rest integer foreign keys.
func readCSV(fsys fs.FS, name string, width int) ([]refRow, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = width
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rows := make([]refRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		id, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, i+2, err)
		}
		row := refRow{id: id, cols: []string{rec[1]}}
		for _, v := range rec[2:] {
			ref, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", name, i+2, err)
			}
			row.refs = append(row.refs, ref)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
