package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
)

// ErrRejectionNotFound is returned when no record exists for a key.
var ErrRejectionNotFound = fmt.Errorf("rejection record not found")

type PostgresRejectionRepository struct {
	db *sql.DB
}

func NewPostgresRejectionRepository(db *sql.DB) *PostgresRejectionRepository {
	return &PostgresRejectionRepository{db: db}
}

const rejectionColumns = `invoice_number, file_name, carrier, paycode,
	rej_code_1, rej_code_2, rej_code_3, rej_code_4,
	remark_1, remark_2, remark_3, remark_4,
	line_item_post, group_number, completed, comment, batch_number,
	created_at, updated_at`

// CreateSchema creates the rejections table if it does not exist.
func (r *PostgresRejectionRepository) CreateSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS rejections (
		invoice_number BIGINT NOT NULL,
		file_name      TEXT NOT NULL,
		carrier        TEXT NOT NULL DEFAULT '',
		paycode        TEXT,
		rej_code_1     TEXT NOT NULL DEFAULT '',
		rej_code_2     TEXT NOT NULL DEFAULT '',
		rej_code_3     TEXT NOT NULL DEFAULT '',
		rej_code_4     TEXT NOT NULL DEFAULT '',
		remark_1       TEXT NOT NULL DEFAULT '',
		remark_2       TEXT NOT NULL DEFAULT '',
		remark_3       TEXT NOT NULL DEFAULT '',
		remark_4       TEXT NOT NULL DEFAULT '',
		line_item_post BOOLEAN NOT NULL DEFAULT FALSE,
		group_number   INTEGER NOT NULL,
		completed      BOOLEAN NOT NULL DEFAULT FALSE,
		comment        TEXT,
		batch_number   TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (invoice_number, file_name)
	);
	CREATE INDEX IF NOT EXISTS rejections_pending_idx
		ON rejections (file_name, group_number) WHERE NOT completed;`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("error creating rejections schema: %w", err)
	}
	return nil
}

func (r *PostgresRejectionRepository) AddBatch(ctx context.Context, recs []*rejection.Rejection) error {
	if len(recs) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for batch insert: %w", err)
	}
	defer txn.Rollback()

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO rejections (`+rejectionColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW(),NOW())
		ON CONFLICT (invoice_number, file_name) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for batch insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			rec.InvoiceNumber, rec.FileName, rec.Carrier, rec.Paycode,
			rec.RejCodes[0], rec.RejCodes[1], rec.RejCodes[2], rec.RejCodes[3],
			rec.Remarks[0], rec.Remarks[1], rec.Remarks[2], rec.Remarks[3],
			rec.LineItemPost, rec.Group, rec.Completed, rec.Comment, rec.BatchNumber,
		)
		if err != nil {
			return fmt.Errorf("error inserting rejection %d/%s: %w", rec.InvoiceNumber, rec.FileName, err)
		}
	}

	return txn.Commit()
}

func (r *PostgresRejectionRepository) Update(ctx context.Context, rec *rejection.Rejection) error {
	query := `UPDATE rejections
		SET carrier = $1, paycode = $2, completed = $3, comment = $4, batch_number = $5, updated_at = NOW()
		WHERE invoice_number = $6 AND file_name = $7
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		rec.Carrier, rec.Paycode, rec.Completed, rec.Comment, rec.BatchNumber,
		rec.InvoiceNumber, rec.FileName,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRejectionNotFound
		}
		return fmt.Errorf("error updating rejection %d/%s: %w", rec.InvoiceNumber, rec.FileName, err)
	}
	return nil
}

func (r *PostgresRejectionRepository) Get(ctx context.Context, invoiceNumber int64, fileName string) (*rejection.Rejection, error) {
	query := `SELECT ` + rejectionColumns + ` FROM rejections WHERE invoice_number = $1 AND file_name = $2`
	rec := rejection.Rejection{}
	err := r.db.QueryRowContext(ctx, query, invoiceNumber, fileName).Scan(
		&rec.InvoiceNumber, &rec.FileName, &rec.Carrier, &rec.Paycode,
		&rec.RejCodes[0], &rec.RejCodes[1], &rec.RejCodes[2], &rec.RejCodes[3],
		&rec.Remarks[0], &rec.Remarks[1], &rec.Remarks[2], &rec.Remarks[3],
		&rec.LineItemPost, &rec.Group, &rec.Completed, &rec.Comment, &rec.BatchNumber,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRejectionNotFound
		}
		return nil, fmt.Errorf("error getting rejection %d/%s: %w", invoiceNumber, fileName, err)
	}
	return &rec, nil
}

func (r *PostgresRejectionRepository) ListPending(ctx context.Context, fileName string, group int) ([]*rejection.Rejection, error) {
	query := `SELECT ` + rejectionColumns + ` FROM rejections
		WHERE file_name = $1 AND group_number = $2 AND NOT completed AND comment IS NULL
		ORDER BY created_at, invoice_number`
	rows, err := r.db.QueryContext(ctx, query, fileName, group)
	if err != nil {
		return nil, fmt.Errorf("error listing pending rejections: %w", err)
	}
	defer rows.Close()

	recs := make([]*rejection.Rejection, 0)
	for rows.Next() {
		rec := rejection.Rejection{}
		if err := rows.Scan(
			&rec.InvoiceNumber, &rec.FileName, &rec.Carrier, &rec.Paycode,
			&rec.RejCodes[0], &rec.RejCodes[1], &rec.RejCodes[2], &rec.RejCodes[3],
			&rec.Remarks[0], &rec.Remarks[1], &rec.Remarks[2], &rec.Remarks[3],
			&rec.LineItemPost, &rec.Group, &rec.Completed, &rec.Comment, &rec.BatchNumber,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning rejection row: %w", err)
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rejection rows: %w", err)
	}
	return recs, nil
}

func (r *PostgresRejectionRepository) CountUnposted(ctx context.Context, fileName string, group int) (int, error) {
	query := `SELECT COUNT(*) FROM rejections
		WHERE file_name = $1 AND group_number = $2 AND NOT completed AND comment IS NULL`
	var n int
	if err := r.db.QueryRowContext(ctx, query, fileName, group).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting unposted rejections: %w", err)
	}
	return n, nil
}
