package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/airenas/go-app/pkg/goapp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const poColumns = `id, date, time, description, unit_number, customer, vendor_supplier, raw_transcription, created_at`

// DB provides operations with postgresql
type DB struct {
	pool *pgxpool.Pool
}

// NewDB creates DB instance
func NewDB(pool *pgxpool.Pool) (*DB, error) {
	if pool == nil {
		return nil, fmt.Errorf("no pool")
	}
	return &DB{pool: pool}, nil
}

// CreatePurchaseOrder inserts the order and returns its id
func (db *DB) CreatePurchaseOrder(ctx context.Context, po *persistence.PurchaseOrder) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx, `INSERT INTO purchase_orders(date, time, description, unit_number, customer,
	vendor_supplier, raw_transcription) VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		po.Date, po.Time, po.Description, po.UnitNumber, po.Customer, po.VendorSupplier, po.RawTranscription).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("can't insert purchase order: %w", err)
	}
	return id, nil
}

// CreateCostRecord inserts the cost row and returns its id
func (db *DB) CreateCostRecord(ctx context.Context, cr *persistence.CostRecord) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx, `INSERT INTO cost_tracking(date, elevenlabs_cost, openai_cost, total_cost,
	audio_size_bytes, estimated_duration_minutes, transcription_attempts, translation_used, error_message) 
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		cr.Date, cr.ElevenLabsCost, cr.OpenAICost, cr.TotalCost, cr.AudioSizeBytes,
		cr.EstimatedDurationMinutes, cr.TranscriptionAttempts, cr.TranslationUsed, cr.ErrorMessage).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("can't insert cost record: %w", err)
	}
	return id, nil
}

// ListPurchaseOrders returns all orders, newest first
func (db *DB) ListPurchaseOrders(ctx context.Context) ([]*persistence.PurchaseOrder, error) {
	return db.listOrders(ctx, `SELECT `+poColumns+` FROM purchase_orders ORDER BY created_at DESC, id DESC`)
}

// ListPurchaseOrdersForExport returns all orders ordered by date and time descending
func (db *DB) ListPurchaseOrdersForExport(ctx context.Context) ([]*persistence.PurchaseOrder, error) {
	return db.listOrders(ctx, `SELECT `+poColumns+` FROM purchase_orders ORDER BY date DESC, time DESC, id DESC`)
}

func (db *DB) listOrders(ctx context.Context, sql string) ([]*persistence.PurchaseOrder, error) {
	rows, err := db.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("can't select purchase orders: %w", err)
	}
	defer rows.Close()

	res := []*persistence.PurchaseOrder{}
	for rows.Next() {
		po, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("can't retrieve purchase order: %w", err)
		}
		res = append(res, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read purchase orders: %w", err)
	}
	return res, nil
}

// GetPurchaseOrder loads the order, returns persistence.ErrNotFound if it is missing
func (db *DB) GetPurchaseOrder(ctx context.Context, id int64) (*persistence.PurchaseOrder, error) {
	res, err := scanOrder(db.pool.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("can't load purchase order: %w", err)
	}
	return res, nil
}

// DeletePurchaseOrder deletes the order, returns persistence.ErrNotFound if it is missing
func (db *DB) DeletePurchaseOrder(ctx context.Context, id int64) error {
	cmd, err := db.pool.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("can't delete purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return persistence.ErrNotFound
	}
	goapp.Log.Info().Int64("ID", id).Msg("deleted")
	return nil
}

// CostSummary sums all cost records
func (db *DB) CostSummary(ctx context.Context) (*persistence.CostSummary, error) {
	var res persistence.CostSummary
	err := db.pool.QueryRow(ctx, `SELECT COALESCE(SUM(total_cost), 0), COALESCE(SUM(elevenlabs_cost), 0), 
	COALESCE(SUM(openai_cost), 0), COUNT(*) FROM cost_tracking`).
		Scan(&res.TotalCost, &res.TotalElevenLabsCost, &res.TotalOpenAICost, &res.TotalRequests)
	if err != nil {
		return nil, fmt.Errorf("can't load cost summary: %w", err)
	}
	return &res, nil
}

// DailyCostBreakdown sums cost records by day, newest first
func (db *DB) DailyCostBreakdown(ctx context.Context) ([]*persistence.DailyCost, error) {
	rows, err := db.pool.Query(ctx, `SELECT date, SUM(total_cost), COUNT(*) FROM cost_tracking 
	GROUP BY date ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("can't select daily costs: %w", err)
	}
	defer rows.Close()

	res := []*persistence.DailyCost{}
	for rows.Next() {
		var dc persistence.DailyCost
		if err := rows.Scan(&dc.Date, &dc.DailyCost, &dc.DailyRequests); err != nil {
			return nil, fmt.Errorf("can't retrieve daily cost: %w", err)
		}
		res = append(res, &dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read daily costs: %w", err)
	}
	return res, nil
}

// Live returns no error if db is reachable and initialized
func (db *DB) Live(ctx context.Context) error {
	var exists bool
	if err := db.pool.QueryRow(ctx, `SELECT EXISTS (SELECT FROM pg_tables WHERE tablename = 'purchase_orders')`).Scan(&exists); err != nil {
		return fmt.Errorf("can't check table: %w", err)
	}
	if !exists {
		return fmt.Errorf("no migration done")
	}
	return nil
}

func scanOrder(row pgx.Row) (*persistence.PurchaseOrder, error) {
	var res persistence.PurchaseOrder
	if err := row.Scan(&res.ID, &res.Date, &res.Time, &res.Description, &res.UnitNumber, &res.Customer,
		&res.VendorSupplier, &res.RawTranscription, &res.CreatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}
