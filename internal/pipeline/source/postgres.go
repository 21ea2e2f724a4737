package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	_ "github.com/lib/pq"
)

// backfillQueryRate caps source queries so a long historical backfill does
// not monopolize the source database.
var backfillQueryRate = rate.Limit(20)

type postgresConnector struct {
	dsn     string
	limiter *rate.Limiter
}

// NewPostgresConnector creates a Connector against the source PostgreSQL
// database. No pooling: each call opens a connection, runs one query and
// closes it, matching the source system's access policy.
func NewPostgresConnector(dsn string) Connector {
	return &postgresConnector{
		dsn:     dsn,
		limiter: rate.NewLimiter(backfillQueryRate, 5),
	}
}

func (c *postgresConnector) open(ctx context.Context) (*sql.DB, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", c.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open source connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach source database: %w", err)
	}
	return db, nil
}

// TestConnection verifies connectivity and that the expected tables exist.
func (c *postgresConnector) TestConnection(ctx context.Context) error {
	db, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name IN ('customers', 'email_samples')`)
	if err != nil {
		return fmt.Errorf("source table check failed: %w", err)
	}
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, table := range []string{"customers", "email_samples"} {
		if !found[table] {
			return fmt.Errorf("%s table not found in source database", table)
		}
	}
	return nil
}

// FetchCustomers returns all customers from the source, ordered by id.
func (c *postgresConnector) FetchCustomers(ctx context.Context) ([]CustomerRecord, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT customer_id, company_name, industry, contact_person,
		       COALESCE(phone, ''), COALESCE(address, ''), COALESCE(city, ''),
		       COALESCE(state, ''), COALESCE(country, ''), COALESCE(postal_code, ''),
		       created_at, updated_at
		FROM customers
		ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source customers: %w", err)
	}
	defer rows.Close()

	var customers []CustomerRecord
	for rows.Next() {
		var rec CustomerRecord
		if err := rows.Scan(
			&rec.CustomerID, &rec.CompanyName, &rec.Industry, &rec.ContactPerson,
			&rec.Phone, &rec.Address, &rec.City, &rec.State, &rec.Country,
			&rec.PostalCode, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, rec)
	}
	return customers, rows.Err()
}

// FetchCounts returns per-customer FN/FP counts for the half-open window
// [windowStart, windowEnd), optionally filtered to one customer.
func (c *postgresConnector) FetchCounts(ctx context.Context, windowStart, windowEnd time.Time, customerID *int64) ([]CountRow, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
		SELECT customer_id,
		       COUNT(CASE WHEN sample_type = 'FN' THEN 1 END) AS fn_count,
		       COUNT(CASE WHEN sample_type = 'FP' THEN 1 END) AS fp_count,
		       COUNT(*) AS total_count
		FROM email_samples
		WHERE reported_at >= $1 AND reported_at < $2`
	args := []interface{}{windowStart, windowEnd}
	if customerID != nil {
		query += " AND customer_id = $3"
		args = append(args, *customerID)
	}
	query += " GROUP BY customer_id ORDER BY customer_id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch FN/FP counts: %w", err)
	}
	defer rows.Close()

	var counts []CountRow
	for rows.Next() {
		var row CountRow
		if err := rows.Scan(&row.CustomerID, &row.FNCount, &row.FPCount, &row.TotalCount); err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}
	return counts, rows.Err()
}

// FetchEarliestReportTime returns the oldest report timestamp, or nil when
// the source holds no reports at all.
func (c *postgresConnector) FetchEarliestReportTime(ctx context.Context) (*time.Time, error) {
	return c.fetchBoundaryTime(ctx, "SELECT MIN(reported_at) FROM email_samples")
}

// FetchLatestReportTime returns the newest report timestamp, or nil when
// the source holds no reports at all.
func (c *postgresConnector) FetchLatestReportTime(ctx context.Context) (*time.Time, error) {
	return c.fetchBoundaryTime(ctx, "SELECT MAX(reported_at) FROM email_samples")
}

func (c *postgresConnector) fetchBoundaryTime(ctx context.Context, query string) (*time.Time, error) {
	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var t sql.NullTime
	if err := db.QueryRowContext(ctx, query).Scan(&t); err != nil {
		return nil, fmt.Errorf("failed to fetch report time boundary: %w", err)
	}
	if !t.Valid {
		return nil, nil
	}
	return &t.Time, nil
}
