package source

import (
	"context"
	"time"
)

// CustomerRecord is a customer row as returned by the source database.
type CustomerRecord struct {
	CustomerID    int64
	CompanyName   string
	Industry      string
	ContactPerson string
	Phone         string
	Address       string
	City          string
	State         string
	Country       string
	PostalCode    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CountRow is the per-customer FN/FP aggregation for one time window.
type CountRow struct {
	CustomerID int64
	FNCount    int
	FPCount    int
	TotalCount int
}

// Connector reads customer records and FN/FP report counts from the
// external source system. Implementations are stateless; every call opens
// its own connection. A nil error with an empty slice means the source
// confirmed there is no data, while an error means the query failed and
// the caller must not treat the window as empty.
type Connector interface {
	TestConnection(ctx context.Context) error
	FetchCustomers(ctx context.Context) ([]CustomerRecord, error)
	FetchCounts(ctx context.Context, windowStart, windowEnd time.Time, customerID *int64) ([]CountRow, error)
	FetchEarliestReportTime(ctx context.Context) (*time.Time, error)
	FetchLatestReportTime(ctx context.Context) (*time.Time, error)
}
