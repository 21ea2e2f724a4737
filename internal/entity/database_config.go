package entity

import (
	"fmt"
	"time"
)

// Connection test statuses for DatabaseConfig.
const (
	TestStatusSuccess   = "success"
	TestStatusFailed    = "failed"
	TestStatusPending   = "pending"
	TestStatusNotTested = "not_tested"
)

// DatabaseConfig is an admin-managed connection profile for the external
// source database. The sync stage resolves the active default profile at
// the start of each run. At most one row carries IsDefault, enforced by
// the repository's SetDefault operation.
type DatabaseConfig struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name" gorm:"uniqueIndex;not null"`
	Host              string     `json:"host" gorm:"not null"`
	Port              int        `json:"port" gorm:"not null;default:5432"`
	DatabaseName      string     `json:"database_name" gorm:"not null"`
	Username          string     `json:"username" gorm:"not null"`
	Password          string     `json:"-" gorm:"not null"`
	ConnectionTimeout int        `json:"connection_timeout" gorm:"not null;default:30"`
	MaxConnections    int        `json:"max_connections" gorm:"not null;default:10"`
	IsActive          bool       `json:"is_active" gorm:"index;default:true"`
	IsDefault         bool       `json:"is_default" gorm:"index;default:false"`
	LastTested        *time.Time `json:"last_tested,omitempty"`
	TestStatus        string     `json:"test_status" gorm:"default:not_tested"`
	TestErrorMessage  string     `json:"test_error_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (DatabaseConfig) TableName() string {
	return "database_configs"
}

// DSN returns the lib/pq connection string for this profile.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable connect_timeout=%d",
		c.Host, c.Port, c.DatabaseName, c.Username, c.Password, c.ConnectionTimeout)
}
