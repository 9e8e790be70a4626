package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SolveUsage represents the solve_usage table: one row per calendar date,
// counting solve requests by outcome.
type SolveUsage struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Date         string    `gorm:"unique;not null" json:"date"`
	Requests     int       `gorm:"default:0" json:"requests"`
	Solved       int       `gorm:"default:0" json:"solved"`
	Infeasible   int       `gorm:"default:0" json:"infeasible"`
	Aborted      int       `gorm:"default:0" json:"aborted"`
	Rejected     int       `gorm:"default:0" json:"rejected"`
	TotalNodes   int64     `gorm:"default:0" json:"total_nodes"`
	LastSolvedAt time.Time `json:"last_solved_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "rota.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&SolveUsage{})

	return db
}
