package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Tarif pajak default kalau TAX_RATE tidak di-set.
const DefaultTaxRate = 0.10

// TaxRate membaca tarif pajak dari environment.
func TaxRate() float64 {
	raw := os.Getenv("TAX_RATE")
	if raw == "" {
		return DefaultTaxRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 {
		return DefaultTaxRate
	}
	return rate
}

// InitDB membuka koneksi database dari environment.
// DB_DRIVER=sqlite memakai file lokal (untuk dev), selain itu MySQL.
func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "restaurant_ops.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		getEnv("DB_USER", "root"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_HOST", "127.0.0.1"),
		getEnv("DB_PORT", "3306"),
		getEnv("DB_NAME", "restaurant_ops"),
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
