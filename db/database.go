package db

import "gorm.io/gorm"

type Database interface {
	GetDB() *gorm.DB
	// Transaction runs fn inside a single database transaction; any error
	// returned by fn rolls back every write made through tx.
	Transaction(fn func(tx *gorm.DB) error) error
	Close() error
}

type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }

func (g *GormDatabase) Transaction(fn func(tx *gorm.DB) error) error {
	return g.DB.Transaction(fn)
}

func (g *GormDatabase) Close() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
