package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one row of the SQL backend: a JSON blob under
// (collection, key).
type Document struct {
	Collection string `gorm:"primaryKey;size:64"`
	Key        string `gorm:"primaryKey;size:255"`
	Data       []byte `gorm:"type:jsonb;not null"`
}

// TableName specifies the table name for GORM.
func (Document) TableName() string {
	return "documents"
}

// SQLStore is a Postgres-backed document store. Each document is stored as
// a jsonb blob so the field-equality Query stays possible.
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens a Postgres connection and migrates the documents table.
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func sqlRead(db *gorm.DB, collection, key string, out interface{}) error {
	var doc Document
	err := db.Where("collection = ? AND key = ?", collection, key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoDocument
		}
		return err
	}
	return json.Unmarshal(doc.Data, out)
}

func sqlWrite(db *gorm.DB, collection, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	doc := Document{Collection: collection, Key: key, Data: raw}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&doc).Error
}

func (s *SQLStore) Read(ctx context.Context, collection, key string, out interface{}) error {
	return sqlRead(s.db.WithContext(ctx), collection, key, out)
}

func (s *SQLStore) Write(ctx context.Context, collection, key string, value interface{}) error {
	return sqlWrite(s.db.WithContext(ctx), collection, key, value)
}

func (s *SQLStore) Delete(ctx context.Context, collection, key string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&Document{}).Error
}

func (s *SQLStore) Query(ctx context.Context, collection, field, value string) ([]Doc, error) {
	var rows []Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND data ->> ? = ?", collection, field, value).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([]Doc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Doc{Key: row.Key, Data: json.RawMessage(row.Data)})
	}
	return docs, nil
}

func (s *SQLStore) List(ctx context.Context, collection string) ([]Doc, error) {
	var rows []Document
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([]Doc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Doc{Key: row.Key, Data: json.RawMessage(row.Data)})
	}
	return docs, nil
}

type sqlTx struct {
	db *gorm.DB
}

func (t *sqlTx) Read(collection, key string, out interface{}) error {
	// FOR UPDATE so concurrent read-modify-write on the same key serializes.
	var doc Document
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("collection = ? AND key = ?", collection, key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoDocument
		}
		return err
	}
	return json.Unmarshal(doc.Data, out)
}

func (t *sqlTx) Write(collection, key string, value interface{}) error {
	return sqlWrite(t.db, collection, key, value)
}

func (t *sqlTx) Delete(collection, key string) error {
	return t.db.Where("collection = ? AND key = ?", collection, key).Delete(&Document{}).Error
}

func (s *SQLStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&sqlTx{db: db})
	})
}
