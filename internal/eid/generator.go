package eid

import (
	"context"
	"time"

	"github.com/frahmantamala/training-management/internal/core/datamodel/eidsequence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TxAllocator is what repositories need to allocate ids inside their own
// transaction.
type TxAllocator interface {
	GenerateWithTx(tx *gorm.DB, roleName string, count int) ([]string, error)
}

type Generator struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGenerator(db *gorm.DB) *Generator {
	return &Generator{db: db, now: time.Now}
}

// Generate returns the next id for roleName.
func (g *Generator) Generate(ctx context.Context, roleName string) (string, error) {
	ids, err := g.GenerateBatch(ctx, roleName, 1)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// GenerateBatch reserves count consecutive ids in one transaction.
func (g *Generator) GenerateBatch(ctx context.Context, roleName string, count int) ([]string, error) {
	var ids []string
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = g.GenerateWithTx(tx, roleName, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GenerateWithTx reserves count ids using tx, which must already be a
// transaction. The reservation commits or rolls back with tx.
func (g *Generator) GenerateWithTx(tx *gorm.DB, roleName string, count int) ([]string, error) {
	prefix, err := PrefixFor(roleName)
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, ErrInvalidCount
	}

	now := g.now()
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&eidsequence.Sequence{Prefix: prefix, UpdatedAt: now}).Error; err != nil {
		return nil, err
	}

	// the UPDATE takes the row lock that serializes allocators of this prefix
	if err := tx.Model(&eidsequence.Sequence{}).
		Where("prefix = ?", prefix).
		Update("updated_at", now).Error; err != nil {
		return nil, err
	}

	var seq eidsequence.Sequence
	if err := tx.Where("prefix = ?", prefix).First(&seq).Error; err != nil {
		return nil, err
	}

	last, err := greatestExisting(tx, prefix)
	if err != nil {
		return nil, err
	}
	if seq.LastValue > last {
		last = seq.LastValue
	}

	next := last + 1
	high := last + int64(count)
	if high > MaxNumber {
		return nil, ErrExhausted
	}

	ids := make([]string, 0, count)
	for n := next; n <= high; n++ {
		ids = append(ids, Format(prefix, n))
	}

	if err := tx.Model(&eidsequence.Sequence{}).
		Where("prefix = ?", prefix).
		Update("last_value", high).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

// greatestExisting walks the prefix's ids in descending order, soft-deleted
// users included, and returns the first well-formed number. Malformed ids
// count as absent.
func greatestExisting(tx *gorm.DB, prefix string) (int64, error) {
	rows, err := tx.Table("users").
		Select("eid").
		Where("eid LIKE ?", prefix+"%").
		Order("eid DESC").
		Rows()
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		if n, ok := Parse(prefix, id); ok {
			return n, nil
		}
	}
	return 0, rows.Err()
}
