package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wareline/backend/internal/domain/trade"
)

// GormSequenceRepository implements SequenceRepository using GORM
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next allocates the next value for the (org, kind, year) sequence. The
// increment happens in a single upsert so concurrent callers cannot
// observe the same value.
func (r *GormSequenceRepository) Next(ctx context.Context, orgID uuid.UUID, kind string, year int) (int64, error) {
	seq := trade.DocumentSequence{OrgID: orgID, Kind: kind, Year: year, Value: 1}
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "org_id"}, {Name: "kind"}, {Name: "year"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"value": gorm.Expr("document_sequences.value + 1"),
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "value"}}},
		).
		Create(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq.Value, nil
}

var _ trade.SequenceRepository = (*GormSequenceRepository)(nil)
