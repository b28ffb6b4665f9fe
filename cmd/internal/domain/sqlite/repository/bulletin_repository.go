package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

// HistoryRow is one measured quantity of a contract item in a bulletin.
type HistoryRow struct {
	ContractItemID int64
	Number         int
	Quantity       decimal.Decimal
}

type DefaultBulletinRepository struct {
	db *gorm.DB
}

func NewBulletinRepository(db *gorm.DB) *DefaultBulletinRepository {
	return &DefaultBulletinRepository{db: db}
}

func (r *DefaultBulletinRepository) FindAll(tenantID, contractID int64) ([]*entity.MeasurementBulletin, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if contractID != 0 {
		q = q.Where("contract_id = ?", contractID)
	}

	var bulletins []*entity.MeasurementBulletin
	err := q.Preload("Items").
		Preload("Additives").
		Order("contract_id, number").
		Find(&bulletins).Error
	if err != nil {
		return nil, err
	}
	return bulletins, nil
}

func (r *DefaultBulletinRepository) FindByID(tenantID, id int64) (*entity.MeasurementBulletin, error) {
	return findOne[entity.MeasurementBulletin](r.db.
		Preload("Items").
		Preload("Additives").
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

// Create numbers the bulletin as the next one of its contract and inserts it
// with its lines. Concurrent creations for the same contract are caught by
// the (contract_id, number) unique index.
func (r *DefaultBulletinRepository) Create(b *entity.MeasurementBulletin) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var last int
		err := tx.Model(&entity.MeasurementBulletin{}).
			Where("tenant_id = ? AND contract_id = ?", b.TenantID, b.ContractID).
			Select("COALESCE(MAX(number), 0)").
			Scan(&last).Error
		if err != nil {
			return err
		}

		b.Number = last + 1
		items, additives := b.Items, b.Additives
		b.Items, b.Additives = nil, nil
		if err = tx.Create(b).Error; err != nil {
			return err
		}

		b.Items, b.Additives = items, additives
		return createLines(tx, b)
	})
}

// Transition saves the bulletin only if it is still in the from status, so
// two overlapping reviews cannot both win. gorm.ErrRecordNotFound otherwise.
func (r *DefaultBulletinRepository) Transition(tenantID int64, b *entity.MeasurementBulletin, from entity.BulletinStatus) error {
	return updateScoped(r.db.Where("tenant_id = ? AND status = ?", tenantID, from), b)
}

// ReplaceLines saves the bulletin header and swaps its items and additives.
func (r *DefaultBulletinRepository) ReplaceLines(tenantID int64, b *entity.MeasurementBulletin) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := updateScoped(tx.Where("tenant_id = ? AND status = ?", tenantID, entity.BulletinDraft), b); err != nil {
			return err
		}

		if err := deleteLines(tx, b.ID); err != nil {
			return err
		}
		return createLines(tx, b)
	})
}

func (r *DefaultBulletinRepository) Delete(tenantID int64, b *entity.MeasurementBulletin) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.MeasurementBulletin{}).
			Where("tenant_id = ? AND id = ?", tenantID, b.ID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		if err = deleteLines(tx, b.ID); err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", tenantID, b.ID).Delete(&entity.MeasurementBulletin{}).Error
	})
}

// History returns every measured quantity of the contract, rejected
// bulletins excluded.
func (r *DefaultBulletinRepository) History(tenantID, contractID int64) ([]*HistoryRow, error) {
	var rows []*HistoryRow
	err := r.db.Table("measurement_items").
		Select("measurement_items.contract_item_id AS contract_item_id, "+
			"measurement_bulletins.number AS number, "+
			"measurement_items.quantity_this_period AS quantity").
		Joins("JOIN measurement_bulletins ON measurement_bulletins.id = measurement_items.bulletin_id").
		Where("measurement_bulletins.tenant_id = ? AND measurement_bulletins.contract_id = ? AND measurement_bulletins.status <> ?",
			tenantID, contractID, entity.BulletinRejected).
		Order("measurement_bulletins.number").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func createLines(tx *gorm.DB, b *entity.MeasurementBulletin) error {
	if len(b.Items) > 0 {
		for _, it := range b.Items {
			it.BulletinID = b.ID
		}
		if err := tx.Create(&b.Items).Error; err != nil {
			return err
		}
	}

	if len(b.Additives) > 0 {
		for _, a := range b.Additives {
			a.BulletinID = b.ID
		}
		if err := tx.Create(&b.Additives).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteLines(tx *gorm.DB, bulletinID int64) error {
	if err := tx.Where("bulletin_id = ?", bulletinID).Delete(&entity.MeasurementItem{}).Error; err != nil {
		return err
	}
	return tx.Where("bulletin_id = ?", bulletinID).Delete(&entity.MeasurementAdditive{}).Error
}
