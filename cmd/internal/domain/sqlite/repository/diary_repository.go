package repository

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

type DiaryFilter struct {
	ProjectID int64
	From      *datatypes.Date
	To        *datatypes.Date
}

type DefaultDiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DefaultDiaryRepository {
	return &DefaultDiaryRepository{db: db}
}

func preloadEntries(q *gorm.DB) *gorm.DB {
	return q.Preload("Labor").
		Preload("Equipment").
		Preload("Activities").
		Preload("Observations")
}

func (r *DefaultDiaryRepository) FindAll(tenantID int64, f DiaryFilter) ([]*entity.SiteDiary, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if f.ProjectID != 0 {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.From != nil {
		q = q.Where("entry_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("entry_date <= ?", *f.To)
	}

	var diaries []*entity.SiteDiary
	err := preloadEntries(q).
		Order("entry_date DESC").
		Find(&diaries).Error
	if err != nil {
		return nil, err
	}
	return diaries, nil
}

func (r *DefaultDiaryRepository) FindByID(tenantID, id int64) (*entity.SiteDiary, error) {
	return findOne[entity.SiteDiary](preloadEntries(r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id))
}

func (r *DefaultDiaryRepository) ExistsByProjectDate(tenantID, projectID int64, date datatypes.Date) (bool, error) {
	var count int64
	err := r.db.Model(&entity.SiteDiary{}).
		Where("tenant_id = ? AND project_id = ? AND entry_date = ?", tenantID, projectID, date).
		Count(&count).Error
	return count > 0, err
}

// Create inserts the diary and every sub-entry in one transaction.
func (r *DefaultDiaryRepository) Create(diary *entity.SiteDiary) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		labor, equipment, activities, observations := diary.Labor, diary.Equipment, diary.Activities, diary.Observations
		diary.Labor, diary.Equipment, diary.Activities, diary.Observations = nil, nil, nil, nil
		if err := tx.Create(diary).Error; err != nil {
			return err
		}

		diary.Labor, diary.Equipment, diary.Activities, diary.Observations = labor, equipment, activities, observations
		return createEntries(tx, diary)
	})
}

// ReplaceEntries saves the diary header and replaces all of its sub-entries.
func (r *DefaultDiaryRepository) ReplaceEntries(tenantID int64, diary *entity.SiteDiary) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := updateScoped(tx.Where("tenant_id = ?", tenantID), diary); err != nil {
			return err
		}

		if err := deleteEntries(tx, diary.ID); err != nil {
			return err
		}
		return createEntries(tx, diary)
	})
}

func (r *DefaultDiaryRepository) Delete(tenantID int64, diary *entity.SiteDiary) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.SiteDiary{}).
			Where("tenant_id = ? AND id = ?", tenantID, diary.ID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		if err = deleteEntries(tx, diary.ID); err != nil {
			return err
		}
		return tx.Where("tenant_id = ? AND id = ?", tenantID, diary.ID).Delete(&entity.SiteDiary{}).Error
	})
}

func createEntries(tx *gorm.DB, d *entity.SiteDiary) error {
	for _, l := range d.Labor {
		l.DiaryID = d.ID
	}
	for _, e := range d.Equipment {
		e.DiaryID = d.ID
	}
	for _, a := range d.Activities {
		a.DiaryID = d.ID
	}
	for _, o := range d.Observations {
		o.DiaryID = d.ID
	}

	if len(d.Labor) > 0 {
		if err := tx.Create(&d.Labor).Error; err != nil {
			return err
		}
	}
	if len(d.Equipment) > 0 {
		if err := tx.Create(&d.Equipment).Error; err != nil {
			return err
		}
	}
	if len(d.Activities) > 0 {
		if err := tx.Create(&d.Activities).Error; err != nil {
			return err
		}
	}
	if len(d.Observations) > 0 {
		if err := tx.Create(&d.Observations).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteEntries(tx *gorm.DB, diaryID int64) error {
	for _, model := range []any{&entity.DiaryLabor{}, &entity.DiaryEquipment{}, &entity.DiaryActivity{}, &entity.DiaryObservation{}} {
		if err := tx.Where("diary_id = ?", diaryID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
