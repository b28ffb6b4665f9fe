package repository

import (
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/entity"
)

const locationJoin = "JOIN projects ON projects.id = locations.project_id"

type DefaultProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *DefaultProjectRepository {
	return &DefaultProjectRepository{db: db}
}

func (r *DefaultProjectRepository) FindAll(tenantID int64, onlyActive bool) ([]*entity.Project, error) {
	q := r.db.Where("tenant_id = ?", tenantID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var projects []*entity.Project
	if err := q.Order("name").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *DefaultProjectRepository) FindByID(tenantID, id int64) (*entity.Project, error) {
	return findOne[entity.Project](r.db.Where("tenant_id = ? AND id = ?", tenantID, id))
}

func (r *DefaultProjectRepository) Create(project *entity.Project) error {
	return r.db.Create(project).Error
}

func (r *DefaultProjectRepository) Save(tenantID int64, project *entity.Project) error {
	return updateScoped(r.db.Where("tenant_id = ?", tenantID), project)
}

// Locations have no tenant column: every query below joins the owning project.

func (r *DefaultProjectRepository) FindLocations(tenantID, projectID int64) ([]*entity.Location, error) {
	var locations []*entity.Location
	err := r.db.
		Joins(locationJoin).
		Where("projects.tenant_id = ? AND locations.project_id = ?", tenantID, projectID).
		Order("locations.name").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *DefaultProjectRepository) FindLocationByID(tenantID, id int64) (*entity.Location, error) {
	return findOne[entity.Location](r.db.
		Joins(locationJoin).
		Where("projects.tenant_id = ? AND locations.id = ?", tenantID, id))
}

func (r *DefaultProjectRepository) CreateLocation(location *entity.Location) error {
	return r.db.Create(location).Error
}

func (r *DefaultProjectRepository) SaveLocation(tenantID int64, location *entity.Location) error {
	scope := r.db.Where("project_id IN (?)", tenantProjects(r.db, tenantID))
	return updateScoped(scope, location)
}

func (r *DefaultProjectRepository) DeleteLocation(tenantID int64, location *entity.Location) error {
	res := r.db.
		Where("id = ? AND project_id IN (?)", location.ID, tenantProjects(r.db, tenantID)).
		Delete(&entity.Location{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountLocationUsage counts inspections and planning items pointing at the location.
func (r *DefaultProjectRepository) CountLocationUsage(tenantID, locationID int64) (int64, error) {
	var inspections, planned int64
	err := r.db.Model(&entity.Inspection{}).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Count(&inspections).Error
	if err != nil {
		return 0, err
	}

	err = r.db.Model(&entity.PlanningItem{}).
		Where("tenant_id = ? AND location_id = ?", tenantID, locationID).
		Count(&planned).Error
	if err != nil {
		return 0, err
	}
	return inspections + planned, nil
}
