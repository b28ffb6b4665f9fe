package service

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/datatypes"

	"qualiobra/cmd/internal/contract"
	"qualiobra/cmd/internal/domain/entity"
	"qualiobra/cmd/internal/domain/policy"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/apierror"
)

type DiaryRepository interface {
	FindAll(tenantID int64, f repository.DiaryFilter) ([]*entity.SiteDiary, error)
	FindByID(tenantID, id int64) (*entity.SiteDiary, error)
	ExistsByProjectDate(tenantID, projectID int64, date datatypes.Date) (bool, error)
	Create(diary *entity.SiteDiary) error
	ReplaceEntries(tenantID int64, diary *entity.SiteDiary) error
	Delete(tenantID int64, diary *entity.SiteDiary) error
}

// DiaryService keeps the site diary (RDO), one per project per day.
type DiaryService struct {
	DiaryRepo      DiaryRepository
	ProjectRepo    ProjectRepository
	ContractorRepo ContractorRepository
	Validate       *validator.Validate
}

func NewDiaryService(
	diaryRepo DiaryRepository,
	projectRepo ProjectRepository,
	contractorRepo ContractorRepository,
	validate *validator.Validate,
) *DiaryService {
	return &DiaryService{
		DiaryRepo:      diaryRepo,
		ProjectRepo:    projectRepo,
		ContractorRepo: contractorRepo,
		Validate:       validate,
	}
}

func (d *DiaryService) GetDiaries(auth *entity.AuthContext, filter *contract.DiaryFilter) ([]*contract.DiaryResponse, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	if apierr := checkRequest(d.Validate, filter); apierr != nil {
		return nil, apierr
	}

	f := repository.DiaryFilter{
		ProjectID: filter.ProjectID,
		From:      dateOrNil(filter.From),
		To:        dateOrNil(filter.To),
	}

	if apierr := checkPeriod(f.From, f.To, "to"); apierr != nil {
		return nil, apierr
	}

	diaries, err := d.DiaryRepo.FindAll(auth.TenantID(), f)
	if err != nil {
		log.Errorf("failed to fetch diaries of tenant %d: %v", auth.TenantID(), err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.DiaryResponse, len(diaries))
	for i, diary := range diaries {
		resp[i] = toDiaryResponse(diary)
	}
	return resp, nil
}

func (d *DiaryService) GetDiary(auth *entity.AuthContext, id int64) (*contract.DiaryResponse, apierror.ErrorResponse) {
	diary, apierr := d.fetchDiary(auth, id)
	if apierr != nil {
		return nil, apierr
	}
	return toDiaryResponse(diary), nil
}

func (d *DiaryService) CreateDiary(auth *entity.AuthContext, req *contract.DiaryRequest) (*contract.DiaryResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.DiaryCreate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(d.Validate, req); apierr != nil {
		return nil, apierr
	}

	project, apierr := fetchProject(d.ProjectRepo, auth, req.ProjectID)
	if apierr != nil {
		return nil, apierr
	}

	date, err := utils.ParseDate(req.EntryDate)
	if err != nil {
		return nil, apierror.NewValidationError("entry_date", "Value must be a date in the format YYYY-MM-DD")
	}

	exists, err := d.DiaryRepo.ExistsByProjectDate(auth.TenantID(), project.ID, date)
	if err != nil {
		log.Errorf("failed to check diary of project %d: %v", project.ID, err)
		return nil, apierror.InternalServerError
	}

	if exists {
		return nil, diaryConflict(req.EntryDate)
	}

	diary := &entity.SiteDiary{
		TenantID:         auth.TenantID(),
		ProjectID:        project.ID,
		EntryDate:        date,
		WeatherMorning:   req.WeatherMorning,
		WeatherAfternoon: req.WeatherAfternoon,
		Notes:            req.Notes,
		CreatedByID:      auth.UserID(),
	}

	body := &contract.UpdateDiaryRequest{
		Labor:        req.Labor,
		Equipment:    req.Equipment,
		Activities:   req.Activities,
		Observations: req.Observations,
	}
	if apierr = d.setEntries(auth, diary, body); apierr != nil {
		return nil, apierr
	}

	if err = d.DiaryRepo.Create(diary); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, diaryConflict(req.EntryDate)
		}
		log.Errorf("failed to create diary for project %d: %v", project.ID, err)
		return nil, apierror.InternalServerError
	}
	return toDiaryResponse(diary), nil
}

// UpdateDiary replaces the body of a diary. The project and the date never change.
func (d *DiaryService) UpdateDiary(auth *entity.AuthContext, id int64, req *contract.UpdateDiaryRequest) (*contract.DiaryResponse, apierror.ErrorResponse) {
	if apierr := policy.CheckAuth(policy.DiaryUpdate, auth); apierr != nil {
		return nil, apierr
	}

	if apierr := checkRequest(d.Validate, req); apierr != nil {
		return nil, apierr
	}

	diary, apierr := d.fetchDiary(auth, id)
	if apierr != nil {
		return nil, apierr
	}

	diary.WeatherMorning = req.WeatherMorning
	diary.WeatherAfternoon = req.WeatherAfternoon
	diary.Notes = req.Notes
	if apierr = d.setEntries(auth, diary, req); apierr != nil {
		return nil, apierr
	}

	if err := d.DiaryRepo.ReplaceEntries(auth.TenantID(), diary); err != nil {
		if repository.IsNotFound(err) {
			return nil, apierror.NotFoundError
		}
		log.Errorf("failed to update diary %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toDiaryResponse(diary), nil
}

func (d *DiaryService) DeleteDiary(auth *entity.AuthContext, id int64) apierror.ErrorResponse {
	if apierr := policy.CheckAuth(policy.DiaryDelete, auth); apierr != nil {
		return apierr
	}

	diary, apierr := d.fetchDiary(auth, id)
	if apierr != nil {
		return apierr
	}

	if err := d.DiaryRepo.Delete(auth.TenantID(), diary); err != nil {
		if repository.IsNotFound(err) {
			return apierror.NotFoundError
		}
		log.Errorf("failed to delete diary %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

// setEntries builds the sub-entries of diary. Referenced contractors must
// belong to the tenant and referenced locations to the diary project.
func (d *DiaryService) setEntries(auth *entity.AuthContext, diary *entity.SiteDiary, req *contract.UpdateDiaryRequest) apierror.ErrorResponse {
	diary.Labor = make([]*entity.DiaryLabor, len(req.Labor))
	for i, l := range req.Labor {
		labor := &entity.DiaryLabor{Role: l.Role, Count: l.Count}
		if l.ContractorID != 0 {
			contractor, apierr := fetchContractor(d.ContractorRepo, auth, l.ContractorID)
			if apierr != nil {
				return apierr
			}
			labor.ContractorID = &contractor.ID
		}
		diary.Labor[i] = labor
	}

	diary.Equipment = make([]*entity.DiaryEquipment, len(req.Equipment))
	for i, e := range req.Equipment {
		diary.Equipment[i] = &entity.DiaryEquipment{Name: e.Name, Quantity: e.Quantity}
	}

	diary.Activities = make([]*entity.DiaryActivity, len(req.Activities))
	for i, a := range req.Activities {
		activity := &entity.DiaryActivity{Description: a.Description}
		if a.LocationID != 0 {
			location, apierr := fetchLocation(d.ProjectRepo, auth, a.LocationID)
			if apierr != nil {
				return apierr
			}

			if location.ProjectID != diary.ProjectID {
				return apierror.NewValidationError("activities", "Location does not belong to the project")
			}
			activity.LocationID = &location.ID
		}
		diary.Activities[i] = activity
	}

	diary.Observations = make([]*entity.DiaryObservation, len(req.Observations))
	for i, o := range req.Observations {
		diary.Observations[i] = &entity.DiaryObservation{Text: o.Text}
	}
	return nil
}

func (d *DiaryService) fetchDiary(auth *entity.AuthContext, id int64) (*entity.SiteDiary, apierror.ErrorResponse) {
	if !auth.IsTenant() {
		return nil, apierror.TenantOnlyError
	}

	diary, err := d.DiaryRepo.FindByID(auth.TenantID(), id)
	if err != nil {
		log.Errorf("failed to find diary %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if diary == nil {
		return nil, apierror.NotFoundError
	}
	return diary, nil
}

func diaryConflict(date string) apierror.ErrorResponse {
	return apierror.NewConflictError("A diary already exists for this project on %s", date)
}

func toDiaryResponse(d *entity.SiteDiary) *contract.DiaryResponse {
	labor := make([]*contract.DiaryLaborResponse, len(d.Labor))
	for i, l := range d.Labor {
		labor[i] = &contract.DiaryLaborResponse{Role: l.Role, Count: l.Count, ContractorID: l.ContractorID}
	}

	equipment := make([]*contract.DiaryEquipmentResponse, len(d.Equipment))
	for i, e := range d.Equipment {
		equipment[i] = &contract.DiaryEquipmentResponse{Name: e.Name, Quantity: e.Quantity}
	}

	activities := make([]*contract.DiaryActivityResponse, len(d.Activities))
	for i, a := range d.Activities {
		activities[i] = &contract.DiaryActivityResponse{Description: a.Description, LocationID: a.LocationID}
	}

	observations := make([]*contract.DiaryObservationResponse, len(d.Observations))
	for i, o := range d.Observations {
		observations[i] = &contract.DiaryObservationResponse{Text: o.Text}
	}

	return &contract.DiaryResponse{
		ID:               d.ID,
		ProjectID:        d.ProjectID,
		EntryDate:        utils.FormatDate(d.EntryDate),
		WeatherMorning:   d.WeatherMorning,
		WeatherAfternoon: d.WeatherAfternoon,
		Notes:            d.Notes,
		CreatedByID:      d.CreatedByID,
		Labor:            labor,
		Equipment:        equipment,
		Activities:       activities,
		Observations:     observations,
		CreatedAt:        utils.FormatEpoch(d.CreatedAt),
		UpdatedAt:        utils.FormatEpoch(d.UpdatedAt),
	}
}
