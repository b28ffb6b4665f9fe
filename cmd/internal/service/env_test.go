package service

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/testutil"
	"qualiobra/cmd/internal/utils/apierror"
	"qualiobra/cmd/internal/utils/validators"
)

// testEnv wires the real repositories over a fresh database.
type testEnv struct {
	db       *gorm.DB
	validate *validator.Validate
	s3       *testutil.FakeS3

	tenants     *repository.DefaultTenantRepository
	users       *repository.DefaultUserRepository
	operators   *repository.DefaultSystemUserRepository
	projects    *repository.DefaultProjectRepository
	services    *repository.DefaultServiceRepository
	contractors *repository.DefaultContractorRepository
	contracts   *repository.DefaultContractRepository
	inspections *repository.DefaultInspectionRepository
	issues      *repository.DefaultIssueRepository
	bulletins   *repository.DefaultBulletinRepository
	diaries     *repository.DefaultDiaryRepository
	planning    *repository.DefaultPlanningRepository
	companies   *repository.DefaultCompanyRepository
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	return &testEnv{
		db:          db,
		validate:    validators.New(),
		s3:          testutil.NewFakeS3(),
		tenants:     repository.NewTenantRepository(db),
		users:       repository.NewUserRepository(db),
		operators:   repository.NewSystemUserRepository(db),
		projects:    repository.NewProjectRepository(db),
		services:    repository.NewServiceRepository(db),
		contractors: repository.NewContractorRepository(db),
		contracts:   repository.NewContractRepository(db),
		inspections: repository.NewInspectionRepository(db),
		issues:      repository.NewIssueRepository(db),
		bulletins:   repository.NewBulletinRepository(db),
		diaries:     repository.NewDiaryRepository(db),
		planning:    repository.NewPlanningRepository(db),
		companies:   repository.NewCompanyRepository(db),
	}
}

func (e *testEnv) inspectionService() *InspectionService {
	return NewInspectionService(e.inspections, e.projects, e.services, e.users, nil, e.s3, e.validate)
}

func (e *testEnv) issueService() *IssueService {
	return NewIssueService(e.issues, e.contractors, nil, nil, e.validate)
}

func (e *testEnv) contractService() *ContractService {
	return NewContractService(e.contracts, e.contractors, e.projects, e.validate)
}

func (e *testEnv) measurementService() *MeasurementService {
	return NewMeasurementService(e.bulletins, e.contracts, e.validate)
}

// requireStatus fails unless apierr carries the given HTTP status.
func requireStatus(t *testing.T, status int, apierr apierror.ErrorResponse) {
	t.Helper()
	require.NotNil(t, apierr, "expected an error with status %d", status)
	assert.Equal(t, status, apierr.Code())
}

func requireOK(t *testing.T, apierr apierror.ErrorResponse) {
	t.Helper()
	if apierr != nil {
		require.Failf(t, "unexpected error response", "%d: %+v", apierr.Code(), apierr)
	}
}
