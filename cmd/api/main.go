package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"qualiobra/cmd/internal/config"
	"qualiobra/cmd/internal/domain/sqlite"
	"qualiobra/cmd/internal/domain/sqlite/repository"
	"qualiobra/cmd/internal/http/handler"
	appmiddleware "qualiobra/cmd/internal/http/middleware"
	cognitoclient "qualiobra/cmd/internal/infrastructure/aws/cognito"
	"qualiobra/cmd/internal/infrastructure/aws/mail"
	"qualiobra/cmd/internal/infrastructure/aws/storage"
	"qualiobra/cmd/internal/infrastructure/aws/websocket"
	"qualiobra/cmd/internal/infrastructure/minhareceita"
	"qualiobra/cmd/internal/metrics"
	"qualiobra/cmd/internal/service"
	"qualiobra/cmd/internal/service/jobs"
	"qualiobra/cmd/internal/utils"
	"qualiobra/cmd/internal/utils/uid"
	"qualiobra/cmd/internal/utils/validators"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.SetLevel(parseLevel(cfg.LogLevel))

	uid.Init(cfg.NodeID)
	validate := validators.New()

	db, err := sqlite.Init(cfg.DB)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if err = utils.InitJWKS(cfg.AWS.CognitoRegion, cfg.AWS.CognitoPoolID); err != nil {
		log.Fatalf("failed to load JWKS: %v", err)
	}

	// External collaborators
	cogClient, err := cognitoclient.NewCognitoClient(ctx, cfg.AWS.CognitoRegion, cfg.AWS.CognitoPoolID, cfg.AWS.CognitoClientID)
	if err != nil {
		log.Fatalf("failed to init cognito client: %v", err)
	}

	s3Client, err := storage.NewStorageClient(ctx, cfg.AWS.S3Region, cfg.AWS.S3Bucket, cfg.AWS.S3PublicURL)
	if err != nil {
		log.Fatalf("failed to init S3 client: %v", err)
	}

	gateway := newGateway(ctx, cfg)
	mailer := newMailer(ctx, cfg)
	receita := minhareceita.NewClient(cfg.ReceitaURL)

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	systemRepo := repository.NewSystemUserRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	contractorRepo := repository.NewContractorRepository(db)
	contractRepo := repository.NewContractRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	bulletinRepo := repository.NewBulletinRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	planningRepo := repository.NewPlanningRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	// Services
	wsService := service.NewWebSocketService(connRepo, gateway)
	dispatcher := service.NewNotificationDispatcher(notificationRepo, userRepo, inspectionRepo, wsService, mailer, cfg.AppURL)
	resolver := service.NewAuthResolver(systemRepo, userRepo, tenantRepo, cogClient)

	routes := &apiRoutes{
		auth:          handler.NewAuthDefault(service.NewAuthService(tenantRepo, userRepo, cogClient, s3Client, validate)),
		tenants:       handler.NewTenantDefault(service.NewTenantService(tenantRepo, wsService, s3Client, validate)),
		users:         handler.NewUserDefault(service.NewUserService(userRepo, wsService, cogClient, validate)),
		projects:      handler.NewProjectDefault(service.NewProjectService(projectRepo, validate)),
		catalog:       handler.NewCatalogDefault(service.NewCatalogService(serviceRepo, validate)),
		contractors:   handler.NewContractorDefault(service.NewContractorService(contractorRepo, validate)),
		contracts:     handler.NewContractDefault(service.NewContractService(contractRepo, contractorRepo, projectRepo, validate)),
		inspections:   handler.NewInspectionDefault(service.NewInspectionService(inspectionRepo, projectRepo, serviceRepo, userRepo, dispatcher, s3Client, validate)),
		issues:        handler.NewIssueDefault(service.NewIssueService(issueRepo, contractorRepo, wsService, dispatcher, validate)),
		measurements:  handler.NewMeasurementDefault(service.NewMeasurementService(bulletinRepo, contractRepo, validate)),
		diaries:       handler.NewDiaryDefault(service.NewDiaryService(diaryRepo, projectRepo, contractorRepo, validate)),
		planning:      handler.NewPlanningDefault(service.NewPlanningService(planningRepo, projectRepo, serviceRepo, inspectionRepo, validate)),
		notifications: handler.NewNotificationDefault(service.NewNotificationService(notificationRepo)),
		lookup:        handler.NewLookupRoute(service.NewLookupService(receita, companyRepo)),
		websocket:     handler.NewWSDefault(wsService),
	}

	// Background jobs
	go jobs.NewConnectionCleaner(wsService).Start(ctx)
	go jobs.NewCompanyCacheCleaner(companyRepo).Start(ctx)
	go jobs.NewNotificationCleaner(notificationRepo).Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(appmiddleware.RequestID())
	e.Use(appmiddleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.Server.AllowedOrigins}))
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	authMiddleware := appmiddleware.NewAuthMiddleware(&appmiddleware.AuthMiddlewareConfig{Resolver: resolver})
	registerRoutes(e, cfg, authMiddleware, routes)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down cleanly: %v", err)
	}
}

// newGateway falls back to a no-op client when no websocket API is configured.
func newGateway(ctx context.Context, cfg *config.Config) websocket.GatewayClient {
	if cfg.AWS.WebSocketURL == "" {
		log.Warn("AWS_WEBSOCKET_URL not set, realtime events are disabled")
		return websocket.NoopGateway{}
	}

	gateway, err := websocket.NewAWSGatewayClient(ctx, cfg.AWS.WebSocketURL, cfg.AWS.Region)
	if err != nil {
		log.Fatalf("failed to init websocket gateway: %v", err)
	}
	return gateway
}

func newMailer(ctx context.Context, cfg *config.Config) mail.Mailer {
	if cfg.AWS.MailFrom == "" {
		log.Warn("MAIL_FROM not set, e-mails will only be logged")
		return mail.LogMailer{}
	}

	mailer, err := mail.NewSESMailer(ctx, cfg.AWS.Region, cfg.AWS.MailFrom)
	if err != nil {
		log.Fatalf("failed to init SES mailer: %v", err)
	}
	return mailer
}

func parseLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
