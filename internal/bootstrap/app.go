package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "talent-backend/internal/auth"
	"talent-backend/internal/llm"
	"talent-backend/internal/llm/gemini"
	"talent-backend/internal/members"
	"talent-backend/internal/parser"
	"talent-backend/internal/resumes"
	"talent-backend/internal/shared/config"
	"talent-backend/internal/shared/server"
	"talent-backend/internal/shared/storage/db"
	"talent-backend/internal/shared/storage/object"
	localstore "talent-backend/internal/shared/storage/object/local"
	s3store "talent-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	LLM    llm.Client

	MembersRepo    members.Repo
	MembersService *members.Service
	MembersHandler *members.Handler
	ResumesService *resumes.Service
	ResumeHandler  *resumes.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    buildLLM(cfg),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		ResumeHandler: app.ResumeHandler,
		MemberHandler: app.MembersHandler,
		GoogleAuth:    app.GoogleAuth,
		Store:         app.Store,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL, ""), nil
	}
}

func buildLLM(cfg config.Config) llm.Client {
	if cfg.LLMProvider == "gemini" && cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel)
		if err == nil {
			return client
		}
		log.Printf("bootstrap: gemini client init failed: %v", err)
	}
	log.Printf("bootstrap: llm not configured; resume uploads will fail until GEMINI_API_KEY is set")
	return llm.PlaceholderClient{}
}

func buildServices(app *App) {
	var repo members.Repo
	if app.DB != nil {
		repo = &members.PGRepo{DB: app.DB}
	} else {
		repo = members.NewMemoryRepo()
	}

	membersSvc := members.NewService(repo)
	resumesSvc := &resumes.Service{
		Store:       app.Store,
		Parser:      parser.New(app.LLM),
		MaxVersions: app.Config.ResumeMaxVersions,
	}

	membersHandler := members.NewHandler(membersSvc)
	membersHandler.VersionCount = func(ctx context.Context, userID string) (int, error) {
		versions, err := resumesSvc.ListVersions(ctx, userID)
		if err != nil {
			return 0, err
		}
		return len(versions), nil
	}

	app.MembersRepo = repo
	app.MembersService = membersSvc
	app.MembersHandler = membersHandler
	app.ResumesService = resumesSvc
	app.ResumeHandler = resumes.NewHandler(resumesSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
