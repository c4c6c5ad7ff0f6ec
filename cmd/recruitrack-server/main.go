package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/activities"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/candidates"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/companies"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/config"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/database"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/documents"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/invitations"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/jobs"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/organizations"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/pipeline"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/shortlists"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/storage"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
)

// @title RecruiTrack API
// @version 1.0
// @description Multi-tenant recruitment tracking: candidates, jobs, pipelines, shortlists.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	auth.Configure(cfg.JWTSecret, cfg.TokenTTL)

	if err := database.Connect(cfg.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Uploaded documents are served straight from the local store.
	r.Static("/files", cfg.UploadDir)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "recruitrack",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Invitation acceptance needs a valid token but no membership yet
		invitationsHandler := invitations.NewHandler(db, cfg.InvitationTTL)
		invitationsHandler.RegisterAcceptRoute(api.Group("/invitations", auth.AuthMiddleware()))

		// Everything below requires both a valid token and an organization
		// membership; the membership is re-resolved on every request.
		guard := api.Group("", auth.AuthMiddleware(), tenancy.Middleware(db))

		orgHandler := organizations.NewHandler(db)
		orgHandler.RegisterRoutes(guard.Group("/organization"))

		invitationsHandler.RegisterRoutes(guard.Group("/invitations"))

		companiesHandler := companies.NewHandler(db)
		companiesHandler.RegisterRoutes(guard.Group("/companies"))

		jobsHandler := jobs.NewHandler(db)
		jobsHandler.RegisterRoutes(guard.Group("/jobs"))

		candidatesHandler := candidates.NewHandler(db)
		candidatesHandler.RegisterRoutes(guard.Group("/candidates"))

		pipelineHandler := pipeline.NewHandler(db)
		pipelineHandler.RegisterRoutes(guard)

		documentsHandler := documents.NewHandler(db, store)
		documentsHandler.RegisterRoutes(guard.Group("/documents"))

		shortlistsHandler := shortlists.NewHandler(db)
		shortlistsGroup := guard.Group("/shortlists")
		shortlistsHandler.RegisterRoutes(shortlistsGroup)
		shortlistsHandler.RegisterMemberRoutes(shortlistsGroup)

		activitiesHandler := activities.NewHandler(db)
		activitiesHandler.RegisterRoutes(guard.Group("/activities"))
	}

	log.Printf("Starting recruitrack server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
