package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/prologin/gcc-api/docs"
	v1 "github.com/prologin/gcc-api/internal/api/handler/v1"
	"github.com/prologin/gcc-api/internal/api/middleware"
	"github.com/prologin/gcc-api/internal/config"
	"github.com/prologin/gcc-api/internal/pkg/mailer"
	"github.com/prologin/gcc-api/internal/repository"
	"github.com/prologin/gcc-api/internal/repository/dao"
	"github.com/prologin/gcc-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	smtpMailer := mailer.New(conf.SMTP)

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	applicationHandler := s.initApplicationHandler(db, smtpMailer)
	reviewHandler := s.initReviewHandler(db, smtpMailer)
	newsletterHandler := s.initNewsletterHandler(db, smtpMailer)
	s.MountHandlers(authHandler, userHandler, applicationHandler, reviewHandler, newsletterHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initApplicationHandler(db *gorm.DB, m *mailer.Mailer) *v1.ApplicationHandler {
	repo := repository.NewApplicantRepository(dao.NewApplicantDAO(db))
	editionRepo := repository.NewEditionRepository(dao.NewEditionDAO(db))
	formRepo := repository.NewFormRepository(dao.NewFormDAO(db))
	svc := service.NewApplicationService(repo, editionRepo, formRepo, m)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewApplicationHandler(svc, uSvc)

	return handler
}

func (s *Server) initReviewHandler(db *gorm.DB, m *mailer.Mailer) *v1.ReviewHandler {
	repo := repository.NewApplicantRepository(dao.NewApplicantDAO(db))
	editionRepo := repository.NewEditionRepository(dao.NewEditionDAO(db))
	svc := service.NewReviewService(repo, editionRepo, m)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewReviewHandler(svc, uSvc)

	return handler
}

func (s *Server) initNewsletterHandler(db *gorm.DB, m *mailer.Mailer) *v1.NewsletterHandler {
	repo := repository.NewNewsletterRepository(dao.NewNewsletterDAO(db))
	svc := service.NewNewsletterService(s.Config.Newsletter, repo, m)
	handler := v1.NewNewsletterHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	applicationHandler *v1.ApplicationHandler,
	reviewHandler *v1.ReviewHandler,
	newsletterHandler *v1.NewsletterHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		public.GET("/editions/:year/events", applicationHandler.HandleListOpenEvents)

		public.POST("/newsletter/subscriptions", newsletterHandler.HandleSubscribe)
		public.GET("/newsletter/subscriptions/verify/:email/:token", newsletterHandler.HandleConfirmSubscription)
		public.GET("/newsletter/subscriptions/unsubscribe/:email/:token", newsletterHandler.HandleUnsubscribe)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/me", userHandler.HandleGetMe)
		authenticated.PUT("/users/me/profile", userHandler.HandleUpdateProfile)

		authenticated.GET("/editions/:year/application", applicationHandler.HandleGetApplication)
		authenticated.PUT("/editions/:year/application/wishes", applicationHandler.HandleSubmitWishes)
		authenticated.POST("/editions/:year/application/validate", applicationHandler.HandleValidate)
		authenticated.GET("/editions/:year/application/answers", applicationHandler.HandleListAnswers)
		authenticated.PUT("/editions/:year/application/answers", applicationHandler.HandleSaveAnswers)
		authenticated.POST("/wishes/:wishID/confirm", applicationHandler.HandleConfirmVenue)

		authenticated.GET("/review/events", reviewHandler.HandleListEvents)
		authenticated.GET("/review/events/:eventID/applicants", reviewHandler.HandleListApplicants)
		authenticated.POST("/review/events/:eventID/accept-all", reviewHandler.HandleAcceptAll)
		authenticated.POST("/review/events/:eventID/accept-all/send", reviewHandler.HandleSendAcceptanceEmails)
		authenticated.GET("/review/events/:eventID/export", reviewHandler.HandleExportCSV)
		authenticated.GET("/review/labels", reviewHandler.HandleListLabels)
		authenticated.POST("/review/applicants/:applicantID/labels/:labelID", reviewHandler.HandleAddLabel)
		authenticated.DELETE("/review/applicants/:applicantID/labels/:labelID", reviewHandler.HandleRemoveLabel)
		authenticated.PUT("/review/wishes/:wishID/status", reviewHandler.HandleUpdateWishStatus)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Girls Can Code! API"
	docs.SwaggerInfo.Description = "Registration and application review API for the Girls Can Code! summer camps."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
