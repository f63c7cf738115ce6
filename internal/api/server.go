package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/duelstack/ytg-api/internal/api/handler/v1"
	"github.com/duelstack/ytg-api/internal/api/middleware"
	"github.com/duelstack/ytg-api/internal/config"
	"github.com/duelstack/ytg-api/internal/repository"
	"github.com/duelstack/ytg-api/internal/repository/dao"
	"github.com/duelstack/ytg-api/internal/service"
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

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	rewardRepo := repository.NewRewardRepository(dao.NewRewardDAO(db))
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))

	userSvc := service.NewUserService(userRepo)
	authHandler := v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo))
	userHandler := v1.NewUserHandler(userSvc)

	ledgerSvc := service.NewLedgerService(ledgerRepo, userRepo)
	pointHandler := v1.NewPointHandler(ledgerSvc, userSvc)
	tournamentHandler := v1.NewTournamentHandler(ledgerSvc)
	rankingHandler := v1.NewRankingHandler(ledgerSvc, userSvc)

	orderHandler := v1.NewOrderHandler(service.NewOrderService(orderRepo), userSvc)
	rewardHandler := v1.NewRewardHandler(service.NewRewardService(rewardRepo), userSvc)
	catalogHandler := v1.NewCatalogHandler(service.NewCatalogService(catalogRepo))

	s.MountHandlers(handlers{
		auth:       authHandler,
		user:       userHandler,
		point:      pointHandler,
		tournament: tournamentHandler,
		ranking:    rankingHandler,
		order:      orderHandler,
		reward:     rewardHandler,
		catalog:    catalogHandler,
		adminCheck: userSvc,
	})

	return s
}

type handlers struct {
	auth       *v1.AuthHandler
	user       *v1.UserHandler
	point      *v1.PointHandler
	tournament *v1.TournamentHandler
	ranking    *v1.RankingHandler
	order      *v1.OrderHandler
	reward     *v1.RewardHandler
	catalog    *v1.CatalogHandler
	adminCheck middleware.AdminChecker
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/register", h.auth.HandleRegister)
		public.POST("/auth/login", h.auth.HandleLogin)
		public.GET("/ranking/monthly", h.ranking.HandleMonthlyRanking)
		public.GET("/cards", h.catalog.HandleListCards)
		public.GET("/boosters", h.catalog.HandleListBoosters)
		public.GET("/rewards", h.reward.HandleListRewards)
	}

	users := s.Router.Group(basePath, verifyJWT)
	{
		users.GET("/user", h.user.HandleGetUser)
		users.PATCH("/user/update", h.user.HandleUpdateProfile)
		users.POST("/user/password/change", h.user.HandleChangePassword)
		users.GET("/user/point", h.user.HandleGetBalance)
		users.GET("/user/points/history", h.point.HandleGetHistory)
		users.POST("/user/point/redeem", h.reward.HandleRedeem)
		users.GET("/user/orders", h.order.HandleGetOrders)
		users.GET("/user/orders/:orderID", h.order.HandleGetOrder)
		users.POST("/user/orders/:orderID/cancel", h.order.HandleCancelOrder)
		users.POST("/orders/create", h.order.HandleCreateOrder)
		users.GET("/ranking/user", h.ranking.HandleUserRanking)
	}

	admin := s.Router.Group(basePath, verifyJWT, middleware.RequireAdmin(h.adminCheck))
	{
		admin.GET("/users", h.user.HandleListUsers)
		admin.POST("/point/adjust", h.point.HandleAdjustPoints)
		admin.POST("/point/reconcile", h.point.HandleReconcile)
		admin.POST("/tournament/add", h.tournament.HandleAddTournamentResult)
		admin.POST("/tournament/bulk", h.tournament.HandleBulkTournamentResults)
		admin.POST("/admin/redemption/:redemptionID/confirm", h.reward.HandleConfirmRedemption)
		admin.POST("/admin/redemption/:redemptionID/cancel", h.reward.HandleCancelRedemption)
		admin.POST("/admin/cards", h.catalog.HandleCreateCard)
		admin.POST("/admin/boosters", h.catalog.HandleCreateBooster)
		admin.POST("/admin/rewards", h.reward.HandleCreateReward)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
