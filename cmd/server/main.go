package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	httpctl "bento-backend/internal/controllers/http"
	mmysql "bento-backend/internal/infra/mysql"
	"bento-backend/internal/infra/rabbitmq"
	"bento-backend/internal/infra/ratelimit"
	mysqlrepo "bento-backend/internal/repository/mysql"
	"bento-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	txm := mysqlrepo.NewTxManager(db)
	sessionRepo := mysqlrepo.NewSessionRepository(db)
	guestCartRepo := mysqlrepo.NewGuestCartRepository(db)
	userCartRepo := mysqlrepo.NewUserCartRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	catalogRepo := mysqlrepo.NewCatalogRepository(db)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "order.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	sessionSvc := services.NewSessionService(sessionRepo, guestCartRepo, catalogRepo, txm)
	cartSvc := services.NewCartService(guestCartRepo, userCartRepo, catalogRepo)
	migrationSvc := services.NewMigrationService(sessionRepo, guestCartRepo, userCartRepo, txm)
	orderSvc := services.NewOrderService(orderRepo, userCartRepo, catalogRepo, publisher, txm)
	dashboardSvc := services.NewDashboardService(orderRepo, catalogRepo)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	cartSvc.SetRedisClient(redisClient)
	orderSvc.SetRedisClient(redisClient)

	// 30 session mints per IP per minute is generous for humans and cheap
	// to hit for scripts.
	limiter := ratelimit.New(redisClient, 30, time.Minute)

	handler := httpctl.NewHandler(sessionSvc, cartSvc, migrationSvc, orderSvc, dashboardSvc, catalogRepo, limiter)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting bento backend on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
