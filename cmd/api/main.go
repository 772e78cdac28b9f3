package main

import (
	"log"

	"app/internal/auth"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/middleware"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.Item{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService(cfg.JWTSecret)

	authUC := usecase.NewAuthUsecase(
		userRepo,
		hasher,
		tokens,
		validator.NewAuthValidator(userRepo),
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, itemRepo)

	authH := handler.NewAuthHandler(authUC)
	orderH := handler.NewOrderHandler(orderUC)

	authMW := middleware.AuthJWT(tokens, userRepo)

	e := server.New(authH, orderH, authMW)
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
