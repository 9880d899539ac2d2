package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/sealedx/goapi/base/ctx"
	"github.com/sealedx/goapi/base/database/mongoclient"
	"github.com/sealedx/goapi/base/database/redisclient"
	"github.com/sealedx/goapi/base/log"
	"github.com/sealedx/goapi/base/metrics"
	bValidator "github.com/sealedx/goapi/base/validator"
	"github.com/sealedx/goapi/domain"
	mmiddleware "github.com/sealedx/goapi/middleware"
	"github.com/sealedx/goapi/service/query"
	"github.com/sealedx/goapi/service/redis"
	activity_delivery "github.com/sealedx/goapi/stores/activity/delivery/http"
	activity_repository "github.com/sealedx/goapi/stores/activity/repository"
	activity_usecase "github.com/sealedx/goapi/stores/activity/usecase"
	asset_delivery "github.com/sealedx/goapi/stores/asset/delivery/http"
	asset_repository "github.com/sealedx/goapi/stores/asset/repository"
	asset_usecase "github.com/sealedx/goapi/stores/asset/usecase"
	auction_delivery "github.com/sealedx/goapi/stores/auction/delivery/http"
	auction_repository "github.com/sealedx/goapi/stores/auction/repository"
	auction_usecase "github.com/sealedx/goapi/stores/auction/usecase"
	hc_delivery "github.com/sealedx/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/sealedx/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/sealedx/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/sealedx/goapi/stores/listing/delivery/http"
	listing_repository "github.com/sealedx/goapi/stores/listing/repository"
	listing_usecase "github.com/sealedx/goapi/stores/listing/usecase"
	token_delivery "github.com/sealedx/goapi/stores/token/delivery/http"
	token_repository "github.com/sealedx/goapi/stores/token/repository"
	token_usecase "github.com/sealedx/goapi/stores/token/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis service
	context.Info("init redis")
	redisName := viper.GetString("redis.name")
	redisURI := viper.GetString("redis.uri")
	redisPwd := viper.GetString("redis.password")
	redisPoolMultiplier := viper.GetFloat64("redis.poolMultiplier")
	redisPool := redisclient.MustConnectRedis(redisURI, redisPwd, redisclient.RedisParam{
		PoolMultiplier: redisPoolMultiplier,
		Retry:          true,
	})
	redisService := redis.New(redisName, metrics.New(redisName), &redis.Pools{
		Src: redisPool,
	})

	// the single account escrowing deposits and moving assets on the
	// marketplace's behalf
	operator := domain.Address(viper.GetString("marketplace.operator")).ToLower()
	if operator.IsEmpty() {
		log.Log().Panic("marketplace.operator is not configured")
	}

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisService)
	listingRepo := listing_repository.NewListingRepo(q)
	auctionRepo := auction_repository.NewAuctionRepo(q)
	bidRepo := auction_repository.NewBidRepo(q)
	tokenRepo := token_repository.NewTokenRepo(q)
	assetRepo := asset_repository.NewAssetRepo(q)
	activityRepo := activity_repository.NewActivityRepo(q)

	hc := hc_usecase.New(hcRepo)
	tokenUC := token_usecase.New(&token_usecase.TokenUseCaseCfg{
		TokenRepo: tokenRepo,
		Query:     q,
	})
	assetUC := asset_usecase.New(&asset_usecase.AssetUseCaseCfg{
		AssetRepo: assetRepo,
	})
	activityUC := activity_usecase.New(&activity_usecase.ActivityUseCaseCfg{
		ActivityRepo: activityRepo,
		Redis:        redisService,
	})
	listingUC := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo: listingRepo,
		AuctionRepo: auctionRepo,
		Ledger:      tokenUC,
		Registry:    assetUC,
		Activity:    activityUC,
		Operator:    operator,
	})
	auctionUC := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		ListingRepo: listingRepo,
		Ledger:      tokenUC,
		Registry:    assetUC,
		Activity:    activityUC,
		Operator:    operator,
	})

	hc_delivery.New(e, hc)
	token_delivery.New(e, tokenUC)
	asset_delivery.New(e, assetUC)
	listing_delivery.New(e, listingUC)
	auction_delivery.New(e, auctionUC)
	activity_delivery.New(e, activityUC)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
