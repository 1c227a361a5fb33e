package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/config"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/es"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/events"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/handlers"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/imagehost"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/middleware"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/repo"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/service"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/tokens"
	httpserver "github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	issuer, err := tokens.NewIssuer(
		[]byte(configuration.JWT_SECRET),
		configuration.JWT_ALGORITHM,
		configuration.AccessTTL(),
		configuration.RefreshTTL(),
	)
	if err != nil {
		log.Fatalf("token issuer error: %v", err)
	}

	prod := events.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch error: %v", err)
	}
	searchSvc := &service.SearchService{ES: esClient, Index: "photos"}

	host := imagehost.NewClient(
		configuration.IMAGEHOST_URL,
		configuration.IMAGEHOST_KEY,
		configuration.IMAGEHOST_SECRET,
	)

	store := repo.New(db)
	authSvc := &service.AuthService{Store: store, Tokens: issuer, Events: prod}
	userSvc := &service.UserService{Store: store}
	photoSvc := &service.PhotoService{Store: store, Host: host, Index: searchSvc, Events: prod}
	commentSvc := &service.CommentService{Store: store, Events: prod}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthMW:         &middleware.Auth{Tokens: issuer, Store: store},
		AuthHandler:    &handlers.AuthHandler{Auth: authSvc},
		UserHandler:    &handlers.UserHandler{Users: userSvc},
		PhotoHandler:   &handlers.PhotoHandler{Photos: photoSvc},
		CommentHandler: &handlers.CommentHandler{Comments: commentSvc},
		SearchHandler:  &handlers.SearchHandler{Search: searchSvc},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.SERVER_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
