package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/db"
	"github.com/umphart/kaccimapro-sub001/internal/notify"
	"github.com/umphart/kaccimapro-sub001/internal/review"
	"github.com/umphart/kaccimapro-sub001/internal/server"
	"github.com/umphart/kaccimapro-sub001/internal/storage"
	"github.com/umphart/kaccimapro-sub001/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/k0kubun/pp/v3"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if config.Environment == "development" {
		pp.Println(config)
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)

	var blobs storage.Store
	switch config.StorageBackend {
	case "supabase":
		blobs = storage.NewSupabaseStore(config.SupabaseProjectID, config.SupabaseAPIKey)
	default:
		blobs = storage.NewS3Store(s3.NewFromConfig(awsConfig))
	}

	var dispatcher notify.Dispatcher = notify.NopDispatcher{}
	if config.EmailSender != "" {
		dispatcher = notify.NewSESDispatcher(ses.NewFromConfig(awsConfig), logger, config.EmailSender, config.AdminEmail)
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	orgRepo := store.NewOrganizationRepository(pool)
	paymentRepo := store.NewPaymentRepository(pool)
	eventRepo := store.NewEventRepository(pool)
	adminRepo := store.NewAdminRepository(pool)
	workflowRepo := store.NewWorkflowRepository(pool)

	reviewService := review.New(
		logger,
		orgRepo,
		eventRepo,
		paymentRepo,
		workflowRepo,
		blobs,
		dispatcher,
		config.DocumentsBucket,
		config.LogosBucket,
	)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initilaize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwk with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		reviewService,
		orgRepo,
		paymentRepo,
		eventRepo,
		adminRepo,
		jwkCache,
		jwksURL,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
