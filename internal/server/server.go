// Package server exposes the membership workflow over HTTP as a JSON API.
// Handlers stay thin: decode, call the review service, map errors centrally.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/umphart/kaccimapro-sub001/internal/review"
	"github.com/umphart/kaccimapro-sub001/internal/store"
	"github.com/umphart/kaccimapro-sub001/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config
	review *review.Service

	orgRepo     *store.OrganizationRepository
	paymentRepo *store.PaymentRepository
	eventRepo   *store.EventRepository
	adminRepo   *store.AdminRepository

	cognitoClient *cognitoidentityprovider.Client
	cookie        *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient *cognitoidentityprovider.Client,
	reviewService *review.Service,
	orgRepo *store.OrganizationRepository,
	paymentRepo *store.PaymentRepository,
	eventRepo *store.EventRepository,
	adminRepo *store.AdminRepository,
	jwksCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		review: reviewService,

		orgRepo:     orgRepo,
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
		adminRepo:   adminRepo,

		cognitoClient: cognitoClient,
		cookie:        securecookie.New(hashKey, blockKey),

		jwksCache: jwksCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/register/confirm", s.handlePostRegisterConfirm, http.MethodPost)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)

	// Applicant surface
	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/organizations", s.handleCreateOrganization, http.MethodPost)
		r.HandleFunc("/organizations/me", s.handleGetOwnOrganization, http.MethodGet)
		r.HandleFunc("/organizations/:id/documents", s.handleGetDocuments, http.MethodGet)
		r.HandleFunc("/organizations/:id/documents/:key/reupload", s.handleReuploadDocument, http.MethodPost)
		r.HandleFunc("/organizations/:id/payments", s.handleListPayments, http.MethodGet)
		r.HandleFunc("/organizations/:id/payments", s.handleSubmitPayment, http.MethodPost)
		r.HandleFunc("/organizations/:id/payments/due", s.handleGetPaymentDue, http.MethodGet)
		r.HandleFunc("/organizations/:id/events", s.handleListEvents, http.MethodGet)
		r.HandleFunc("/organizations/:id/events/read", s.handleMarkEventsRead, http.MethodPost)
	})

	// Admin surface
	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)
		r.Use(s.RequireAdmin)

		r.HandleFunc("/organizations", s.handleListOrganizations, http.MethodGet)
		r.HandleFunc("/organizations/:id", s.handleGetOrganization, http.MethodGet)
		r.HandleFunc("/organizations/:id/documents/:key/approve", s.handleApproveDocument, http.MethodPost)
		r.HandleFunc("/organizations/:id/documents/:key/reject", s.handleRejectDocument, http.MethodPost)
		r.HandleFunc("/organizations/:id/approve", s.handleApproveOrganization, http.MethodPost)
		r.HandleFunc("/organizations/:id/reject", s.handleRejectOrganization, http.MethodPost)
		r.HandleFunc("/payments/:id/approve", s.handleApprovePayment, http.MethodPost)
		r.HandleFunc("/payments/:id/reject", s.handleRejectPayment, http.MethodPost)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}

func (s *Service) adminFromContext(ctx context.Context) *types.Admin {
	admin, _ := ctx.Value(contextKeyAdmin).(*types.Admin)
	return admin
}
