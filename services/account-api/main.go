package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/accountdesk/account-backend/pkg/accounts"
	"github.com/accountdesk/account-backend/pkg/apihelpers"
	"github.com/accountdesk/account-backend/pkg/idp"
	"github.com/accountdesk/account-backend/pkg/messaging/notifier"
	"github.com/accountdesk/account-backend/services/account-api/apihandlers"
	"github.com/accountdesk/account-backend/services/account-api/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var conf AccountApiConfig

func main() {
	identityProvider := idp.NewHTTPClient(idp.ClientConfig{
		RootURL: conf.IdentityProviderConfig.URL,
		APIKey:  conf.IdentityProviderConfig.APIKey,
		Timeout: conf.IdentityProviderConfig.RequestTimeout,
	})

	accountNotifier := notifier.NewOutboxNotifier(messagingDBService)

	accountService := accounts.NewService(
		identityProvider,
		profileDBService,
		verificationDBService,
		accountNotifier,
		verificationCodeTTL,
		conf.VerificationConfig.MaxConfirmAttempts,
	)
	accountService.OnPartialFailure = func(step string) {
		metrics.PartialFailuresTotal.WithLabelValues(step).Inc()
	}
	defer accountService.WaitForBackgroundTasks()

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(metrics.RequestMetrics())

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	router.GET("/metrics", metrics.Handler())
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		accountService,
		identityProvider,
	)
	v1APIHandlers.AddAuthAPI(v1Root)
	v1APIHandlers.AddAccountsAPI(v1Root)
	v1APIHandlers.AddVerificationsAPI(v1Root)

	if conf.GinConfig.DebugMode {
		apihelpers.WriteRoutesToFile(router, "account-api-routes.txt")
	}

	// Start the server
	slog.Info("Starting Account API on port " + conf.GinConfig.Port)
	if !conf.GinConfig.MTLS.Use {
		err := router.Run(":" + conf.GinConfig.Port)
		if err != nil {
			slog.Error("Exited Account API", slog.String("error", err.Error()))
			return
		}
	} else {
		// Create tls config for mutual TLS
		tlsConfig, err := apihelpers.LoadTLSConfig(conf.GinConfig.MTLS.CertificatePaths)
		if err != nil {
			slog.Error("Error loading TLS config.", slog.String("error", err.Error()))
			return
		}

		server := &http.Server{
			Addr:      ":" + conf.GinConfig.Port,
			Handler:   router,
			TLSConfig: tlsConfig,
		}

		err = server.ListenAndServeTLS(conf.GinConfig.MTLS.CertificatePaths.ServerCertPath, conf.GinConfig.MTLS.CertificatePaths.ServerKeyPath)
		if err != nil {
			slog.Error("Exited Account API", slog.String("error", err.Error()))
			return
		}
	}

}
