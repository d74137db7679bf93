package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reclamos-web/internal/adapter/gateway"
	adapterhandler "reclamos-web/internal/adapter/handler"
	"reclamos-web/internal/domain"
	infrasession "reclamos-web/internal/infrastructure/session"
	infratoken "reclamos-web/internal/infrastructure/token"
	"reclamos-web/internal/usecase"

	"reclamos-web/config"
	appmiddleware "reclamos-web/middleware"
	"reclamos-web/utils/logger"
	"reclamos-web/utils/otel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
	}

	// Initialize structured logger
	logger.Init(otelCfg.Enabled)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"api_base_url", cfg.APIBaseURL,
		"port", cfg.Port,
		"session_idle_timeout", cfg.SessionIdleTimeout)

	// Infrastructure
	sessions := infrasession.NewStore(cfg.SessionIdleTimeout)
	decoder := infratoken.NewDecoder()
	apiClient := gateway.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	csrfGenerator := infratoken.NewHMACCSRFGenerator(cfg.CSRFSecret)

	// Usecases
	loginUC := usecase.NewLogin(apiClient, slog.Default())
	registerUC := usecase.NewRegister(apiClient, slog.Default())

	// Handlers
	authHandler := adapterhandler.NewAuthHandler(loginUC, registerUC, csrfGenerator, slog.Default())
	reclamosHandler := adapterhandler.NewReclamosHandler(slog.Default())
	usuariosHandler := adapterhandler.NewUsuariosHandler(slog.Default())
	dashboardHandler := adapterhandler.NewDashboardHandler(slog.Default())
	notificacionesHandler := adapterhandler.NewNotificacionesHandler(slog.Default())
	reportsHandler := adapterhandler.NewReportsHandler(slog.Default())
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Security middleware
	e.Use(appmiddleware.SecurityHeaders())

	// OpenTelemetry tracing
	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Session resolution and authentication gate, then centralized role rules
	e.Use(appmiddleware.Authentication(sessions, decoder, apiClient, slog.Default()))
	e.Use(appmiddleware.RoleAuthorization(slog.Default()))

	// Rate limiters for credential endpoints
	loginRL := appmiddleware.NewRateLimiter(10.0/60.0, 5)   // 10 req/min
	registerRL := appmiddleware.NewRateLimiter(5.0/60.0, 3) // 5 req/min

	// Public routes
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/reclamos")
	})
	e.GET("/health", healthHandler.Handle)

	auth := e.Group("/auth")
	auth.GET("/login", authHandler.LoginPage)
	auth.POST("/login", authHandler.Login, loginRL.Middleware())
	auth.GET("/register", authHandler.RegisterPage)
	auth.POST("/register", authHandler.Register, registerRL.Middleware())
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/accessdenied", authHandler.AccessDenied)
	auth.GET("/csrf", authHandler.CSRFToken)

	// Reclamos (authenticated; edit/delete restricted by path rules)
	reclamos := e.Group("/reclamos")
	reclamos.GET("", reclamosHandler.List)
	reclamos.POST("", reclamosHandler.Create)
	reclamos.GET("/:id", reclamosHandler.Detail)
	reclamos.GET("/edit/:id", reclamosHandler.EditPage)
	reclamos.POST("/edit/:id", reclamosHandler.Edit)
	reclamos.POST("/delete/:id", reclamosHandler.Delete)
	reclamos.POST("/:id/estado", reclamosHandler.UpdateEstado)
	reclamos.POST("/:id/respuestas", reclamosHandler.CreateRespuesta)

	e.POST("/respuestas/:id/visto", reclamosHandler.MarcarRespuestaVista)

	// Staff dashboard guarded declaratively, admin area by path rules
	dashboard := e.Group("/dashboard", appmiddleware.RequireRoles(domain.RoleAdmin, domain.RoleSoporte))
	dashboard.GET("", dashboardHandler.Index)
	dashboard.GET("/admin", dashboardHandler.Admin)
	dashboard.GET("/admin/reclamos.csv", reportsHandler.ReclamosCSV)

	e.GET("/usuario/dashboard", dashboardHandler.Usuario)

	// User administration (admin-only by path rules)
	usuarios := e.Group("/usuarios")
	usuarios.GET("", usuariosHandler.List)
	usuarios.GET("/:id", usuariosHandler.Detail)
	usuarios.POST("/:id", usuariosHandler.Update)
	usuarios.POST("/:id/delete", usuariosHandler.Delete)

	// Account self-service
	cuenta := e.Group("/cuenta")
	cuenta.POST("/cambiar-contrasena", usuariosHandler.ChangePassword)
	cuenta.POST("/enviar-codigo-2fa", usuariosHandler.SendTwoFactorCode)
	cuenta.POST("/activar-2fa", usuariosHandler.ActivateTwoFactor)

	// Notifications
	notificaciones := e.Group("/notificaciones")
	notificaciones.GET("", notificacionesHandler.Propias)
	notificaciones.GET("/soporte", notificacionesHandler.Soporte)
	notificaciones.POST("/:id/leida", notificacionesHandler.MarcarLeida)
	notificaciones.POST("/:id/eliminar", notificacionesHandler.Eliminar)

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting reclamos-web server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8888"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
