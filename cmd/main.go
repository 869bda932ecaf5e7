package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/otp-auth/internal/handlers"
	"github.com/sbilibin2017/otp-auth/internal/jwt"
	"github.com/sbilibin2017/otp-auth/internal/logger"
	"github.com/sbilibin2017/otp-auth/internal/mailer"
	"github.com/sbilibin2017/otp-auth/internal/middlewares"
	"github.com/sbilibin2017/otp-auth/internal/otp"
	"github.com/sbilibin2017/otp-auth/internal/repositories"
	"github.com/sbilibin2017/otp-auth/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/sbilibin2017/otp-auth/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title otp-auth API
// @version 1.0.0
// @description Email/OTP signup and login service with cookie sessions
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// config holds the full process configuration, constructed once at startup
// and passed by reference into the components that need it.
type config struct {
	AppHost  string
	AppPort  string
	AppEnv   string
	LogLevel string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	JWTSecretKey string
	JWTExpSecond int
	OTPTTLSecond int

	MailSuppress bool
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	KafkaHost  string
	KafkaPort  string
	KafkaTopic string
}

// production reports whether the process runs with the production flag,
// which controls the cookie Secure attribute and makes a missing JWT
// secret a fatal configuration error.
func (c *config) production() bool {
	return c.AppEnv == "production"
}

// parseConfig loads environment variables from a file and returns the
// application, database, JWT, OTP, mail and Kafka configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	var err error
	cfg := &config{}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.AppEnv = getEnv("APP_ENV", "development")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "database")
	if cfg.PGPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return nil, err
	}
	if cfg.PGMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return nil, err
	}
	if cfg.PGMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return nil, err
	}

	// JWT config. Default expiration is 7 days.
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "")
	if cfg.JWTExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "604800")); err != nil {
		return nil, err
	}
	if cfg.JWTSecretKey == "" && cfg.AppEnv == "production" {
		return nil, errors.New("JWT_SECRET_KEY must be set when APP_ENV=production")
	}

	// OTP config. 0 means codes never expire.
	if cfg.OTPTTLSecond, err = strconv.Atoi(getEnv("OTP_TTL_SECOND", "0")); err != nil {
		return nil, err
	}

	// Mail config
	cfg.MailSuppress = getEnv("MAIL_SUPPRESS_TEST_ONLY", "false") == "true"
	cfg.SMTPHost = getEnv("SMTP_HOST", "localhost")
	if cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587")); err != nil {
		return nil, err
	}
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "no-reply@localhost")
	cfg.SMTPFromName = getEnv("SMTP_FROM_NAME", "OTP Verify")

	// Kafka config. Empty host disables audit events.
	cfg.KafkaHost = getEnv("KAFKA_HOST", "")
	cfg.KafkaPort = getEnv("KAFKA_PORT", "9092")
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "auth-events")

	return cfg, nil
}

// run initializes the logger, database, Kafka writer and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	if cfg.JWTSecretKey == "" {
		logger.Log.Warn("JWT_SECRET_KEY is not set. Session tokens are signed with an empty secret and are NOT secure.")
	}
	if cfg.MailSuppress {
		logger.Log.Warn("MAIL_SUPPRESS_TEST_ONLY is set. OTP mail delivery is disabled and codes are logged. Never enable in production.")
	}

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
	logger.Log.Infof("Connecting to PostgreSQL: %s:%d/%s", cfg.PGHost, cfg.PGPort, cfg.PGDB)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		logger.Log.Fatal("PostgreSQL connection error:", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PGMaxOpenConns)
	db.SetMaxIdleConns(cfg.PGMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		logger.Log.Fatal("PostgreSQL ping failed:", err)
	}

	// Optional Kafka writer for audit events
	var kafkaWriter services.KafkaWriter
	if cfg.KafkaHost != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(fmt.Sprintf("%s:%s", cfg.KafkaHost, cfg.KafkaPort)),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Initialize JWT service
	jwtSvc := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(time.Duration(cfg.JWTExpSecond)*time.Second),
	)

	// Initialize OTP generator and mailer
	otpGen := otp.New(otp.WithSuppressed(cfg.MailSuppress))

	var otpMailer mailer.Mailer
	if cfg.MailSuppress {
		otpMailer = mailer.NewSuppressedMailer()
	} else {
		otpMailer, err = mailer.NewSMTPMailer(
			cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUser, cfg.SMTPPassword,
			cfg.SMTPFrom, cfg.SMTPFromName,
		)
		if err != nil {
			return err
		}
	}

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)

	// Initialize services
	authService := services.NewAuthService(
		userReadRepo, userWriteRepo,
		jwtSvc, otpGen, otpMailer, kafkaWriter,
		time.Duration(cfg.OTPTTLSecond)*time.Second,
	)

	// Initialize handlers
	secureCookie := cfg.production()
	signupHandler := handlers.NewSignupHandler(authService)
	verifyOTPHandler := handlers.NewVerifyOTPHandler(authService, jwtSvc, secureCookie)
	loginHandler := handlers.NewLoginHandler(authService, jwtSvc, secureCookie)
	logoutHandler := handlers.NewLogoutHandler(secureCookie)
	dashboardHandler := handlers.NewDashboardHandler(authService)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/signup", signupHandler)
		r.Post("/verifyotp", verifyOTPHandler)
		r.Post("/login", loginHandler)
		r.Post("/logout", logoutHandler)

		// Protected routes behind the session cookie
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(jwtSvc))
			r.Get("/dashboard", dashboardHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
