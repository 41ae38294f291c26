package web

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Roma7-7-7/vocab-trainer/internal/auth"
	"github.com/Roma7-7-7/vocab-trainer/internal/config"
	"github.com/Roma7-7-7/vocab-trainer/internal/dal"
	"github.com/Roma7-7-7/vocab-trainer/internal/enrich"
	"github.com/Roma7-7-7/vocab-trainer/internal/learning"
)

type (
	Enricher interface {
		Enrich(ctx context.Context, text string) (enrich.Enrichment, error)
	}

	Dependencies struct {
		Repo     dal.Repository
		Enricher Enricher
		Hasher   *auth.PasswordHasher
		Logger   *slog.Logger

		// Now and NewRand default to the wall clock and a randomly seeded source.
		Now     func() time.Time
		NewRand func() *rand.Rand
	}
)

func NewRouter(conf config.Web, deps Dependencies) (http.Handler, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewRand == nil {
		deps.NewRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(loggingMiddleware(deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(conf.HTTP.RateLimit))))
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: conf.HTTP.ProcessTimeout,
	}))
	e.Use(middleware.Secure())

	e.HTTPErrorHandler = HTTPErrorHandler(deps.Logger)

	jwtProcessor := NewJWTProcessor(conf.HTTP.JWT, conf.HTTP.Cookie.AccessExpiresIn)
	cookiesProcessor := NewCookiesProcessor(conf.HTTP.Cookie)
	rules := learning.NewRules(conf.Learning)

	authMiddleware := AuthMiddleware(cookiesProcessor, jwtProcessor, deps.Logger)
	authHandler := NewAuthHandler(AuthDependencies{
		Repo:             deps.Repo,
		Hasher:           deps.Hasher,
		JWTProcessor:     jwtProcessor,
		CookiesProcessor: cookiesProcessor,
		Logger:           deps.Logger,
	})

	e.GET("/signup", authHandler.SignUpPage)
	e.POST("/signup", authHandler.SignUp)
	e.GET("/login", authHandler.LogInPage)
	e.POST("/login", authHandler.LogIn)
	e.GET("/logout", authHandler.LogOut)

	securedGroup := e.Group("", authMiddleware)

	index := NewIndexHandler(deps.Repo, cookiesProcessor, rules, deps.Now, deps.Logger)
	securedGroup.GET("/", index.Dashboard)

	words := NewWordsHandler(deps.Repo, deps.Enricher, cookiesProcessor, deps.Now, deps.Logger)
	securedGroup.POST("/add", words.Add)
	securedGroup.GET("/review/:id/:status", words.Review)

	quiz := NewQuizHandler(deps.Repo, cookiesProcessor, rules, deps.NewRand, deps.Logger)
	securedGroup.GET("/quiz", quiz.QuizPage)
	securedGroup.POST("/update_score", quiz.UpdateScore)

	return e, nil
}

func loggingMiddleware(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true, // forwards error to the global error handler, so it can decide appropriate status code
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				log.LogAttrs(ctx, slog.LevelInfo, "REQUEST",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
					slog.Duration("latency", v.Latency),
				)
			} else {
				log.LogAttrs(ctx, slog.LevelError, "REQUEST_ERROR",
					slog.String("method", v.Method),
					slog.String("uri", v.URI),
					slog.Int("status", v.Status),
					slog.String("request_id", v.RequestID),
					slog.String("err", v.Error.Error()),
				)
			}
			return nil
		},
	})
}
