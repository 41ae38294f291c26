package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	jwtSecretParam = "/vocab-trainer/prod/jwt-secret"

	cookieSecureEnv = "WEB_HTTP_COOKIE_SECURE"
)

type (
	DB struct {
		URL string `envconfig:"URL" default:"vocab.db" validate:"required"`
	}

	JWT struct {
		Issuer   string   `envconfig:"ISSUER" default:"vocab-trainer"`
		Audience []string `envconfig:"AUDIENCE" default:"vocab-trainer-web"`
		Secret   string   `envconfig:"SECRET" validate:"required,min=16"`
	}

	Cookie struct {
		Path            string        `envconfig:"CPATH" default:"/"` // not using PATH here because it may conflict with os.Path
		Domain          string        `envconfig:"DOMAIN" default:""`
		Secure          bool          `envconfig:"SECURE" default:"true"`
		AccessExpiresIn time.Duration `envconfig:"ACCESS_EXPIRES_IN" default:"24h" validate:"gt=0"`
		FlashExpiresIn  time.Duration `envconfig:"FLASH_EXPIRES_IN" default:"1m" validate:"gt=0"`
	}

	HTTP struct {
		ProcessTimeout time.Duration `envconfig:"PROCESS_TIMEOUT" default:"30s" validate:"gt=0"`
		RateLimit      float64       `envconfig:"RATE_LIMIT" default:"25" validate:"gt=0"`
		Cookie         Cookie
		JWT            JWT
	}

	Server struct {
		ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
		Addr              string        `envconfig:"ADDR" default:":5000"`
	}

	Enrichment struct {
		TranslateURL string        `envconfig:"TRANSLATE_URL" default:"https://translate.googleapis.com/translate_a/single" validate:"required,url"`
		ImageURL     string        `envconfig:"IMAGE_URL" default:"https://source.unsplash.com/400x300/" validate:"required,url"`
		SourceLang   string        `envconfig:"SOURCE_LANG" default:"en" validate:"required"`
		TargetLang   string        `envconfig:"TARGET_LANG" default:"fa" validate:"required"`
		Timeout      time.Duration `envconfig:"TIMEOUT" default:"10s" validate:"gt=0"`
	}

	// Learning holds the scoring and mastery thresholds.
	Learning struct {
		MasteredInterval       int `envconfig:"MASTERED_INTERVAL" default:"10" validate:"min=1"`
		PointsPerLevel         int `envconfig:"POINTS_PER_LEVEL" default:"100" validate:"min=1"`
		PointsPerCorrectAnswer int `envconfig:"POINTS_PER_CORRECT_ANSWER" default:"10" validate:"min=1"`
	}

	Web struct {
		Dev        bool   `envconfig:"DEV" default:"false"`
		AWSRegion  string `envconfig:"AWS_REGION" default:"eu-central-1"`
		DB         DB
		HTTP       HTTP
		Server     Server
		Enrichment Enrichment
		Learning   Learning
	}
)

// NewWeb reads WEB_* variables. Outside of dev mode the JWT secret is
// taken from SSM instead of the environment. In dev mode cookies are not
// marked Secure unless WEB_HTTP_COOKIE_SECURE says otherwise.
func NewWeb(ctx context.Context) (*Web, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	res := &Web{}
	if err := envconfig.Process("WEB", res); err != nil {
		return nil, fmt.Errorf("parse web environment: %w", err)
	}

	if _, set := os.LookupEnv(cookieSecureEnv); res.Dev && !set {
		res.HTTP.Cookie.Secure = false
	}

	if !res.Dev {
		client, err := NewParametersClient(ctx, res.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("create parameters client: %w", err)
		}
		if err = setWebProdConfig(ctx, client, res); err != nil {
			return nil, fmt.Errorf("set web prod config: %w", err)
		}
	}

	if err := validate(res); err != nil {
		return nil, err
	}

	return res, nil
}

func setWebProdConfig(ctx context.Context, client ParametersClient, target *Web) error {
	parameters, err := FetchAWSParams(ctx, client, jwtSecretParam)
	if err != nil {
		return fmt.Errorf("get parameters: %w", err)
	}

	target.HTTP.JWT.Secret = parameters[jwtSecretParam]
	return nil
}

func (w *Web) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("dev", w.Dev),
		slog.String("db_url", w.DB.URL),
		slog.String("addr", w.Server.Addr),
		slog.Duration("process_timeout", w.HTTP.ProcessTimeout),
		slog.Float64("rate_limit", w.HTTP.RateLimit),
		slog.String("translate_url", w.Enrichment.TranslateURL),
		slog.String("languages", w.Enrichment.SourceLang+"->"+w.Enrichment.TargetLang),
		slog.Int("mastered_interval", w.Learning.MasteredInterval),
		slog.Int("points_per_level", w.Learning.PointsPerLevel),
	)
}
