package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type (
	DB struct {
		URL string `envconfig:"DB_URL" default:"maay.db"`
	}

	CORS struct {
		AllowOrigins []string `envconfig:"ALLOW_ORIGINS" default:"*"`
	}

	JWT struct {
		Issuer    string        `envconfig:"ISSUER" default:"maay-api"`
		Audience  []string      `envconfig:"AUDIENCE" default:"maay-app"`
		Secret    string        `envconfig:"SECRET"`
		ExpiresIn time.Duration `envconfig:"EXPIRES_IN" default:"720h"`
	}

	HTTP struct {
		ProcessTimeout time.Duration `envconfig:"PROCESS_TIMEOUT" default:"10s"`
		RateLimit      float64       `envconfig:"RATE_LIMIT" default:"25"`
		CORS           CORS
		JWT            JWT
	}

	Server struct {
		ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
		Addr              string        `envconfig:"ADDR" default:":8080"`
	}

	Azure struct {
		TranslatorKey    string `envconfig:"TRANSLATOR_KEY"`
		TranslatorRegion string `envconfig:"TRANSLATOR_REGION" default:"centralus"`
	}

	Static struct {
		Dir string `envconfig:"STATIC_DIR" default:"./static"`
	}

	// SSM names the AWS Parameter Store entries secrets are fetched from
	// when they are not provided via environment.
	SSM struct {
		JWTSecretParam string `envconfig:"SSM_JWT_SECRET_PARAM"`
		AzureKeyParam  string `envconfig:"SSM_AZURE_KEY_PARAM"`
	}

	API struct {
		Dev    bool `envconfig:"DEV" default:"false"`
		DB     DB
		HTTP   HTTP
		Server Server
		Azure  Azure
		Static Static
		SSM    SSM
	}
)

// NewAPI resolves the API configuration from environment variables and, for
// secrets absent from the environment, from AWS SSM parameters.
func NewAPI(ctx context.Context) (*API, error) {
	var res API
	if err := envconfig.Process("API", &res); err != nil {
		return nil, fmt.Errorf("parse api environment: %w", err)
	}

	if err := res.resolveSecrets(ctx); err != nil {
		return nil, err
	}

	if res.HTTP.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required: set API_SECRET or API_SSM_JWT_SECRET_PARAM")
	}

	return &res, nil
}

func (c *API) resolveSecrets(ctx context.Context) error {
	keys := make([]string, 0, 2)
	if c.HTTP.JWT.Secret == "" && c.SSM.JWTSecretParam != "" {
		keys = append(keys, c.SSM.JWTSecretParam)
	}
	if c.Azure.TranslatorKey == "" && c.SSM.AzureKeyParam != "" {
		keys = append(keys, c.SSM.AzureKeyParam)
	}
	if len(keys) == 0 {
		return nil
	}

	params, err := FetchAWSParams(ctx, keys...)
	if err != nil {
		return fmt.Errorf("fetch ssm parameters: %w", err)
	}

	if c.HTTP.JWT.Secret == "" && c.SSM.JWTSecretParam != "" {
		c.HTTP.JWT.Secret = params[c.SSM.JWTSecretParam]
	}
	if c.Azure.TranslatorKey == "" && c.SSM.AzureKeyParam != "" {
		c.Azure.TranslatorKey = params[c.SSM.AzureKeyParam]
	}
	return nil
}
