package app

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	// Mode selects the credential authority. "backend" verifies against the
	// school-records API; "local" runs offline against the demo directory.
	Mode string `validate:"required,oneof=backend local"`

	Backend struct {
		// URL is the base URL of the school-records API, including the
		// path prefix. The default is http://localhost:8000/api.
		URL string `validate:"required,url"`
		// Timeout applies to every request.
		Timeout time.Duration `validate:"required"`
	}

	// CredentialFile is where the bearer token is persisted between runs.
	CredentialFile string `mapstructure:"credential_file" validate:"required"`

	Local struct {
		// File is the sqlite database holding locally registered accounts.
		File string `validate:"required"`
		// Migrations is the directory that the migration files reside in.
		Migrations string `validate:"required"`
		// Secret signs locally issued tokens. It must be a base64 encoded
		// string. The default is a random 32 byte string, so local sessions
		// only survive a restart when a secret is configured.
		Secret Base64Encoded `validate:"required"`
		// Exp is the lifetime of locally issued tokens.
		Exp time.Duration `validate:"required"`
	}

	Debug bool

	valid bool
}

type Base64Encoded []byte

func (b *Base64Encoded) UnmarshalText(text []byte) error {
	dec, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("base64 decode: %w", err)
	}
	*b = dec
	return nil
}

// LoadConfig loads the configuration from the config file and environment
// variables. Any invalid configuration will not be loaded, and the error
// will be caught in the validation step.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", "backend")
	viper.SetDefault("backend.url", "http://localhost:8000/api")
	viper.SetDefault("backend.timeout", "10s")
	viper.SetDefault("credential_file", "./.schooldesk/credentials")
	viper.SetDefault("local.file", "./.schooldesk/accounts.db")
	viper.SetDefault("local.migrations", "./migrations")
	viper.SetDefault("local.exp", "24h")

	// generate a random secret key
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	viper.SetDefault("local.secret", base64.StdEncoding.EncodeToString(secret))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := viper.Unmarshal(&config,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc()),
		),
	); err != nil {
		// defer error to validation step
		return config, nil
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.valid {
		return nil
	}
	if err := validate.Struct(c); err != nil {
		return err
	}
	c.valid = true
	return nil
}

func FormatValidationErrors(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	trans, _ := uniTrans.GetTranslator("en")
	translated := errs.Translate(trans)

	var sb strings.Builder
	for _, v := range translated {
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	return sb.String()
}
