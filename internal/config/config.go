package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/serviceegy/contact-api/internal/cors"
	"github.com/serviceegy/contact-api/internal/logger"
	"github.com/serviceegy/contact-api/internal/validator"
)

const DefaultMailbox = "info@service-egy.com"

type SMTPConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	// Credentials are checked per request so a missing value is reported to the caller
	// instead of preventing startup.
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// Nominal sender. Messages are always sent from User.
	From               string `mapstructure:"from"`
	To                 string `mapstructure:"to"                   validate:"required"`
	SenderName         string `mapstructure:"sender_name"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

type MailConfig struct {
	Timezone string `mapstructure:"timezone" validate:"required"`
}

type SlogConfig struct {
	Level int `mapstructure:"level"`
}

type LoggingConfig struct {
	App     SlogConfig `mapstructure:"app"`
	UseOTLP bool       `mapstructure:"use_otlp"`
}

type RateLimitConfig struct {
	RedisAddress    string `mapstructure:"redis_address"`
	SubmitPerMinute int64  `mapstructure:"submit_per_minute" validate:"min=0"`
	FailOpen        bool   `mapstructure:"fail_open"`
}

// See contactapi.example.yaml for an example config
type Config struct {
	SMTP                 *SMTPConfig      `mapstructure:"smtp"                   validate:"required"`
	Mail                 *MailConfig      `mapstructure:"mail"                   validate:"required"`
	Logging              *LoggingConfig   `mapstructure:"logging"                validate:"required"`
	RateLimit            *RateLimitConfig `mapstructure:"ratelimit"`
	ListenAddress        string           `mapstructure:"listen_address"         validate:"required"`
	AllowedOrigins       string           `mapstructure:"allowed_origins"`
	TrustedProxies       string           `mapstructure:"trusted_proxies"`
	GracefulShutdownSecs int64            `mapstructure:"graceful_shutdown_secs"`
}

const (
	AllowedOrigins       string = "allowed_origins"
	AppLogLevel          string = "logging.app.level"
	EnvPrefix            string = "contactapi"
	GracefulShutdownSecs string = "graceful_shutdown_secs"
	ListenAddress        string = "listen_address"
	MailTimezone         string = "mail.timezone"
	RateLimitFailOpen    string = "ratelimit.fail_open"
	RedisAddress         string = "ratelimit.redis_address"
	SMTPFrom             string = "smtp.from"
	SMTPHost             string = "smtp.host"
	SMTPInsecure         string = "smtp.insecure_skip_verify"
	SMTPPassword         string = "smtp.password" // #nosec
	SMTPPort             string = "smtp.port"
	SMTPSenderName       string = "smtp.sender_name"
	SMTPTo               string = "smtp.to"
	SMTPUser             string = "smtp.user"
	SubmitPerMinute      string = "ratelimit.submit_per_minute"
	TrustedProxies       string = "trusted_proxies"
	UseOTLP              string = "logging.use_otlp"
)

// Unprefixed variable names accepted alongside the CONTACTAPI_ prefixed ones
var envAliases = map[string]string{
	AllowedOrigins: "ALLOWED_ORIGINS",
	SMTPHost:       "SMTP_HOST",
	SMTPPort:       "SMTP_PORT",
	SMTPUser:       "SMTP_USER",
	SMTPPassword:   "SMTP_PASSWORD",
	SMTPFrom:       "SMTP_FROM",
	SMTPTo:         "SMTP_TO",
}

func envName(key string) string {
	return strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(key, ".", "_"))
}

// Loads configuration from contactapi.yaml (if present) and the environment.
//
// Every call builds a fresh value; callers pass it to whatever needs it.
func GetConfig() (*Config, error) {
	logger.Logger.Info("loading config")

	v := viper.New()

	v.SetConfigName("contactapi")

	v.AddConfigPath("/etc/contactapi/")
	v.AddConfigPath(".")

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AutomaticEnv()

	// workaround for https://github.com/spf13/viper/issues/761
	// bind env vars explicitly so they unmarshal into the nested struct
	for key, alias := range envAliases {
		if err := v.BindEnv(key, envName(key), alias); err != nil {
			return nil, err
		}
	}

	v.SetDefault(ListenAddress, "[::]:1323")
	v.SetDefault(AllowedOrigins, cors.Wildcard)
	v.SetDefault(SMTPHost, "smtp.hostinger.com")
	v.SetDefault(SMTPPort, 465)
	v.SetDefault(SMTPTo, DefaultMailbox)
	v.SetDefault(SMTPSenderName, "Service Egy")
	v.SetDefault(SMTPInsecure, true)
	v.SetDefault(MailTimezone, "Africa/Cairo")
	v.SetDefault(AppLogLevel, int(slog.LevelDebug))
	v.SetDefault(UseOTLP, false)
	v.SetDefault(RedisAddress, "localhost:6379")
	v.SetDefault(SubmitPerMinute, 0)
	v.SetDefault(RateLimitFailOpen, true)
	v.SetDefault(GracefulShutdownSecs, 30)
	v.SetDefault(TrustedProxies, "")

	err := v.ReadInConfig()
	if err != nil {
		// ignore config file not found to allow pure env config
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	err = v.Unmarshal(&config)
	if err != nil {
		return nil, err
	}

	valid := validator.Create()
	err = valid.Validate(&config)
	if err != nil {
		return nil, err
	}

	if _, err = config.Mail.Location(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Allow-list of CORS origins in configured order
func (c *Config) Origins() []string {
	return cors.ParseAllowList(c.AllowedOrigins)
}

// CIDR ranges of trusted reverse proxies, empty when the service faces clients directly
func (c *Config) Proxies() []string {
	proxies := []string{}
	for _, cidr := range strings.Split(c.TrustedProxies, ",") {
		if cidr = strings.TrimSpace(cidr); cidr != "" {
			proxies = append(proxies, cidr)
		}
	}
	return proxies
}

func (c *SMTPConfig) HasCredentials() bool {
	return len(c.MissingCredentials()) == 0
}

// Keys of the credential settings left empty
func (c *SMTPConfig) MissingCredentials() []string {
	missing := []string{}
	if c.User == "" {
		missing = append(missing, SMTPUser)
	}
	if c.Password == "" {
		missing = append(missing, SMTPPassword)
	}
	return missing
}

// Sender the site nominally uses: the explicit override, else the SMTP user, else the shared mailbox
func (c *SMTPConfig) NominalFrom() string {
	if c.From != "" {
		return c.From
	}
	if c.User != "" {
		return c.User
	}
	return DefaultMailbox
}

// Implicit TLS is used on the SMTPS port, STARTTLS everywhere else
func (c *SMTPConfig) ImplicitTLS() bool {
	return c.Port == 465
}

func (c *MailConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid mail timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
