package membership

import (
	"github.com/goliatone/go-errors"
	"github.com/ilyakaznacheev/cleanenv"
)

// Options is the file and environment backed configuration. It satisfies
// the Config interface consumed by the authenticator and route guards.
type Options struct {
	SigningKey            string   `yaml:"signing_key" env:"MEMBERSHIP_SIGNING_KEY" env-required:"true"`
	SigningMethod         string   `yaml:"signing_method" env:"MEMBERSHIP_SIGNING_METHOD" env-default:"HS256"`
	ContextKey            string   `yaml:"context_key" env:"MEMBERSHIP_CONTEXT_KEY" env-default:"user"`
	TokenExpiration       int      `yaml:"token_expiration" env:"MEMBERSHIP_TOKEN_EXPIRATION" env-default:"720"`
	ExtendedTokenDuration int      `yaml:"extended_token_duration" env:"MEMBERSHIP_EXTENDED_TOKEN_DURATION" env-default:"0"`
	TokenLookup           string   `yaml:"token_lookup" env:"MEMBERSHIP_TOKEN_LOOKUP" env-default:"header:Authorization,cookie:user"`
	AuthScheme            string   `yaml:"auth_scheme" env:"MEMBERSHIP_AUTH_SCHEME" env-default:"Bearer"`
	Issuer                string   `yaml:"issuer" env:"MEMBERSHIP_ISSUER"`
	Audience              []string `yaml:"audience" env:"MEMBERSHIP_AUDIENCE"`
	RejectedRouteDefault  string   `yaml:"rejected_route_default" env:"MEMBERSHIP_REJECTED_ROUTE_DEFAULT" env-default:"/"`

	SMTP SMTPOptions `yaml:"smtp"`
}

// SMTPOptions configures the mail relay used for transactional email.
type SMTPOptions struct {
	Host     string `yaml:"host" env:"MEMBERSHIP_SMTP_HOST"`
	Port     string `yaml:"port" env:"MEMBERSHIP_SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"MEMBERSHIP_SMTP_USERNAME"`
	Password string `yaml:"password" env:"MEMBERSHIP_SMTP_PASSWORD"`
	From     string `yaml:"from" env:"MEMBERSHIP_SMTP_FROM"`
}

// LoadOptions reads configuration from the given file, with environment
// variables taking precedence.
func LoadOptions(path string) (*Options, error) {
	opts := &Options{}
	if err := cleanenv.ReadConfig(path, opts); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read configuration file").
			WithMetadata(map[string]any{"path": path})
	}
	return opts, nil
}

// LoadOptionsFromEnv reads configuration from environment variables only.
func LoadOptionsFromEnv() (*Options, error) {
	opts := &Options{}
	if err := cleanenv.ReadEnv(opts); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read configuration from environment")
	}
	return opts, nil
}

func (o *Options) GetSigningKey() string {
	return o.SigningKey
}

func (o *Options) GetSigningMethod() string {
	return o.SigningMethod
}

func (o *Options) GetContextKey() string {
	return o.ContextKey
}

func (o *Options) GetTokenExpiration() int {
	return o.TokenExpiration
}

func (o *Options) GetExtendedTokenDuration() int {
	return o.ExtendedTokenDuration
}

func (o *Options) GetTokenLookup() string {
	return o.TokenLookup
}

func (o *Options) GetAuthScheme() string {
	return o.AuthScheme
}

func (o *Options) GetIssuer() string {
	return o.Issuer
}

func (o *Options) GetAudience() []string {
	return o.Audience
}

func (o *Options) GetRejectedRouteDefault() string {
	return o.RejectedRouteDefault
}

var _ Config = (*Options)(nil)
