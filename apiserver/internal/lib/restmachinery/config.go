package restmachinery

import (
	"errors"

	"github.com/cropline/cropline/apiserver/internal/lib/crypto"
	"github.com/kelseyhightower/envconfig"
)

const envconfigPrefix = "API_SERVER"

// Config is an interface for obtaining API server configuration. We use an
// exported interface to govern access to our config because the underlying
// struct has fields we don't want to expose.
type Config interface {
	Port() int
	HashedGatewayToken() string
	TLSEnabled() bool
	TLSCertPath() string
	TLSKeyPath() string
}

type config struct {
	PortAttr               int    `envconfig:"PORT"`
	GatewayTokenAttr       string `envconfig:"GATEWAY_TOKEN" required:"true"`
	HashedGatewayTokenAttr string
	TLSEnabledAttr         bool   `envconfig:"TLS_ENABLED"`
	TLSCertPathAttr        string `envconfig:"TLS_CERT_PATH"`
	TLSKeyPathAttr         string `envconfig:"TLS_KEY_PATH"`
}

// NewConfigWithDefaults returns a Config object with default values already
// applied. Callers are then free to set custom values for the remaining
// fields and/or override default values.
func NewConfigWithDefaults() Config {
	return &config{PortAttr: 8080}
}

// GetConfigFromEnvironment returns configuration derived from environment
// variables
func GetConfigFromEnvironment() (Config, error) {
	c := NewConfigWithDefaults().(*config)
	if err := envconfig.Process(envconfigPrefix, c); err != nil {
		return c, err
	}

	if c.TLSEnabledAttr {
		if c.TLSCertPathAttr == "" {
			return c, errors.New(
				"with TLS enabled, a value is required for the " +
					"TLS_CERT_PATH environment variable",
			)
		}
		if c.TLSKeyPathAttr == "" {
			return c, errors.New(
				"with TLS enabled, a value is required for the " +
					"TLS_KEY_PATH environment variable",
			)
		}
	}

	c.HashedGatewayTokenAttr = crypto.ShortSHA("", c.GatewayTokenAttr)
	// Don't let the unencrypted token float around in memory!
	c.GatewayTokenAttr = ""

	return c, nil
}

func (c *config) Port() int {
	return c.PortAttr
}

func (c *config) HashedGatewayToken() string {
	return c.HashedGatewayTokenAttr
}

func (c *config) TLSEnabled() bool {
	return c.TLSEnabledAttr
}

func (c *config) TLSCertPath() string {
	return c.TLSCertPathAttr
}

func (c *config) TLSKeyPath() string {
	return c.TLSKeyPathAttr
}
