package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"portal"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address              string `envconfig:"ASSESSMENT_PORTAL_ADDRESS" default:":3443"`
	MetricsAddress       string `envconfig:"ASSESSMENT_PORTAL_METRICS_ADDRESS" default:":8080"`
	BaseUrl              string `envconfig:"ASSESSMENT_PORTAL_BASE_URL" default:"https://localhost:3443"`
	LogLevel             string `envconfig:"ASSESSMENT_PORTAL_LOG_LEVEL" default:"info"`
	CatalogFile          string `envconfig:"ASSESSMENT_PORTAL_CATALOG_FILE" default:""`
	EventsTopic          string `envconfig:"ASSESSMENT_PORTAL_EVENTS_TOPIC" default:"portal.events"`
	ReconcilerInterval   string `envconfig:"ASSESSMENT_PORTAL_RECONCILER_INTERVAL" default:"30s"`
	ObjectStore          objectStoreConfig
	Auth                 Auth
	MigrationFolder      string `envconfig:"ASSESSMENT_PORTAL_MIGRATIONS_FOLDER" default:""`
}

type objectStoreConfig struct {
	Type      string `envconfig:"ASSESSMENT_PORTAL_OBJECT_STORE" default:"memory"`
	Endpoint  string `envconfig:"ASSESSMENT_PORTAL_S3_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"ASSESSMENT_PORTAL_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"ASSESSMENT_PORTAL_S3_SECRET_KEY" default:""`
	Bucket    string `envconfig:"ASSESSMENT_PORTAL_S3_BUCKET" default:"portal-documents"`
	UseSSL    bool   `envconfig:"ASSESSMENT_PORTAL_S3_USE_SSL" default:"false"`
}

type Auth struct {
	AuthenticationType string `envconfig:"ASSESSMENT_PORTAL_AUTH" default:""`
	JwkCertURL         string `envconfig:"ASSESSMENT_PORTAL_JWK_URL" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault builds a config suitable for local development and tests
// without consulting the environment.
func NewDefault() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process("test", c); err != nil {
		return nil, err
	}
	return c, nil
}
