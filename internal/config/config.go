package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	EngineMongo    = "mongo"
	EnginePostgres = "postgres"
	EngineMemory   = "memory"

	DriverPGX  = "pgx"
	DriverSQL  = "sql"
	DriverSQLX = "sqlx"

	LogFormatText = "text"
	LogFormatJSON = "json"

	envPrefix = "DOCQUERY"
)

var (
	ErrUnknownEngine    = errors.New("unknown engine")
	ErrUnknownDriver    = errors.New("unknown postgres driver")
	ErrUnknownLogFormat = errors.New("unknown log format")
	ErrMissingSetting   = errors.New("missing setting")
)

// Config is the complete configuration of the docquery binary.
type Config struct {
	Engine     string          `mapstructure:"engine"`
	Collection string          `mapstructure:"collection"`
	Mongo      MongoConfig     `mapstructure:"mongo"`
	Postgres   PostgresConfig  `mapstructure:"postgres"`
	Memory     MemoryConfig    `mapstructure:"memory"`
	HTTP       HTTPConfig      `mapstructure:"http"`
	Log        LogConfig       `mapstructure:"log"`
	Normalize  NormalizeConfig `mapstructure:"normalize"`
	Parser     ParserConfig    `mapstructure:"parser"`
}

// MongoConfig holds the connection settings of the mongo engine.
// Username and Password are optional; without them the connection is unauthenticated.
type MongoConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Database   string `mapstructure:"database"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	AuthSource string `mapstructure:"auth_source"`
}

type PostgresConfig struct {
	DSN    string `mapstructure:"dsn"`
	Driver string `mapstructure:"driver"`
	Table  string `mapstructure:"table"`
	Column string `mapstructure:"column"`
}

// MemoryConfig optionally names a file of documents, one literal per line,
// the memory engine starts with.
type MemoryConfig struct {
	Seed string `mapstructure:"seed"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// NormalizeConfig lists the fields rendered through the normalizer and the
// IANA zone they are rendered in. An empty Timezone means the local zone.
type NormalizeConfig struct {
	Fields   []string `mapstructure:"fields"`
	Timezone string   `mapstructure:"timezone"`
}

// ParserConfig switches the argument extraction of the parser to balanced parentheses.
type ParserConfig struct {
	Balanced bool `mapstructure:"balanced"`
}

// Load reads the configuration. path may be empty, in which case only defaults and
// the environment are used. Environment variables win over the file, e.g.
// DOCQUERY_MONGO_HOST overrides mongo.host.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Normalize.Fields = splitFields(cfg.Normalize.Fields)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings the selected engine depends on.
func (c Config) Validate() error {
	var errs []error

	switch c.Engine {
	case EngineMongo:
		if c.Mongo.Host == "" {
			errs = append(errs, fmt.Errorf("%w: mongo.host", ErrMissingSetting))
		}

		if c.Mongo.Database == "" {
			errs = append(errs, fmt.Errorf("%w: mongo.database", ErrMissingSetting))
		}

	case EnginePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, fmt.Errorf("%w: postgres.dsn", ErrMissingSetting))
		}

		switch c.Postgres.Driver {
		case DriverPGX, DriverSQL, DriverSQLX:
		default:
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Postgres.Driver))
		}

	case EngineMemory:

	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownEngine, c.Engine))
	}

	if c.Collection == "" {
		errs = append(errs, fmt.Errorf("%w: collection", ErrMissingSetting))
	}

	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownLogFormat, c.Log.Format))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", EngineMongo)
	v.SetDefault("collection", "alarm_info")
	v.SetDefault("mongo.host", "localhost")
	v.SetDefault("mongo.port", 27017)
	v.SetDefault("mongo.database", "alarms")
	v.SetDefault("mongo.username", "")
	v.SetDefault("mongo.password", "")
	v.SetDefault("mongo.auth_source", "admin")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.driver", DriverPGX)
	v.SetDefault("postgres.table", "alarm_info")
	v.SetDefault("postgres.column", "doc")
	v.SetDefault("memory.seed", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatText)
	v.SetDefault("normalize.fields", []string{})
	v.SetDefault("normalize.timezone", "")
	v.SetDefault("parser.balanced", false)
}

// splitFields accepts both a YAML list and a comma separated environment value.
func splitFields(fields []string) []string {
	out := make([]string, 0, len(fields))

	for _, f := range fields {
		for _, part := range strings.Split(f, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}
