package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends for the table and for uploads.
const (
	BackendFile   = "file"
	BackendBlob   = "blob"
	BackendMemory = "memory"
)

// Config holds the service settings.
type Config struct {
	Addr         string
	Env          string
	Backend      string
	TablePath    string
	UploadDir    string
	UploadPrefix string
	BlobURL      string
	BlobToken    string
	BlobTableKey string
	BlobTimeout  time.Duration
	Currency     string
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8081")
	v.SetDefault("env", "development")
	v.SetDefault("backend", BackendFile)
	v.SetDefault("table_path", "../vista-sot-master.csv")
	v.SetDefault("upload_dir", "public/uploads")
	v.SetDefault("upload_prefix", "uploads")
	v.SetDefault("blob_url", "")
	v.SetDefault("blob_token", "")
	v.SetDefault("blob_table_key", "vista-sot-master.csv")
	v.SetDefault("blob_timeout", "30s")
	v.SetDefault("currency", "USD")
}

// New returns a viper instance reading defaults, the optional config file
// and SOT_* environment variables, in increasing precedence. An empty file
// looks for sot.yaml in the working directory.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("sot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("sot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// FromViper builds a Config from v and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Addr:         v.GetString("addr"),
		Env:          v.GetString("env"),
		Backend:      strings.ToLower(v.GetString("backend")),
		TablePath:    v.GetString("table_path"),
		UploadDir:    v.GetString("upload_dir"),
		UploadPrefix: strings.Trim(v.GetString("upload_prefix"), "/"),
		BlobURL:      v.GetString("blob_url"),
		BlobToken:    v.GetString("blob_token"),
		BlobTableKey: v.GetString("blob_table_key"),
		BlobTimeout:  v.GetDuration("blob_timeout"),
		Currency:     strings.ToUpper(v.GetString("currency")),
	}
	return cfg, cfg.Validate()
}

// Validate checks the backend settings are consistent.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.TablePath == "" {
			return errors.New("table_path is required for the file backend")
		}
	case BackendBlob:
		if c.BlobURL == "" {
			return errors.New("blob_url is required for the blob backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// Production reports whether the service runs in production mode.
func (c Config) Production() bool {
	return c.Env == "production"
}
