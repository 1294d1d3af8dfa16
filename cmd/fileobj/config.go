package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/mwantia/fileobj"
	"github.com/mwantia/fileobj/catalog"
	catalogmemory "github.com/mwantia/fileobj/catalog/memory"
	catalogpostgres "github.com/mwantia/fileobj/catalog/postgres"
	catalogsqlite "github.com/mwantia/fileobj/catalog/sqlite"
	"github.com/mwantia/fileobj/fetch/consul"
	"github.com/mwantia/fileobj/fetch/s3"
	"github.com/mwantia/fileobj/log"
	"github.com/mwantia/fileobj/resolve"
)

const defaultConfigPath = "./fileobj.yaml"

type Config struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	Search   SearchConfig    `yaml:"search"`
	Catalogs []CatalogConfig `yaml:"catalogs"`

	S3     *S3Config     `yaml:"s3"`
	Consul *ConsulConfig `yaml:"consul"`
}

// SearchConfig lists the search path roots in resolution order.
// Remote roots always resolve last.
type SearchConfig struct {
	Dirs     []string `yaml:"dirs"`
	Archives []string `yaml:"archives"`
	Remotes  []string `yaml:"remotes"`
}

type CatalogConfig struct {
	Name   string `yaml:"name"`
	Driver string `yaml:"driver"`
	Dsn    string `yaml:"dsn"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSsl    bool   `yaml:"use_ssl"`
}

type ConsulConfig struct {
	Address    string `yaml:"address"`
	Token      string `yaml:"token"`
	Datacenter string `yaml:"datacenter"`
}

// LoadConfig reads a yaml configuration file.
// A missing file at the default path yields an empty configuration, while a
// missing explicit path is an error.
func LoadConfig(fsys afero.Fs, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		if explicit {
			return nil, fmt.Errorf("config file '%s' not found", path)
		}
		return &Config{}, nil
	}

	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("unable to read '%s': %w", path, err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, fmt.Errorf("unable to parse '%s': %w", path, err)
	}

	return config, nil
}

// BuildFactory assembles a file object factory from the configuration.
func BuildFactory(config *Config, noTerminalLog bool) (*fileobj.Factory, error) {
	opts := []fileobj.FactoryOption{}

	if config.LogLevel != "" {
		opts = append(opts, fileobj.WithLogLevel(log.Parse(config.LogLevel)))
	}
	if config.LogFile != "" {
		opts = append(opts, fileobj.WithLogFile(config.LogFile))
	}
	if noTerminalLog {
		opts = append(opts, fileobj.WithoutTerminalLog())
	}

	if config.S3 != nil {
		fetcher, err := s3.NewS3Fetcher(config.S3.Endpoint, config.S3.AccessKey, config.S3.SecretKey, config.S3.UseSsl)
		if err != nil {
			return nil, fmt.Errorf("s3 fetcher: %w", err)
		}
		opts = append(opts, fileobj.WithFetcher(fetcher))
	}

	if config.Consul != nil {
		fetcher, err := consul.NewConsulFetcher(&consul.ConsulFetcherConfig{
			Address:    config.Consul.Address,
			Token:      config.Consul.Token,
			Datacenter: config.Consul.Datacenter,
		})
		if err != nil {
			return nil, fmt.Errorf("consul fetcher: %w", err)
		}
		opts = append(opts, fileobj.WithFetcher(fetcher))
	}

	catalogs := make([]catalog.Catalog, 0, len(config.Catalogs))
	for _, cc := range config.Catalogs {
		cat, err := buildCatalog(cc)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, cat)
	}
	if len(catalogs) > 0 {
		opts = append(opts, fileobj.WithFetcher(catalog.NewFetcher(catalogs...)))
	}

	// Search path order: directories, archives, catalogs, then remotes
	for _, dir := range config.Search.Dirs {
		opts = append(opts, fileobj.WithRoot(resolve.NewDirRoot(nil, dir)))
	}
	for _, archive := range config.Search.Archives {
		opts = append(opts, fileobj.WithRoot(resolve.NewArchiveRoot(nil, archive)))
	}
	for _, cat := range catalogs {
		opts = append(opts, fileobj.WithRoot(catalog.NewRoot(cat)))
	}

	factory, err := fileobj.NewFactory(opts...)
	if err != nil {
		return nil, err
	}

	// Remote roots need the registry, so they attach after construction
	for _, remote := range config.Search.Remotes {
		base, err := url.Parse(remote)
		if err != nil {
			return nil, fmt.Errorf("remote root '%s': %w", remote, err)
		}
		factory.Resolver().AddRoot(resolve.NewRemoteRoot(factory.Registry(), base))
	}

	return factory, nil
}

func buildCatalog(config CatalogConfig) (catalog.Catalog, error) {
	switch config.Driver {
	case "memory":
		return catalogmemory.NewMemoryCatalog(config.Name), nil
	case "sqlite":
		return catalogsqlite.NewSQLiteCatalog(config.Name, config.Dsn)
	case "postgres":
		return catalogpostgres.NewPostgresCatalog(config.Name, config.Dsn)
	default:
		return nil, fmt.Errorf("unknown catalog driver: '%s'", config.Driver)
	}
}
