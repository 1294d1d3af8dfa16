package fileobj

import (
	"net/http"

	"github.com/spf13/afero"

	"github.com/mwantia/fileobj/fetch"
	"github.com/mwantia/fileobj/log"
	"github.com/mwantia/fileobj/resolve"
)

type FactoryOptions struct {
	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool

	FileSystem afero.Fs
	HTTPClient *http.Client
	Fetchers   []fetch.Fetcher
	Roots      []resolve.Root
}

type FactoryOption func(*FactoryOptions) error

func newDefaultFactoryOptions() *FactoryOptions {
	return &FactoryOptions{
		LogLevel: log.Info,
	}
}

func WithLogLevel(logLevel log.LogLevel) FactoryOption {
	return func(opts *FactoryOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() FactoryOption {
	return func(opts *FactoryOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) FactoryOption {
	return func(opts *FactoryOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithFileSystem swaps the filesystem behind the built-in file fetcher.
// Tests use this to serve 'file:' addresses from memory.
func WithFileSystem(fsys afero.Fs) FactoryOption {
	return func(opts *FactoryOptions) error {
		opts.FileSystem = fsys
		return nil
	}
}

// WithHTTPClient swaps the client behind the built-in http fetchers.
func WithHTTPClient(client *http.Client) FactoryOption {
	return func(opts *FactoryOptions) error {
		opts.HTTPClient = client
		return nil
	}
}

// WithFetcher registers an additional fetcher.
// Custom fetchers shadow built-in ones on the same scheme.
func WithFetcher(fetcher fetch.Fetcher) FactoryOption {
	return func(opts *FactoryOptions) error {
		opts.Fetchers = append(opts.Fetchers, fetcher)
		return nil
	}
}

// WithRoot appends a root to the resource search path.
func WithRoot(root resolve.Root) FactoryOption {
	return func(opts *FactoryOptions) error {
		opts.Roots = append(opts.Roots, root)
		return nil
	}
}
