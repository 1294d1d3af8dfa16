package consul

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/hashicorp/consul/api"

	"github.com/mwantia/fileobj/data"
)

// ConsulFetcher serves 'consul://<key-path>' addresses from the Consul KV store.
//
// Architecture:
// - The address host and path together form the KV key
// - Values are served verbatim as resource content
// - The KV ModifyIndex doubles as the ETag
//
// Limitations:
// - Consul KV has a 512KB limit per value
// - Best suited for configuration files, small fixtures and templates
type ConsulFetcher struct {
	client *api.Client
	kv     *api.KV

	// Configuration
	config *ConsulFetcherConfig
}

// ConsulFetcherConfig contains configuration options for the Consul fetcher
type ConsulFetcherConfig struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string

	// Token for Consul ACL authentication (optional)
	Token string

	// Datacenter to use (optional)
	Datacenter string

	// Namespace for Consul Enterprise (optional)
	Namespace string
}

// NewConsulFetcher creates a Consul KV backed fetcher
func NewConsulFetcher(config *ConsulFetcherConfig) (*ConsulFetcher, error) {
	if config == nil {
		config = &ConsulFetcherConfig{}
	}

	// Set defaults
	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}

	// Create Consul client
	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	if config.Token != "" {
		clientConfig.Token = config.Token
	}
	if config.Datacenter != "" {
		clientConfig.Datacenter = config.Datacenter
	}
	if config.Namespace != "" {
		clientConfig.Namespace = config.Namespace
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	return &ConsulFetcher{
		client: client,
		kv:     client.KV(),
		config: config,
	}, nil
}

// Scheme returns the address scheme handled by this fetcher
func (*ConsulFetcher) Scheme() string {
	return "consul"
}

// Open is part of the lifecycle behaviour and gets called when opening this fetcher
func (cf *ConsulFetcher) Open(ctx context.Context) error {
	// Nothing to initialize - Consul handles connections
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this fetcher
func (cf *ConsulFetcher) Close(ctx context.Context) error {
	// Nothing to clean up - Consul client is stateless
	return nil
}

// Fetch reads the KV value behind the address.
func (cf *ConsulFetcher) Fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	key, err := cf.buildKey(u)
	if err != nil {
		return nil, err
	}

	pair, _, err := cf.kv.Get(key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, fmt.Errorf("%w: consul key '%s'", data.ErrNotExist, key)
	}

	return io.NopCloser(bytes.NewReader(pair.Value)), nil
}

// Head reports KV metadata without copying the value out.
func (cf *ConsulFetcher) Head(ctx context.Context, u *url.URL) (*data.ResourceStat, error) {
	key, err := cf.buildKey(u)
	if err != nil {
		return nil, err
	}

	pair, _, err := cf.kv.Get(key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, fmt.Errorf("%w: consul key '%s'", data.ErrNotExist, key)
	}

	return &data.ResourceStat{
		Key:         key,
		Size:        int64(len(pair.Value)),
		ContentType: data.GetMIMEType(key),
		ETag:        strconv.FormatUint(pair.ModifyIndex, 10),
	}, nil
}

// buildKey constructs the Consul KV key from the address host and path.
func (cf *ConsulFetcher) buildKey(u *url.URL) (string, error) {
	key := strings.TrimPrefix(path.Join(u.Host, u.Path), "/")
	if key == "" {
		return "", fmt.Errorf("%w: consul address '%s' carries no key", data.ErrMalformedAddress, u)
	}

	return key, nil
}
