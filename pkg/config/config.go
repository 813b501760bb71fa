package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/adammck/maint/pkg/acl"
	"gopkg.in/yaml.v3"
)

// Config defines the behavior of the tracker daemon. Anything not set in the
// file keeps the value from Default.
type Config struct {

	// Address to serve the gRPC API on.
	ListenAddr string `yaml:"listen_addr"`

	// Address to serve the read-only HTTP API and metrics on. Empty disables
	// it.
	HTTPAddr string `yaml:"http_addr"`

	// The user which requests are attributed to when the caller doesn't say.
	SystemUser string `yaml:"system_user"`

	NodeTracker NodeTracker `yaml:"node_tracker"`
	Discovery   Discovery   `yaml:"discovery"`
	Storage     Storage     `yaml:"storage"`
	ACL         ACL         `yaml:"acl"`
	Consul      Consul      `yaml:"consul"`

	// Nodes and hosts to register at startup, for when there's no discovery.
	Hosts []string     `yaml:"hosts"`
	Nodes []StaticNode `yaml:"nodes"`
}

type NodeTracker struct {

	// When true, writes to the legacy flag attributes (banned, etc) are
	// refused. Can also be flipped at runtime.
	ForbidMaintenanceAttributeWrites bool `yaml:"forbid_maintenance_attribute_writes"`

	// How many nodes a host-wide operation works on at once.
	FanOutParallelism int `yaml:"fan_out_parallelism"`
}

type Discovery struct {
	Backend  string        `yaml:"backend"` // consul or static
	Service  string        `yaml:"service"`
	Interval time.Duration `yaml:"interval"`
}

type Storage struct {
	Backend string `yaml:"backend"` // consul, bunt or memory
	Path    string `yaml:"path"`
	Prefix  string `yaml:"prefix"`
}

type ACL struct {
	Source        string     `yaml:"source"` // static or consul
	Superusers    []string   `yaml:"superusers"`
	DefaultAction acl.Action `yaml:"default_action"`

	// Consul KV key to read the policy from, if Source is consul.
	Key string `yaml:"key"`

	// The policy, if Source is static.
	ACEs []acl.ACE `yaml:"acl"`
}

type Consul struct {
	// Empty means the consul client default (or CONSUL_HTTP_ADDR).
	Address string `yaml:"address"`
}

type StaticNode struct {
	ID   string `yaml:"id"`
	Host string `yaml:"host"`
}

func Default() Config {
	return Config{
		ListenAddr: "localhost:8000",
		HTTPAddr:   "localhost:8001",
		SystemUser: "root",
		NodeTracker: NodeTracker{
			FanOutParallelism: 16,
		},
		Discovery: Discovery{
			Backend:  "consul",
			Service:  "node",
			Interval: 5 * time.Second,
		},
		Storage: Storage{
			Backend: "consul",
			Path:    "maint.db",
			Prefix:  "maintenance",
		},
		ACL: ACL{
			Source:        "static",
			Superusers:    []string{"root"},
			DefaultAction: acl.Allow,
			Key:           "acl/cluster_node",
		},
	}
}

// Load reads the config from a YAML file, over the defaults. Unknown keys are
// an error, to catch typos.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	// An empty file is fine; it just means the defaults.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Discovery.Backend {
	case "consul", "static":
	default:
		return fmt.Errorf("unknown discovery backend: %q", c.Discovery.Backend)
	}

	switch c.Storage.Backend {
	case "consul", "bunt", "memory":
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	switch c.ACL.Source {
	case "static", "consul":
	default:
		return fmt.Errorf("unknown acl source: %q", c.ACL.Source)
	}

	if c.SystemUser == "" {
		return fmt.Errorf("system_user must not be empty")
	}

	if c.NodeTracker.FanOutParallelism < 1 {
		return fmt.Errorf("fan_out_parallelism must be positive, got %d", c.NodeTracker.FanOutParallelism)
	}

	if c.Discovery.Backend == "consul" && c.Discovery.Interval <= 0 {
		return fmt.Errorf("discovery interval must be positive")
	}

	p := c.Policy()
	return p.Validate()
}

// Policy returns the static ACL policy.
func (c *Config) Policy() *acl.Policy {
	return &acl.Policy{
		DefaultAction: c.ACL.DefaultAction,
		ACEs:          c.ACL.ACEs,
	}
}
