// Package config loads and validates a node's YAML configuration file,
// with environment-variable overrides for deployment-specific fields.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ringscrape/internal/logger"
)

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
	Compress   bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Active   bool             `yaml:"active"`
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"`
	Mode     string           `yaml:"mode"`
	File     FileLoggerConfig `yaml:"file"`
}

// RingConfig holds the intervals that drive the ring's background
// maintenance tasks and the timeout used to declare a peer dead.
type RingConfig struct {
	StabilizeInterval        time.Duration `yaml:"stabilizeInterval"`
	FixFingersInterval       time.Duration `yaml:"fixFingersInterval"`
	CheckPredecessorInterval time.Duration `yaml:"checkPredecessorInterval"`
	FailureTimeout           time.Duration `yaml:"failureTimeout"`
}

// DiscoveryConfig configures the LAN broadcast and multicast peer
// discovery channels (component C1).
type DiscoveryConfig struct {
	BroadcastPort  int           `yaml:"broadcastPort"`
	MulticastGroup string        `yaml:"multicastGroup"`
	MulticastPort  int           `yaml:"multicastPort"`
	Timeout        time.Duration `yaml:"timeout"`
}

type RegisterConfig struct {
	Enabled      bool   `yaml:"enabled"`
	HostedZoneID string `yaml:"hostedZoneId"`
	DomainSuffix string `yaml:"domainSuffix"`
	TTL          int64  `yaml:"ttl"`
}

// BootstrapConfig selects how a new node finds an existing peer to join
// through: "lan" (broadcast/multicast discovery, the default),
// "static" (a fixed peer list) or "route53" (DNS-based discovery against
// a managed hosted zone, for deployments where LAN broadcast is
// filtered).
type BootstrapConfig struct {
	Mode     string         `yaml:"mode"`
	Peers    []string       `yaml:"peers"`
	Register RegisterConfig `yaml:"register"`
}

type ReplicationConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// AuthConfig configures JWT issuance for /login and /authenticate. The
// secret has no default: an operator must set it explicitly.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

type StorageConfig struct {
	DataDir string `yaml:"dataDir"`
}

type NodeConfig struct {
	Id       string `yaml:"id"`
	Bind     string `yaml:"bind"`
	Host     string `yaml:"host"`
	RPCPort  int    `yaml:"rpcPort"`
	HTTPPort int    `yaml:"httpPort"`
}

type Config struct {
	Logger      LoggerConfig      `yaml:"logger"`
	Ring        RingConfig        `yaml:"ring"`
	Discovery   DiscoveryConfig   `yaml:"discovery"`
	Bootstrap   BootstrapConfig   `yaml:"bootstrap"`
	Replication ReplicationConfig `yaml:"replication"`
	Auth        AuthConfig        `yaml:"auth"`
	Storage     StorageConfig     `yaml:"storage"`
	Node        NodeConfig        `yaml:"node"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// LoadConfig reads and parses the YAML configuration file at path. It
// performs only syntactic parsing; call ValidateConfig afterwards.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnvOverrides overrides deployment-specific fields from the
// environment, the way a node's bind address or bootstrap peer list is
// typically injected by an orchestrator rather than baked into the
// config file shipped with the image.
func (cfg *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NODE_ID"); v != "" {
		cfg.Node.Id = v
	}
	if v := os.Getenv("NODE_BIND"); v != "" {
		cfg.Node.Bind = v
	} else if cfg.Node.Bind == "" {
		cfg.Node.Bind = "0.0.0.0"
	}
	if v := os.Getenv("NODE_HOST"); v != "" {
		cfg.Node.Host = v
	}
	if v := os.Getenv("NODE_RPC_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Node.RPCPort = port
		}
	}
	if v := os.Getenv("NODE_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Node.HTTPPort = port
		}
	}

	if v := os.Getenv("BOOTSTRAP_MODE"); v != "" {
		cfg.Bootstrap.Mode = v
	} else if cfg.Bootstrap.Mode == "" {
		cfg.Bootstrap.Mode = "lan"
	}
	if v := os.Getenv("BOOTSTRAP_PEERS"); v != "" {
		cfg.Bootstrap.Peers = strings.Split(v, ",")
	}
	if v := os.Getenv("REGISTER_ENABLED"); v != "" {
		cfg.Bootstrap.Register.Enabled = parseBool(v)
	}
	if v := os.Getenv("REGISTER_ZONE_ID"); v != "" {
		cfg.Bootstrap.Register.HostedZoneID = v
	}
	if v := os.Getenv("REGISTER_SUFFIX"); v != "" {
		cfg.Bootstrap.Register.DomainSuffix = v
	}
	if v := os.Getenv("REGISTER_TTL"); v != "" {
		if ttl, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Bootstrap.Register.TTL = ttl
		}
	}

	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	if v := os.Getenv("TRACE_ENABLED"); v != "" {
		cfg.Telemetry.Tracing.Enabled = parseBool(v)
	}
	if v := os.Getenv("TRACE_EXPORTER"); v != "" {
		cfg.Telemetry.Tracing.Exporter = v
	}
	if v := os.Getenv("TRACE_ENDPOINT"); v != "" {
		cfg.Telemetry.Tracing.Endpoint = v
	}

	if v := os.Getenv("LOGGER_ENABLED"); v != "" {
		cfg.Logger.Active = parseBool(v)
	}
	if v := os.Getenv("LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("LOGGER_ENCODING"); v != "" {
		cfg.Logger.Encoding = v
	}
	if v := os.Getenv("LOGGER_MODE"); v != "" {
		cfg.Logger.Mode = v
	}
	if v := os.Getenv("LOGGER_FILE_PATH"); v != "" {
		cfg.Logger.File.Path = v
	}
}

func parseBool(v string) bool {
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

// ValidateConfig performs structural validation, accumulating every
// problem found into a single error rather than stopping at the first.
func (cfg *Config) ValidateConfig() error {
	var errs []string

	switch cfg.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.level: %s", cfg.Logger.Level))
	}
	switch cfg.Logger.Encoding {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.encoding: %s", cfg.Logger.Encoding))
	}
	switch cfg.Logger.Mode {
	case "stdout":
	case "file":
		if cfg.Logger.File.Path == "" {
			errs = append(errs, "logger.file.path is required when mode=file")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid logger.mode: %s", cfg.Logger.Mode))
	}

	if cfg.Ring.StabilizeInterval <= 0 {
		errs = append(errs, "ring.stabilizeInterval must be > 0")
	}
	if cfg.Ring.FixFingersInterval <= 0 {
		errs = append(errs, "ring.fixFingersInterval must be > 0")
	}
	if cfg.Ring.CheckPredecessorInterval <= 0 {
		errs = append(errs, "ring.checkPredecessorInterval must be > 0")
	}
	if cfg.Ring.FailureTimeout <= 0 {
		errs = append(errs, "ring.failureTimeout must be > 0")
	}

	if cfg.Discovery.BroadcastPort <= 0 {
		errs = append(errs, "discovery.broadcastPort must be > 0")
	}
	if cfg.Discovery.MulticastPort <= 0 {
		errs = append(errs, "discovery.multicastPort must be > 0")
	}
	if cfg.Discovery.MulticastGroup == "" {
		errs = append(errs, "discovery.multicastGroup is required")
	} else if ip := net.ParseIP(cfg.Discovery.MulticastGroup); ip == nil || !ip.IsMulticast() {
		errs = append(errs, fmt.Sprintf("discovery.multicastGroup is not a multicast address: %s", cfg.Discovery.MulticastGroup))
	}
	if cfg.Discovery.Timeout <= 0 {
		errs = append(errs, "discovery.timeout must be > 0")
	}

	switch cfg.Bootstrap.Mode {
	case "lan":
	case "static":
		if len(cfg.Bootstrap.Peers) == 0 {
			errs = append(errs, "bootstrap.peers is required in mode=static")
		}
		for _, p := range cfg.Bootstrap.Peers {
			if _, _, err := net.SplitHostPort(p); err != nil {
				errs = append(errs, fmt.Sprintf("invalid peer address %q in bootstrap.peers: %v", p, err))
			}
		}
	case "route53":
		if cfg.Bootstrap.Register.HostedZoneID == "" {
			errs = append(errs, "bootstrap.register.hostedZoneId is required in mode=route53")
		}
		if cfg.Bootstrap.Register.DomainSuffix == "" {
			errs = append(errs, "bootstrap.register.domainSuffix is required in mode=route53")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid bootstrap.mode: %s (must be lan, static or route53)", cfg.Bootstrap.Mode))
	}

	if cfg.Replication.Interval <= 0 {
		errs = append(errs, "replication.interval must be > 0")
	}

	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, "auth.jwtSecret is required")
	}
	if cfg.Auth.TokenTTL <= 0 {
		errs = append(errs, "auth.tokenTTL must be > 0")
	}

	if cfg.Storage.DataDir == "" {
		errs = append(errs, "storage.dataDir is required")
	}

	if cfg.Node.RPCPort < 0 || cfg.Node.RPCPort > 65535 {
		errs = append(errs, fmt.Sprintf("node.rpcPort must be in [0,65535], got %d", cfg.Node.RPCPort))
	}
	if cfg.Node.HTTPPort < 0 || cfg.Node.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("node.httpPort must be in [0,65535], got %d", cfg.Node.HTTPPort))
	}

	if cfg.Telemetry.Tracing.Enabled {
		switch cfg.Telemetry.Tracing.Exporter {
		case "stdout", "otlp":
		default:
			errs = append(errs, fmt.Sprintf("invalid telemetry.tracing.exporter: %s", cfg.Telemetry.Tracing.Exporter))
		}
		if cfg.Telemetry.Tracing.Exporter == "otlp" && cfg.Telemetry.Tracing.Endpoint == "" {
			errs = append(errs, "telemetry.tracing.endpoint is required for exporter=otlp")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogConfig dumps the loaded configuration at DEBUG level.
func (cfg *Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("loaded configuration",
		logger.F("logger.active", cfg.Logger.Active),
		logger.F("logger.level", cfg.Logger.Level),
		logger.F("logger.encoding", cfg.Logger.Encoding),
		logger.F("logger.mode", cfg.Logger.Mode),

		logger.F("ring.stabilizeInterval", cfg.Ring.StabilizeInterval.String()),
		logger.F("ring.fixFingersInterval", cfg.Ring.FixFingersInterval.String()),
		logger.F("ring.checkPredecessorInterval", cfg.Ring.CheckPredecessorInterval.String()),
		logger.F("ring.failureTimeout", cfg.Ring.FailureTimeout.String()),

		logger.F("discovery.broadcastPort", cfg.Discovery.BroadcastPort),
		logger.F("discovery.multicastGroup", cfg.Discovery.MulticastGroup),
		logger.F("discovery.multicastPort", cfg.Discovery.MulticastPort),
		logger.F("discovery.timeout", cfg.Discovery.Timeout.String()),

		logger.F("bootstrap.mode", cfg.Bootstrap.Mode),
		logger.F("bootstrap.peers", cfg.Bootstrap.Peers),
		logger.F("bootstrap.register.enabled", cfg.Bootstrap.Register.Enabled),

		logger.F("replication.interval", cfg.Replication.Interval.String()),

		logger.F("storage.dataDir", cfg.Storage.DataDir),

		logger.F("node.id", cfg.Node.Id),
		logger.F("node.bind", cfg.Node.Bind),
		logger.F("node.host", cfg.Node.Host),
		logger.F("node.rpcPort", cfg.Node.RPCPort),
		logger.F("node.httpPort", cfg.Node.HTTPPort),

		logger.F("telemetry.tracing.enabled", cfg.Telemetry.Tracing.Enabled),
		logger.F("telemetry.tracing.exporter", cfg.Telemetry.Tracing.Exporter),
		logger.F("telemetry.tracing.endpoint", cfg.Telemetry.Tracing.Endpoint),
	)
}
