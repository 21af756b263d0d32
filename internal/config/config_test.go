package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			Active:   true,
			Level:    "info",
			Encoding: "console",
			Mode:     "stdout",
		},
		Ring: RingConfig{
			StabilizeInterval:        time.Second,
			FixFingersInterval:       time.Second,
			CheckPredecessorInterval: time.Second,
			FailureTimeout:           time.Second,
		},
		Discovery: DiscoveryConfig{
			BroadcastPort:  9000,
			MulticastGroup: "224.0.0.1",
			MulticastPort:  9001,
			Timeout:        time.Second,
		},
		Bootstrap: BootstrapConfig{
			Mode: "lan",
		},
		Replication: ReplicationConfig{
			Interval: time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret: "secret",
			TokenTTL:  time.Hour,
		},
		Storage: StorageConfig{
			DataDir: "/tmp/ringscrape",
		},
		Node: NodeConfig{
			RPCPort:  7000,
			HTTPPort: 8080,
		},
	}
}

func TestValidConfigPasses(t *testing.T) {
	if err := validConfig().ValidateConfig(); err != nil {
		t.Fatalf("expected a valid config to pass, got: %v", err)
	}
}

func TestValidateConfigRejectsBadLoggerLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for an invalid logger level")
	}
}

func TestValidateConfigRequiresFileLoggerPath(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Mode = "file"
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error when mode=file without a path")
	}
	cfg.Logger.File.Path = "/var/log/ringscrape.log"
	if err := cfg.ValidateConfig(); err != nil {
		t.Fatalf("expected file mode with a path to pass, got: %v", err)
	}
}

func TestValidateConfigRejectsNonMulticastGroup(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.MulticastGroup = "10.0.0.1"
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for a non-multicast discovery group")
	}
}

func TestValidateConfigStaticBootstrapRequiresPeers(t *testing.T) {
	cfg := validConfig()
	cfg.Bootstrap.Mode = "static"
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for mode=static with no peers")
	}
	cfg.Bootstrap.Peers = []string{"not-a-host-port"}
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for a malformed peer address")
	}
	cfg.Bootstrap.Peers = []string{"10.0.0.1:7000"}
	if err := cfg.ValidateConfig(); err != nil {
		t.Fatalf("expected a well-formed peer list to pass, got: %v", err)
	}
}

func TestValidateConfigRoute53RequiresZoneAndSuffix(t *testing.T) {
	cfg := validConfig()
	cfg.Bootstrap.Mode = "route53"
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for mode=route53 missing zone/suffix")
	}
	cfg.Bootstrap.Register.HostedZoneID = "Z123"
	cfg.Bootstrap.Register.DomainSuffix = "ring.example.com"
	if err := cfg.ValidateConfig(); err != nil {
		t.Fatalf("expected route53 with zone and suffix to pass, got: %v", err)
	}
}

func TestValidateConfigRejectsMissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for a missing jwt secret")
	}
}

func TestValidateConfigRejectsPortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Node.HTTPPort = 70000
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for an out-of-range http port")
	}
}

func TestValidateConfigOTLPRequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Tracing.Enabled = true
	cfg.Telemetry.Tracing.Exporter = "otlp"
	if err := cfg.ValidateConfig(); err == nil {
		t.Fatal("expected an error for otlp exporter without an endpoint")
	}
	cfg.Telemetry.Tracing.Endpoint = "collector:4317"
	if err := cfg.ValidateConfig(); err != nil {
		t.Fatalf("expected otlp with an endpoint to pass, got: %v", err)
	}
}

func TestLoadConfigParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := "node:\n  rpcPort: 7000\n  httpPort: 8080\nauth:\n  jwtSecret: s3cret\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Node.RPCPort != 7000 || cfg.Node.HTTPPort != 8080 {
		t.Errorf("Node = %+v, want rpcPort=7000 httpPort=8080", cfg.Node)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("Auth.JWTSecret = %q, want s3cret", cfg.Auth.JWTSecret)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NODE_HOST", "node-a.internal")
	t.Setenv("AUTH_JWT_SECRET", "from-env")
	t.Setenv("BOOTSTRAP_PEERS", "a:1,b:2")

	cfg := &Config{}
	cfg.ApplyEnvOverrides()

	if cfg.Node.Host != "node-a.internal" {
		t.Errorf("Node.Host = %q, want node-a.internal", cfg.Node.Host)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Auth.JWTSecret = %q, want from-env", cfg.Auth.JWTSecret)
	}
	if len(cfg.Bootstrap.Peers) != 2 || cfg.Bootstrap.Peers[0] != "a:1" {
		t.Errorf("Bootstrap.Peers = %v, want [a:1 b:2]", cfg.Bootstrap.Peers)
	}
	if cfg.Node.Bind != "0.0.0.0" {
		t.Errorf("Node.Bind default = %q, want 0.0.0.0", cfg.Node.Bind)
	}
}
