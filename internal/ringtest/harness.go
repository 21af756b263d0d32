// Package ringtest discovers and drives a cluster of ringscrape nodes
// running as Docker containers, for integration tests and the ringtest
// load-driver binary. Grounded on the teacher's tester.DockerBootstrap,
// upgraded from shelling out to the docker CLI to the real Docker SDK
// client the teacher's go.mod already declares.
package ringtest

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"

	"ringscrape/internal/domain"
)

// Cluster discovers ringscrape node containers sharing a label and
// network, so a test driver can address them by their container DNS
// name without knowing IPs ahead of time.
type Cluster struct {
	cli      *client.Client
	label    string
	network  string
	httpPort int
}

// Option configures a Cluster at construction time.
type Option func(*Cluster)

// WithHTTPPort overrides the front-door port nodes are addressed on
// (default 8080).
func WithHTTPPort(port int) Option {
	return func(c *Cluster) { c.httpPort = port }
}

// NewCluster connects to the local Docker daemon and prepares to
// discover containers labeled label on network.
func NewCluster(label, network string, opts ...Option) (*Cluster, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("ringtest: connecting to docker: %w", err)
	}
	c := &Cluster{cli: cli, label: label, network: network, httpPort: 8080}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the Docker client connection.
func (c *Cluster) Close() error { return c.cli.Close() }

// Nodes returns the "host:httpPort" front-door address of every running
// container carrying the cluster's label.
func (c *Cluster) Nodes(ctx context.Context) ([]string, error) {
	f := filters.NewArgs(filters.Arg("label", c.label), filters.Arg("status", "running"))
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{Filters: f})
	if err != nil {
		return nil, fmt.Errorf("ringtest: listing containers: %w", err)
	}

	var addrs []string
	for _, ctr := range containers {
		name := strings.TrimPrefix(firstOr(ctr.Names, ctr.ID), "/")
		if name == "" {
			continue
		}
		if c.network != "" {
			if _, ok := ctr.NetworkSettings.Networks[c.network]; !ok {
				continue
			}
		}
		addrs = append(addrs, fmt.Sprintf("%s:%d", name, c.httpPort))
	}
	return addrs, nil
}

func firstOr(names []string, fallback string) string {
	if len(names) > 0 {
		return names[0]
	}
	return fallback
}

// Register and Deregister are no-ops: cluster membership is driven by
// Docker, not by this process announcing itself.
func (c *Cluster) Register(ctx context.Context, node *domain.Node) error   { return nil }
func (c *Cluster) Deregister(ctx context.Context, node *domain.Node) error { return nil }

// Discover satisfies bootstrap.Bootstrap for the rare case a node itself
// wants to join a Docker-discovered cluster rather than LAN multicast or
// a static peer list.
func (c *Cluster) Discover(ctx context.Context) ([]string, error) {
	return c.Nodes(ctx)
}
