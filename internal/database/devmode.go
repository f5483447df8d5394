package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresPort = nat.Port("5432/tcp")

// DevContainer is the local Postgres started in dev mode. Its data lives in
// a named volume so metadata survives restarts.
type DevContainer struct {
	Image   string
	Name    string
	Network string
	Volume  string
}

var DefaultDevContainer = DevContainer{
	Image:   "postgres:16",
	Name:    "skyload-db",
	Network: "skyload-bridge",
	Volume:  "skyload_data",
}

// StartPostgresContainer starts DefaultDevContainer to serve dbURL.
func StartPostgresContainer(ctx context.Context, dbURL string) error {
	return DefaultDevContainer.Start(ctx, dbURL)
}

type devTarget struct {
	user, password string
	host, port     string
	dbName         string
}

func parseDevURL(dbURL string) (devTarget, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return devTarget{}, fmt.Errorf("parsing URL: %w", err)
	}

	t := devTarget{
		user:   u.User.Username(),
		dbName: strings.TrimPrefix(u.Path, "/"),
	}
	t.password, _ = u.User.Password()

	t.host, t.port, err = net.SplitHostPort(u.Host)
	if err != nil {
		t.host, t.port = u.Host, ""
	}
	return t, nil
}

// Start is a no-op when dbURL already answers. Otherwise it creates (or
// reuses) the container and waits for Postgres to accept connections.
func (d DevContainer) Start(ctx context.Context, dbURL string) error {
	target, err := parseDevURL(dbURL)
	if err != nil {
		return err
	}

	if waitReady(ctx, dbURL, 1) == nil {
		return nil
	}

	slog.DebugContext(ctx, "starting dev Postgres", "container", d.Name, "host", target.host, "port", target.port, "db", target.dbName)

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("creating Docker client: %w", err)
	}
	defer cli.Close()

	if err := d.pull(ctx, cli, os.Stdout); err != nil {
		return err
	}

	if _, err := cli.NetworkCreate(ctx, d.Network, network.CreateOptions{Driver: "bridge"}); err != nil && !errdefs.IsConflict(err) {
		return fmt.Errorf("creating network %s: %w", d.Network, err)
	}

	id, err := d.create(ctx, cli, target)
	if err != nil {
		return err
	}

	if err := cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("starting container %s: %w", d.Name, err)
	}

	if err := waitReady(ctx, dbURL, 30); err != nil {
		return fmt.Errorf("waiting for %s: %w", d.Name, err)
	}
	return nil
}

func (d DevContainer) pull(ctx context.Context, cli *client.Client, out *os.File) error {
	reader, err := cli.ImagePull(ctx, d.Image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pulling %s: %w", d.Image, err)
	}
	defer reader.Close()

	if err := jsonmessage.DisplayJSONMessagesStream(reader, out, out.Fd(), true, nil); err != nil && err != io.EOF {
		return fmt.Errorf("pulling %s: %w", d.Image, err)
	}
	return nil
}

// create returns the ID of a new container, or of the existing one with the
// same name.
func (d DevContainer) create(ctx context.Context, cli *client.Client, t devTarget) (string, error) {
	cfg := &container.Config{
		Image: d.Image,
		Env: []string{
			"POSTGRES_USER=" + t.user,
			"POSTGRES_PASSWORD=" + t.password,
			"POSTGRES_DB=" + t.dbName,
		},
		ExposedPorts: nat.PortSet{postgresPort: struct{}{}},
	}

	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			postgresPort: {{HostIP: t.host, HostPort: t.port}},
		},
		Mounts: []mount.Mount{{
			Type:   mount.TypeVolume,
			Source: d.Volume,
			Target: "/var/lib/postgresql/data",
		}},
	}

	netCfg := &network.NetworkingConfig{
		EndpointsConfig: map[string]*network.EndpointSettings{d.Network: {}},
	}

	resp, err := cli.ContainerCreate(ctx, cfg, hostCfg, netCfg, nil, d.Name)
	if err == nil {
		return resp.ID, nil
	}
	if !errdefs.IsConflict(err) {
		return "", fmt.Errorf("creating container %s: %w", d.Name, err)
	}

	existing, err := cli.ContainerInspect(ctx, d.Name)
	if err != nil {
		return "", fmt.Errorf("inspecting container %s: %w", d.Name, err)
	}
	return existing.ID, nil
}

// waitReady pings dbURL up to attempts times, doubling the wait between
// attempts up to five seconds.
func waitReady(ctx context.Context, dbURL string, attempts int) error {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("creating connection pool: %w", err)
	}
	defer pool.Close()

	backoff := 100 * time.Millisecond
	for i := range attempts {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		slog.InfoContext(ctx, "Postgres is not ready, retrying", "backoff", backoff, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, 5*time.Second)
	}

	return fmt.Errorf("postgres not ready after %d attempts: %w", attempts, err)
}
