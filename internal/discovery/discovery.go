// Package discovery tracks which storage servers are currently online.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

// Config holds the discovery settings.
type Config struct {
	Mode        string        `default:"static"` // static or kubernetes
	StaticCount int           `split_words:"true" default:"1"`
	Namespace   string        `default:"default"`
	Instance    string        `default:"default"`
	RefreshRate time.Duration `split_words:"true" default:"10s"`
}

// Servers reports the storage servers that are online.
type Servers interface {
	Online() []string
}

// Static is a fixed set of servers, for single-node setups and tests.
type Static []string

func (s Static) Online() []string {
	return s
}

// Kubernetes watches running storage server pods.
type Kubernetes struct {
	config Config
	client kubernetes.Interface

	mu      sync.RWMutex
	servers []string
}

// NewInCluster creates a watcher using the pod's service account.
func NewInCluster(cfg Config) (*Kubernetes, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create in-cluster config: %w", err)
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	return NewKubernetes(cfg, client), nil
}

func NewKubernetes(cfg Config, client kubernetes.Interface) *Kubernetes {
	return &Kubernetes{config: cfg, client: client}
}

// Run refreshes the server list until ctx is done.
func (k *Kubernetes) Run(ctx context.Context) {
	wait.UntilWithContext(ctx, func(ctx context.Context) {
		if err := k.Refresh(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to refresh storage servers", "error", err)
		}
	}, k.config.RefreshRate)
}

// Refresh lists storage server pods once.
func (k *Kubernetes) Refresh(ctx context.Context) error {
	pods, err := k.client.CoreV1().Pods(k.config.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: fmt.Sprintf("app.kubernetes.io/component=tserver,skyload.io/instance=%s", k.config.Instance),
	})
	if err != nil {
		return fmt.Errorf("listing storage server pods: %w", err)
	}

	var servers []string
	for _, pod := range pods.Items {
		if pod.Status.Phase == corev1.PodRunning && pod.Status.PodIP != "" && podReady(pod) {
			servers = append(servers, pod.Status.PodIP)
		}
	}
	sort.Strings(servers)

	k.mu.Lock()
	changed := !slices.Equal(servers, k.servers)
	k.servers = servers
	k.mu.Unlock()

	if changed {
		slog.InfoContext(ctx, "storage servers changed", "count", len(servers), "instance", k.config.Instance)
	}
	return nil
}

func podReady(pod corev1.Pod) bool {
	for _, c := range pod.Status.Conditions {
		if c.Type == corev1.PodReady {
			return c.Status == corev1.ConditionTrue
		}
	}
	return false
}

func (k *Kubernetes) Online() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.servers
}

// New builds the Servers source selected by cfg.Mode. A kubernetes source
// is refreshed in the background until ctx is done.
func New(ctx context.Context, cfg Config) (Servers, error) {
	switch cfg.Mode {
	case "static":
		servers := make(Static, cfg.StaticCount)
		for i := range servers {
			servers[i] = fmt.Sprintf("tserver-%d", i)
		}
		return servers, nil

	case "kubernetes":
		k, err := NewInCluster(cfg)
		if err != nil {
			return nil, err
		}
		go k.Run(ctx)
		return k, nil

	default:
		return nil, fmt.Errorf("unknown discovery mode %q", cfg.Mode)
	}
}
