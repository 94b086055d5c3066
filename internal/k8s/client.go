package k8s

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Adding the following variables, so that the code can be tested
var (
	inClusterConfig = rest.InClusterConfig
	loadKubeconfig  = loadKubeconfigFile
	newForConfig    = kubernetes.NewForConfig
)

// Client reads namespaces, secrets and workloads from a cluster. It never writes.
type Client struct {
	ClientSet kubernetes.Interface
}

// NewClient creates a new Kubernetes client. An explicit kubeconfig path wins;
// otherwise it tries the in-cluster config and then $KUBECONFIG or ~/.kube/config.
// kubeContext, when set, overrides the kubeconfig's current context.
func NewClient(kubeconfig, kubeContext string) (*Client, error) {
	var (
		config *rest.Config
		err    error
	)

	if strings.TrimSpace(kubeconfig) != "" {
		config, err = loadKubeconfig(kubeconfig, kubeContext)
	} else {
		config, err = inClusterConfig()
		if err != nil {
			config, err = loadKubeconfig(defaultKubeconfigPath(), kubeContext)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	return NewClientWithConfig(config)
}

// NewClientWithConfig Function to use injected config for testing
func NewClientWithConfig(config *rest.Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("failed to create kubernetes client: config cannot be nil")
	}

	clientset, err := newForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return &Client{ClientSet: clientset}, nil
}

// defaultKubeconfigPath returns the first entry of $KUBECONFIG, or ~/.kube/config.
func defaultKubeconfigPath() string {
	if env := strings.TrimSpace(os.Getenv("KUBECONFIG")); env != "" {
		for _, p := range filepath.SplitList(env) {
			if p = strings.TrimSpace(p); p != "" {
				return p
			}
		}
	}
	return filepath.Join(os.Getenv("HOME"), ".kube", "config")
}

func loadKubeconfigFile(path, kubeContext string) (*rest.Config, error) {
	rules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: path}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("kubeconfig %q: %w", path, err)
	}
	return config, nil
}
