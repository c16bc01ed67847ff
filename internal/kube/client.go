package kube

import (
	"fmt"

	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
)

// RESTConfig loads the kubeconfig the way kubectl does and selects
// contextName, or the current context when it is empty.
func RESTConfig(contextName string) (*rest.Config, error) {
	cfg, err := clientConfig(contextName).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("loading kubeconfig: %w", err)
	}
	return cfg, nil
}

// CurrentContext returns the kubeconfig's current context name.
func CurrentContext() (string, error) {
	raw, err := clientConfig("").RawConfig()
	if err != nil {
		return "", fmt.Errorf("loading kubeconfig: %w", err)
	}
	return raw.CurrentContext, nil
}

func clientConfig(contextName string) clientcmd.ClientConfig {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}
	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)
}

// NewClient connects to the cluster behind contextName.
func NewClient(contextName string) (*Client, error) {
	cfg, err := RESTConfig(contextName)
	if err != nil {
		return nil, err
	}

	dyn, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating dynamic client: %w", err)
	}
	disco, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating discovery client: %w", err)
	}

	cached := memory.NewMemCacheClient(disco)
	c := NewClientFor(dyn, restmapper.NewDeferredDiscoveryRESTMapper(cached))
	c.discovery = cached
	c.context = contextName
	return c, nil
}
