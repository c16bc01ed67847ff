package kube

import (
	"errors"
	"fmt"
	"slices"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"

	"github.com/flavono123/peek/internal/value"
)

var ErrNoDiscovery = errors.New("client has no discovery")

// Resources returns the listable resources the server prefers, keyed by
// group version, each entry carrying the resource's kind, scope and
// short names.
func (c *Client) Resources() (*value.Object, error) {
	if c.discovery == nil {
		return nil, ErrNoDiscovery
	}
	lists, err := c.discovery.ServerPreferredResources()
	if err != nil && !discovery.IsGroupDiscoveryFailedError(err) {
		return nil, fmt.Errorf("failed to get server preferred resources: %w", err)
	}
	return resourceTree(lists)
}

func resourceTree(lists []*metav1.APIResourceList) (*value.Object, error) {
	root := value.NewObject()
	for _, list := range lists {
		gv, err := schema.ParseGroupVersion(list.GroupVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to parse group version: %w", err)
		}

		group := value.NewObject()
		for _, r := range list.APIResources {
			if !supportsVerb(r.Verbs, "list") {
				continue
			}
			entry := value.NewObject()
			entry.Set("kind", r.Kind)
			entry.Set("namespaced", r.Namespaced)
			entry.Set("shortNames", r.ShortNames)
			entry.Set("arg", gv.WithResource(r.Name).GroupResource().String())
			group.Set(r.Name, entry)
		}
		if group.Len() > 0 {
			root.Set(gv.String(), group)
		}
	}
	return root, nil
}

func supportsVerb(verbs []string, verb string) bool {
	return verb != "" && slices.Contains(verbs, verb)
}
