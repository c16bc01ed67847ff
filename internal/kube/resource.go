package kube

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
)

var ErrInvalidResource = errors.New("invalid resource")

// Client lists objects of arbitrary resources.
type Client struct {
	context   string
	dynamic   dynamic.Interface
	mapper    meta.RESTMapper
	discovery discovery.DiscoveryInterface
}

// NewClientFor wraps an existing dynamic client. The mapper fills in
// versions for resources given without one and may be nil.
func NewClientFor(dyn dynamic.Interface, mapper meta.RESTMapper) *Client {
	return &Client{dynamic: dyn, mapper: mapper}
}

// Context returns the kubeconfig context this client was built for.
// Empty means the current context.
func (c *Client) Context() string {
	return c.context
}

// ParseGVR parses kubectl style resource arguments: "pods",
// "deployments.apps" or "deployments.v1.apps". The version is left empty
// when the argument does not carry one.
func ParseGVR(arg string) (schema.GroupVersionResource, error) {
	if arg == "" {
		return schema.GroupVersionResource{}, fmt.Errorf("%w: empty", ErrInvalidResource)
	}
	gvr, gr := schema.ParseResourceArg(arg)
	if gvr != nil {
		return *gvr, nil
	}
	return gr.WithVersion(""), nil
}

// Resolve parses arg and fills in the preferred version.
func (c *Client) Resolve(arg string) (schema.GroupVersionResource, error) {
	gvr, err := ParseGVR(arg)
	if err != nil {
		return gvr, err
	}

	if c.mapper != nil {
		candidates := []schema.GroupVersionResource{gvr}
		if gvr.Version != "" {
			// "a.b.c" may also name resource a in group "b.c".
			candidates = append(candidates, schema.ParseGroupResource(arg).WithVersion(""))
		}
		for _, cand := range candidates {
			if full, err := c.mapper.ResourceFor(cand); err == nil {
				return full, nil
			}
		}
	} else if gvr.Version != "" {
		return gvr, nil
	}

	if gvr.Group == "" {
		gvr.Version = "v1"
		return gvr, nil
	}
	return gvr, fmt.Errorf("%w: cannot resolve %q", ErrInvalidResource, arg)
}

// ListObjects lists gvr in namespace, or in every namespace when it is
// empty. Each object's content becomes one element, ordered by namespace
// then name.
func (c *Client) ListObjects(ctx context.Context, gvr schema.GroupVersionResource, namespace string) ([]any, error) {
	list, err := c.dynamic.Resource(gvr).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", gvr.String(), err)
	}
	return objects(list.Items), nil
}

func objects(items []unstructured.Unstructured) []any {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].GetNamespace() != items[j].GetNamespace() {
			return items[i].GetNamespace() < items[j].GetNamespace()
		}
		return items[i].GetName() < items[j].GetName()
	})

	out := make([]any, len(items))
	for i := range items {
		out[i] = items[i].Object
	}
	return out
}

// ListObjects connects to kubeContext, resolves resource and lists it.
func ListObjects(ctx context.Context, kubeContext, resource, namespace string) ([]any, error) {
	c, err := NewClient(kubeContext)
	if err != nil {
		return nil, err
	}
	gvr, err := c.Resolve(resource)
	if err != nil {
		return nil, err
	}
	return c.ListObjects(ctx, gvr, namespace)
}
