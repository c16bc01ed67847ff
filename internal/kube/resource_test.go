package kube

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
)

var podsGVR = schema.GroupVersionResource{Version: "v1", Resource: "pods"}

func pod(namespace, name string) *unstructured.Unstructured {
	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "v1",
			"kind":       "Pod",
			"metadata": map[string]interface{}{
				"name":      name,
				"namespace": namespace,
			},
		},
	}
}

func nameOf(obj any) string {
	u := unstructured.Unstructured{Object: obj.(map[string]interface{})}
	return u.GetNamespace() + "/" + u.GetName()
}

var _ = Describe("ParseGVR", func() {
	DescribeTable("resource arguments",
		func(arg string, want schema.GroupVersionResource) {
			got, err := ParseGVR(arg)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("core resource", "pods", schema.GroupVersionResource{Resource: "pods"}),
		Entry("group resource", "deployments.apps", schema.GroupVersionResource{Group: "apps", Resource: "deployments"}),
		Entry("fully qualified", "deployments.v1.apps", schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}),
	)

	It("should reject an empty argument", func() {
		_, err := ParseGVR("")
		Expect(err).To(MatchError(ErrInvalidResource))
	})
})

var _ = Describe("Client", func() {
	var client *Client

	BeforeEach(func() {
		dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
			runtime.NewScheme(),
			map[schema.GroupVersionResource]string{podsGVR: "PodList"},
			pod("kube-system", "coredns"),
			pod("default", "web-b"),
			pod("default", "web-a"),
		)

		mapper := meta.NewDefaultRESTMapper([]schema.GroupVersion{{Group: "apps", Version: "v1"}})
		mapper.Add(schema.GroupVersionKind{Group: "apps", Version: "v1", Kind: "Deployment"}, meta.RESTScopeNamespace)

		client = NewClientFor(dyn, mapper)
	})

	Describe("ListObjects", func() {
		It("should list every namespace ordered by namespace and name", func() {
			objs, err := client.ListObjects(context.Background(), podsGVR, "")
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, len(objs))
			for i, o := range objs {
				names[i] = nameOf(o)
			}
			Expect(names).To(Equal([]string{"default/web-a", "default/web-b", "kube-system/coredns"}))
		})

		It("should scope to a namespace", func() {
			objs, err := client.ListObjects(context.Background(), podsGVR, "kube-system")
			Expect(err).NotTo(HaveOccurred())
			Expect(objs).To(HaveLen(1))
			Expect(nameOf(objs[0])).To(Equal("kube-system/coredns"))
		})
	})

	Describe("Resolve", func() {
		It("should fill the version from the mapper", func() {
			gvr, err := client.Resolve("deployments.apps")
			Expect(err).NotTo(HaveOccurred())
			Expect(gvr).To(Equal(schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"}))
		})

		It("should default core resources to v1", func() {
			gvr, err := client.Resolve("pods")
			Expect(err).NotTo(HaveOccurred())
			Expect(gvr).To(Equal(podsGVR))
		})

		It("should fail on unknown groups without a version", func() {
			_, err := client.Resolve("widgets.example.com")
			Expect(err).To(MatchError(ErrInvalidResource))
		})

		It("should need discovery to list resources", func() {
			_, err := client.Resources()
			Expect(err).To(MatchError(ErrNoDiscovery))
		})
	})
})
