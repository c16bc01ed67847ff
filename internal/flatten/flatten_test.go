package flatten

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/flavono123/peek/internal/value"
)

type ids map[string]bool

func (s ids) Contains(id string) bool { return s[id] }

// hostile lists its children by failing.
type hostile struct {
	n     int
	err   error
	panic bool
}

func (h hostile) TypeTag() value.Tag { return value.TagObject }
func (h hostile) Len() int           { return h.n }
func (h hostile) Entries() ([]value.Entry, error) {
	if h.panic {
		panic("getter exploded")
	}
	return nil, h.err
}

func keysOf(rows []Row) []string {
	keys := make([]string, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys
}

func nested(levels int) any {
	var v any = 1
	for i := 0; i < levels; i++ {
		v = map[string]any{"k": v}
	}
	return v
}

var _ = Describe("Flatten", func() {
	var opts Options

	BeforeEach(func() {
		opts = DefaultOptions()
	})

	It("should emit collapsed children without their subtrees", func() {
		root := value.NewObject()
		root.Set("a", 1)
		b := value.NewObject()
		b.Set("c", 2)
		root.Set("b", b)

		rows := Flatten(root, ids{"root": true}, opts)

		Expect(rows).To(HaveLen(3))
		Expect(rows[0].Key).To(Equal("root"))
		Expect(rows[0].Depth).To(Equal(0))
		Expect(rows[0].Expandable).To(BeTrue())
		Expect(rows[0].Expanded).To(BeTrue())
		Expect(rows[0].ChildCount).To(Equal(2))
		Expect(rows[1].Key).To(Equal("a"))
		Expect(rows[1].Value).To(Equal(1))
		Expect(rows[1].Depth).To(Equal(1))
		Expect(rows[1].Expandable).To(BeFalse())
		Expect(rows[1].ParentID).To(Equal("root"))
		Expect(rows[2].Key).To(Equal("b"))
		Expect(rows[2].Depth).To(Equal(1))
		Expect(rows[2].Expandable).To(BeTrue())
		Expect(rows[2].Expanded).To(BeFalse())
		Expect(rows[2].ChildCount).To(Equal(1))
	})

	It("should emit only the root when nothing is expanded", func() {
		rows := Flatten([]any{1, 2}, None, opts)
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].ChildCount).To(Equal(2))
		Expect(rows[0].HasParent).To(BeFalse())
	})

	It("should key array children by index", func() {
		rows := Flatten([]int{1, 2, 3}, All, opts)
		Expect(keysOf(rows)).To(Equal([]string{"root", "0", "1", "2"}))
		Expect(rows[3].ID).To(Equal("root/2"))
	})

	It("should escape separators in ids", func() {
		rows := Flatten(map[string]any{"a/b": 1, "c~d": 2}, All, opts)
		Expect(rows[1].ID).To(Equal("root/a~1b"))
		Expect(rows[2].ID).To(Equal("root/c~0d"))
		Expect(PathOf(rows[1].ID)).To(Equal([]string{"root", "a/b"}))
	})

	Describe("clashing keys", func() {
		uniqueIDs := func(rows []Row) {
			seen := map[string]bool{}
			for _, r := range rows {
				Expect(seen).NotTo(HaveKey(r.ID))
				seen[r.ID] = true
			}
		}

		It("should keep ids unique when map keys render the same", func() {
			m := value.NewMap()
			m.Set(1, "int")
			m.Set("1", "string")

			rows := Flatten(m, All, opts)

			Expect(keysOf(rows)).To(Equal([]string{"root", "1", "1"}))
			Expect(rows[1].ID).To(Equal("root/1"))
			Expect(rows[2].ID).To(Equal("root/1~21"))
			Expect(PathOf(rows[2].ID)).To(Equal([]string{"root", "1"}))
			uniqueIDs(rows)
		})

		It("should keep ids unique for Go maps with mixed keys", func() {
			rows := Flatten(map[any]any{1: "a", "1": "b", true: "c", "true": "d"}, All, opts)
			Expect(rows).To(HaveLen(5))
			uniqueIDs(rows)
		})

		It("should toggle clashing rows independently", func() {
			m := value.NewMap()
			m.Set(1, []int{1})
			m.Set("1", []int{2})

			rows := Flatten(m, ids{"root": true, "root/1~21": true}, opts)

			Expect(keysOf(rows)).To(Equal([]string{"root", "1", "1", "0"}))
			Expect(rows[1].Expanded).To(BeFalse())
			Expect(rows[2].Expanded).To(BeTrue())
			Expect(rows[3].ParentID).To(Equal("root/1~21"))
		})
	})

	It("should use the configured root key", func() {
		opts.RootKey = "response"
		rows := Flatten(map[string]int{"x": 1}, ids{"response": true}, opts)
		Expect(rows[0].ID).To(Equal("response"))
		Expect(rows[1].ID).To(Equal("response/x"))
	})

	Describe("limits", func() {
		It("should cap children per level", func() {
			root := make([]int, 600)
			rows := Flatten(root, ids{"root": true}, opts)

			Expect(rows[0].ChildCount).To(Equal(500))
			Expect(rows[0].Truncated).To(BeTrue())
			Expect(rows).To(HaveLen(501))
		})

		It("should never raise the cap above the policy maximum", func() {
			opts.ItemsPerLevel = 10000
			rows := Flatten(make([]int, 600), ids{"root": true}, opts)
			Expect(rows[0].ChildCount).To(Equal(500))
		})

		It("should honor a smaller cap", func() {
			opts.ItemsPerLevel = 2
			rows := Flatten([]int{1, 2, 3}, All, opts)
			Expect(rows).To(HaveLen(3))
			Expect(rows[0].ChildCount).To(Equal(2))
		})

		It("should stop at the depth ceiling", func() {
			opts.MaxDepth = 30
			rows := Flatten(nested(22), All, opts)

			Expect(rows).To(HaveLen(16))
			deepest := rows[len(rows)-1]
			Expect(deepest.Depth).To(Equal(15))
			Expect(deepest.DepthLimited).To(BeTrue())
			for _, r := range rows {
				Expect(r.Depth).To(BeNumerically("<=", DepthCeiling))
			}
		})

		It("should stop at a smaller caller depth", func() {
			opts.MaxDepth = 2
			rows := Flatten(nested(5), All, opts)
			Expect(rows).To(HaveLen(3))
			Expect(rows[2].DepthLimited).To(BeTrue())
		})
	})

	Describe("null", func() {
		It("should never expand nil containers", func() {
			var m map[string]any
			var p *value.Object
			rows := Flatten(map[string]any{"m": m, "p": p, "n": nil}, All, opts)

			for _, r := range rows[1:] {
				Expect(r.Tag).To(Equal(value.TagNull))
				Expect(r.Expandable).To(BeFalse())
			}
		})
	})

	Describe("cycles", func() {
		It("should emit a circular sentinel for self references", func() {
			root := value.NewObject()
			root.Set("name", "loop")
			root.Set("self", root)

			rows := Flatten(root, All, opts)

			Expect(keysOf(rows)).To(Equal([]string{"root", "name", "self"}))
			Expect(rows[2].Circular).To(BeTrue())
			Expect(rows[2].Expandable).To(BeFalse())
			Expect(rows[2].ChildCount).To(BeZero())
		})

		It("should not flag shared sub-objects in sibling branches", func() {
			shared := value.NewObject()
			shared.Set("v", 1)
			root := value.NewObject()
			root.Set("left", shared)
			root.Set("right", shared)

			rows := Flatten(root, All, opts)

			Expect(keysOf(rows)).To(Equal([]string{"root", "left", "v", "right", "v"}))
			for _, r := range rows {
				Expect(r.Circular).To(BeFalse())
			}
		})

		It("should detect cycles through Go pointers", func() {
			type node struct {
				Name string
				Next *node
			}
			a := &node{Name: "a"}
			a.Next = &node{Name: "b", Next: a}

			rows := Flatten(a, All, opts)

			last := rows[len(rows)-1]
			Expect(last.ID).To(Equal("root/Next/Next"))
			Expect(last.Circular).To(BeTrue())
		})

		It("should fall back to the depth ceiling when detection is off", func() {
			opts.DetectCycles = false
			root := map[string]any{}
			root["self"] = root

			rows := Flatten(root, All, opts)

			Expect(rows).To(HaveLen(DepthCeiling + 1))
			Expect(rows[len(rows)-1].DepthLimited).To(BeTrue())
		})
	})

	Describe("extraction failures", func() {
		var (
			logs *observer.ObservedLogs
		)

		BeforeEach(func() {
			var core zapcore.Core
			core, logs = observer.New(zapcore.WarnLevel)
			opts.Logger = zap.New(core)
		})

		It("should contain a panicking subtree and keep its siblings", func() {
			root := value.NewObject()
			root.Set("bad", hostile{n: 3, panic: true})
			root.Set("good", []int{7})

			rows := Flatten(root, All, opts)

			Expect(keysOf(rows)).To(Equal([]string{"root", "bad", "good", "0"}))
			Expect(rows[1].ChildCount).To(Equal(3))
			Expect(logs.FilterMessage("skipping children").Len()).To(Equal(1))
		})

		It("should contain an erroring subtree", func() {
			boom := errors.New("boom")
			rows := Flatten([]any{hostile{n: 1, err: boom}, "ok"}, All, opts)

			Expect(keysOf(rows)).To(Equal([]string{"root", "0", "1"}))
			entry := logs.All()[0]
			Expect(entry.ContextMap()["id"]).To(Equal("root/0"))
		})
	})

	Describe("FlattenContext", func() {
		It("should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			rows, err := FlattenContext(ctx, []int{1, 2}, All, opts)
			Expect(err).To(MatchError(context.Canceled))
			Expect(rows).To(BeEmpty())
		})
	})
})

var _ = Describe("walk helpers", func() {
	It("should list every expandable id", func() {
		root := map[string]any{
			"a": map[string]any{"b": []int{1}},
			"c": 1,
		}
		Expect(ExpandableIDs(root, DefaultOptions())).To(Equal([]string{"root", "root/a", "root/a/b"}))
	})

	It("should list direct children", func() {
		Expect(Children([]int{4, 5}, DefaultOptions())).To(Equal([]string{"root/0", "root/1"}))
	})
})
