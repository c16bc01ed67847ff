package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flavono123/peek/internal/value"
)

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("DecodeJSON", func() {
	It("should keep object key order", func() {
		v, err := DecodeJSON([]byte(`{"z": 1, "a": {"y": true, "b": null}}`))
		Expect(err).NotTo(HaveOccurred())

		obj, ok := v.(*value.Object)
		Expect(ok).To(BeTrue())
		Expect(obj.Keys()).To(Equal([]string{"z", "a"}))

		inner, _ := obj.Get("a")
		Expect(inner.(*value.Object).Keys()).To(Equal([]string{"y", "b"}))
		Expect(value.Classify(mustGet(obj, "z"))).To(Equal(value.TagNumber))
	})

	It("should decode arrays", func() {
		v, err := DecodeJSON([]byte(`["a", [], {}]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(HaveLen(3))
		Expect(v.([]any)[1]).To(BeEmpty())
	})

	It("should turn json lines into an array", func() {
		v, err := DecodeJSON([]byte("{\"n\":1}\n{\"n\":2}\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(HaveLen(2))
	})

	It("should reject empty input", func() {
		_, err := DecodeJSON([]byte("  \n"))
		Expect(err).To(MatchError(ErrEmptyDocument))
	})

	It("should reject malformed input", func() {
		_, err := DecodeJSON([]byte(`{"a": }`))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("DecodeYAML", func() {
	It("should keep mapping order", func() {
		v, err := DecodeYAML([]byte("kind: Pod\napiVersion: v1\nmetadata:\n  name: web\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(v.(*value.Object).Keys()).To(Equal([]string{"kind", "apiVersion", "metadata"}))
	})

	It("should decode scalars", func() {
		v, err := DecodeYAML([]byte("n: 3\nf: 1.5\nb: true\nz: null\ns: text\n"))
		Expect(err).NotTo(HaveOccurred())
		obj := v.(*value.Object)
		Expect(mustGet(obj, "n")).To(Equal(3))
		Expect(mustGet(obj, "f")).To(Equal(1.5))
		Expect(mustGet(obj, "b")).To(Equal(true))
		Expect(mustGet(obj, "z")).To(BeNil())
		Expect(mustGet(obj, "s")).To(Equal("text"))
	})

	It("should turn several documents into an array", func() {
		v, err := DecodeYAML([]byte("a: 1\n---\nb: 2\n---\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(HaveLen(2))
	})

	It("should share anchored values", func() {
		v, err := DecodeYAML([]byte("base: &b\n  k: 1\ncopy: *b\n"))
		Expect(err).NotTo(HaveOccurred())
		obj := v.(*value.Object)
		Expect(mustGet(obj, "copy")).To(BeIdenticalTo(mustGet(obj, "base")))
	})

	It("should keep keys that only differ by type", func() {
		v, err := DecodeYAML([]byte("1: int\n\"1\": string\nb: other\n"))
		Expect(err).NotTo(HaveOccurred())

		m, ok := v.(*value.Map)
		Expect(ok).To(BeTrue())
		Expect(m.Len()).To(Equal(3))
		byInt, _ := m.Get(1)
		byString, _ := m.Get("1")
		Expect(byInt).To(Equal("int"))
		Expect(byString).To(Equal("string"))
	})

	It("should reject empty input", func() {
		_, err := DecodeYAML([]byte("# only a comment\n"))
		Expect(err).To(MatchError(ErrEmptyDocument))
	})
})

var _ = Describe("Query", func() {
	It("should select a nested value", func() {
		raw, err := Query([]byte(`{"items":[{"name":"a"},{"name":"b"}]}`), "items.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal(`{"name":"b"}`))
	})

	It("should report a missing path", func() {
		_, err := Query([]byte(`{"a":1}`), "b")
		Expect(err).To(MatchError(ErrNoMatch))
	})

	It("should reject invalid json", func() {
		_, err := Query([]byte(`{`), "a")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadFile", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should pick the decoder by extension", func() {
		v, err := LoadFile(writeFile(dir, "a.yml", "x: 1\n"), LoadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(mustGet(v.(*value.Object), "x")).To(Equal(1))
	})

	It("should sniff unknown extensions", func() {
		v, err := LoadFile(writeFile(dir, "data.txt", `[1, 2]`), LoadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(HaveLen(2))
	})

	It("should apply a query", func() {
		path := writeFile(dir, "a.json", `{"spec":{"replicas":3,"paused":false}}`)
		v, err := LoadFile(path, LoadOptions{Query: "spec"})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.(*value.Object).Keys()).To(Equal([]string{"replicas", "paused"}))
	})

	It("should refuse queries on yaml", func() {
		_, err := LoadFile(writeFile(dir, "a.yaml", "a: 1\n"), LoadOptions{Query: "a"})
		Expect(err).To(MatchError(ErrUnsupportedFormat))
	})

	It("should name the file in errors", func() {
		_, err := LoadFile(filepath.Join(dir, "missing.json"), LoadOptions{})
		Expect(err).To(MatchError(ContainSubstring("missing.json")))
	})

	It("should load several files in argument order", func() {
		b := writeFile(dir, "b.json", `{"n":"b"}`)
		a := writeFile(dir, "a.yaml", "n: a\n")

		v, err := LoadFiles(context.Background(), []string{b, a}, LoadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(v.(*value.Object).Keys()).To(Equal([]string{b, a}))
	})

	It("should fail when any file fails", func() {
		a := writeFile(dir, "a.json", `{}`)
		_, err := LoadFiles(context.Background(), []string{a, filepath.Join(dir, "nope.json")}, LoadOptions{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadSQLite", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "state.db")
		db, err := sql.Open("sqlite", path)
		Expect(err).NotTo(HaveOccurred())
		defer db.Close()

		_, err = db.Exec(`
			CREATE TABLE kv (key TEXT, value TEXT);
			INSERT INTO kv VALUES ('plain', 'hello'), ('doc', '{"b":1,"a":[true]}');
			CREATE TABLE empty (id INTEGER);
		`)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should read rows as objects and decode json cells", func() {
		v, err := LoadSQLite(context.Background(), path, "kv", 0)
		Expect(err).NotTo(HaveOccurred())

		rows := v.([]any)
		Expect(rows).To(HaveLen(2))
		first := rows[0].(*value.Object)
		Expect(first.Keys()).To(Equal([]string{"key", "value"}))
		Expect(mustGet(first, "value")).To(Equal("hello"))

		doc := mustGet(rows[1].(*value.Object), "value")
		Expect(doc.(*value.Object).Keys()).To(Equal([]string{"b", "a"}))
	})

	It("should honor the row limit", func() {
		v, err := LoadSQLite(context.Background(), path, "kv", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(HaveLen(1))
	})

	It("should read every table without a table name", func() {
		v, err := LoadSQLite(context.Background(), path, "", 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.(*value.Object).Keys()).To(Equal([]string{"empty", "kv"}))
	})

	It("should fail on an unknown table", func() {
		_, err := LoadSQLite(context.Background(), path, "nope", 0)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Environ", func() {
	It("should keep prefixed variables in name order", func() {
		GinkgoT().Setenv("PEEKTEST_B", "2")
		GinkgoT().Setenv("PEEKTEST_A", "1")

		obj := Environ("PEEKTEST_")
		Expect(obj.Keys()).To(Equal([]string{"PEEKTEST_A", "PEEKTEST_B"}))
		Expect(mustGet(obj, "PEEKTEST_A")).To(Equal("1"))
	})
})

func mustGet(obj *value.Object, key string) any {
	v, ok := obj.Get(key)
	Expect(ok).To(BeTrue(), "missing key %q", key)
	return v
}
