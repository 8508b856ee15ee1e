package hook_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var _ = Describe("ToolInput", func() {
	decode := func(doc string) *hook.ToolInput {
		ti := hook.NewToolInput()
		Expect(json.Unmarshal([]byte(doc), ti)).To(Succeed())

		return ti
	}

	It("preserves arrival order of keys", func() {
		ti := decode(`{"zeta": 1, "alpha": "a", "mid": true}`)
		Expect(ti.Keys()).To(Equal([]string{"zeta", "alpha", "mid"}))
	})

	It("serializes strings raw and other values as compact JSON", func() {
		ti := decode(`{"command": "git push", "opts": { "force" : true }, "n": 3}`)
		Expect(ti.Serialize()).To(Equal(`git push {"force":true} 3`))
	})

	It("serializes nested strings with their quotes", func() {
		ti := decode(`{"args": ["rm", "-rf"]}`)
		Expect(ti.Serialize()).To(Equal(`["rm","-rf"]`))
	})

	It("serializes to empty for a nil input", func() {
		var ti *hook.ToolInput
		Expect(ti.Serialize()).To(BeEmpty())
		Expect(ti.Len()).To(BeZero())
	})

	It("marshals back in the same order", func() {
		ti := decode(`{"b": 1, "a": "x"}`)
		data, err := json.Marshal(ti)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"b":1,"a":"x"}`))
	})

	It("builds inputs with Set", func() {
		ti := hook.NewToolInput()
		Expect(ti.Set("file_path", "/tmp/.env")).To(Succeed())
		Expect(ti.Set("limit", 10)).To(Succeed())
		Expect(ti.Set("file_path", "/tmp/other")).To(Succeed())

		Expect(ti.Keys()).To(Equal([]string{"file_path", "limit"}))

		path, ok := ti.String("file_path")
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal("/tmp/other"))

		_, ok = ti.String("limit")
		Expect(ok).To(BeFalse())
	})
})
