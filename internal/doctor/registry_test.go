package doctor_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/internal/doctor"
)

// stubChecker is a minimal HealthChecker for testing.
type stubChecker struct {
	name     string
	category doctor.Category
	result   func(name string) doctor.CheckResult
}

func (s *stubChecker) Name() string              { return s.name }
func (s *stubChecker) Category() doctor.Category { return s.category }

func (s *stubChecker) Check(_ context.Context) doctor.CheckResult {
	if s.result != nil {
		return s.result(s.name)
	}

	return doctor.Pass(s.name, "ok")
}

var _ = Describe("Registry", func() {
	var registry *doctor.Registry

	BeforeEach(func() {
		registry = doctor.NewRegistry()
		registry.RegisterChecker(&stubChecker{name: "global", category: doctor.CategoryConfig})
		registry.RegisterChecker(&stubChecker{name: "project", category: doctor.CategoryConfig})
		registry.RegisterChecker(&stubChecker{name: "port", category: doctor.CategoryDaemon})
		registry.RegisterChecker(&stubChecker{name: "dir", category: doctor.CategoryState})
	})

	It("counts checkers", func() {
		Expect(registry.CheckerCount()).To(Equal(4))
	})

	Describe("CheckersForCategories", func() {
		It("returns checkers for specified categories", func() {
			checkers := registry.CheckersForCategories([]doctor.Category{doctor.CategoryConfig})
			Expect(checkers).To(HaveLen(2))

			for _, c := range checkers {
				Expect(c.Category()).To(Equal(doctor.CategoryConfig))
			}
		})

		It("returns all checkers when categories is empty", func() {
			Expect(registry.CheckersForCategories(nil)).To(HaveLen(4))
		})

		It("returns empty slice for unknown category", func() {
			Expect(registry.CheckersForCategories([]doctor.Category{"nonexistent"})).To(BeEmpty())
		})
	})

	Describe("Run", func() {
		It("keeps registration order and stamps categories", func() {
			results := registry.Run(context.Background(), nil)
			Expect(results).To(HaveLen(4))

			names := make([]string, 0, len(results))
			for _, r := range results {
				names = append(names, r.Name)
			}

			Expect(names).To(Equal([]string{"global", "project", "port", "dir"}))
			Expect(results[2].Category).To(Equal(doctor.CategoryDaemon))
		})
	})
})
