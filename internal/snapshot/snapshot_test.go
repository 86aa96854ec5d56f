package snapshot_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/gradebook"
	"bmgrades.app/tracker/internal/snapshot"
)

var _ = Describe("Keys", func() {
	It("namespaces both keys with the prefix", func() {
		Expect(snapshot.DataKey("", 42)).To(Equal("bm-calculator-data:42"))
		Expect(snapshot.SemesterKey("staging:", 42)).To(Equal("staging:currentSemester:42"))
	})
})

var _ = Describe("Decode", func() {
	It("reads a saved state back", func() {
		state := gradebook.New(curriculum.DL)
		state.CurrentSemester = 3
		state.Subjects["Deutsch"] = []gradebook.GradeEntry{{ID: 1, Grade: 5, Weight: 1}}
		state.SemesterGrades["Deutsch"] = map[int]float64{1: 4.5, 2: 5}
		state.ExamGrades["Deutsch"] = 5.5

		data, err := json.Marshal(state)
		Expect(err).NotTo(HaveOccurred())

		got, err := snapshot.Decode(data, "", curriculum.TAL)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(state))
	})

	It("prefers the separate current semester value", func() {
		got, err := snapshot.Decode([]byte(`{"currentSemester":2}`), "4", curriculum.TAL)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.CurrentSemester).To(Equal(4))
	})

	It("ignores an unparseable current semester value", func() {
		got, err := snapshot.Decode([]byte(`{"currentSemester":2}`), "soon", curriculum.TAL)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.CurrentSemester).To(Equal(2))
	})

	It("fills defaults for a partial record", func() {
		got, err := snapshot.Decode([]byte(`{"subjects":{}}`), "", curriculum.TAL)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.BMType).To(Equal(curriculum.TAL))
		Expect(got.CurrentSemester).To(Equal(gradebook.DefaultSemester))
		Expect(got.MaturnoteGoal).To(Equal(gradebook.DefaultMaturnoteGoal))
		Expect(got.SemesterGrades).NotTo(BeNil())
		Expect(got.ExamGrades).NotTo(BeNil())
	})

	It("rejects a record that is not JSON", func() {
		_, err := snapshot.Decode([]byte(`not json`), "", curriculum.TAL)
		Expect(err).To(MatchError(snapshot.ErrCorrupt))
	})
})
