package gradebook_test

import (
	"encoding/json"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/gradebook"
)

var _ = Describe("Entry ids on the wire", func() {
	// Above 2^53, so a float64 JSON client would round it.
	const bigID int64 = 2111587468091330561

	It("writes grade and plan ids as strings", func() {
		s := gradebook.New(curriculum.TAL)
		s.Subjects[curriculum.Deutsch] = []gradebook.GradeEntry{{ID: bigID, Grade: 5, Weight: 1}}
		s.SemesterPlans[curriculum.Deutsch] = []gradebook.PlannedControl{{ID: bigID + 1, Grade: 6, Weight: 0.5}}

		b, err := json.Marshal(s)
		Expect(err).NotTo(HaveOccurred())

		var client map[string]any
		Expect(json.Unmarshal(b, &client)).To(Succeed())
		entry := client["subjects"].(map[string]any)[curriculum.Deutsch].([]any)[0].(map[string]any)
		plan := client["semesterPlans"].(map[string]any)[curriculum.Deutsch].([]any)[0].(map[string]any)

		Expect(entry["id"]).To(Equal(strconv.FormatInt(bigID, 10)))
		Expect(entry["grade"]).To(BeNumerically("==", 5))
		Expect(plan["id"]).To(Equal(strconv.FormatInt(bigID+1, 10)))
	})

	It("round-trips through the snapshot format", func() {
		in := gradebook.GradeEntry{ID: bigID, Grade: 4.5, Weight: 2, Name: "Test 1", Source: gradebook.SourceSAL}
		b, err := json.Marshal(in)
		Expect(err).NotTo(HaveOccurred())

		var out gradebook.GradeEntry
		Expect(json.Unmarshal(b, &out)).To(Succeed())
		Expect(out).To(Equal(in))
	})

	It("accepts numeric ids from older snapshots", func() {
		var e gradebook.GradeEntry
		Expect(json.Unmarshal([]byte(`{"id": 1718000000000, "grade": 5, "weight": 1}`), &e)).To(Succeed())
		Expect(e.ID).To(Equal(int64(1718000000000)))

		var p gradebook.PlannedControl
		Expect(json.Unmarshal([]byte(`{"id": "77", "grade": 4, "weight": 1}`), &p)).To(Succeed())
		Expect(p.ID).To(Equal(int64(77)))
	})

	It("rejects ids that are not integers", func() {
		var e gradebook.GradeEntry
		Expect(json.Unmarshal([]byte(`{"id": "abc"}`), &e)).NotTo(Succeed())
	})
})
