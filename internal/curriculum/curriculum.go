// Package curriculum holds the BM Lektionentafel: which subjects each BM type
// teaches, in which semesters, and which of them are examined at the final
// exam.
package curriculum

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownBMType is returned for a BM type that has no curriculum.
var ErrUnknownBMType = errors.New("unknown BM type")

// BMType identifies a BM curriculum.
type BMType string

const (
	TAL BMType = "TAL"
	DL  BMType = "DL"
)

// ParseBMType accepts a BM type case-insensitively.
func ParseBMType(s string) (BMType, error) {
	switch BMType(strings.ToUpper(strings.TrimSpace(s))) {
	case TAL:
		return TAL, nil
	case DL:
		return DL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBMType, s)
	}
}

// Area is the curriculum area a subject belongs to.
type Area string

const (
	AreaGrundlagen       Area = "grundlagen"
	AreaSchwerpunkt      Area = "schwerpunkt"
	AreaErganzung        Area = "erganzung"
	AreaInterdisziplinar Area = "interdisziplinar"
)

// Canonical subject names.
const (
	Deutsch             = "Deutsch"
	Franzoesisch        = "Französisch"
	Englisch            = "Englisch"
	Mathematik          = "Mathematik"
	Naturwissenschaften = "Naturwissenschaften"
	FinanzRechnung      = "Finanz- und Rechnungswesen"
	WirtschaftRecht     = "Wirtschaft und Recht"
	GeschichtePolitik   = "Geschichte und Politik"
	IDAF                = "Interdisziplinäres Arbeiten in den Fächern"
)

type Subject struct {
	Name      string `json:"name"`
	Area      Area   `json:"area"`
	Semesters []int  `json:"semesters"`
	Examined  bool   `json:"examined"`
}

// TaughtIn reports whether the subject is taught in semester.
func (s Subject) TaughtIn(semester int) bool {
	return slices.Contains(s.Semesters, semester)
}

// Curriculum is the Lektionentafel of one BM type.
type Curriculum struct {
	BMType   BMType    `json:"bm_type"`
	Name     string    `json:"name"`
	Subjects []Subject `json:"subjects"`
	// Semesters is the length of the programme.
	Semesters int `json:"-"`

	index map[string]int
}

// ValidSemester reports whether semester lies within the programme.
func (c *Curriculum) ValidSemester(semester int) bool {
	return semester >= 1 && semester <= c.Semesters
}

// Has reports whether name is a canonical subject of the curriculum.
func (c *Curriculum) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Subject looks up a subject by canonical name.
func (c *Curriculum) Subject(name string) (Subject, bool) {
	i, ok := c.index[name]
	if !ok {
		return Subject{}, false
	}
	return c.Subjects[i], true
}

// SubjectsForSemester returns the subjects taught in semester, in table order.
func (c *Curriculum) SubjectsForSemester(semester int) []Subject {
	var out []Subject
	for _, s := range c.Subjects {
		if s.TaughtIn(semester) {
			out = append(out, s)
		}
	}
	return out
}

// ExamSubjects returns the subjects examined at the final exam.
func (c *Curriculum) ExamSubjects() []Subject {
	var out []Subject
	for _, s := range c.Subjects {
		if s.Examined {
			out = append(out, s)
		}
	}
	return out
}

// Names returns every canonical subject name of the curriculum.
func (c *Curriculum) Names() []string {
	names := make([]string, len(c.Subjects))
	for i, s := range c.Subjects {
		names[i] = s.Name
	}
	return names
}

// PromotionExcluded reports whether subject is left out of the BM1 promotion
// rule. Only IDAF is.
func PromotionExcluded(subject string) bool {
	return subject == IDAF
}

//go:embed lektionentafel.json
var lektionentafel []byte

// Catalog holds the curricula of every BM type.
type Catalog struct {
	Semesters int          `json:"semesters"`
	Curricula []Curriculum `json:"curricula"`

	byType map[BMType]*Curriculum
}

// Load parses the embedded Lektionentafel.
func Load() (*Catalog, error) {
	return parseCatalog(lektionentafel)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decoding lektionentafel: %w", err)
	}
	if cat.Semesters < 1 {
		return nil, fmt.Errorf("lektionentafel: semesters must be positive, got %d", cat.Semesters)
	}

	cat.byType = make(map[BMType]*Curriculum, len(cat.Curricula))
	for i := range cat.Curricula {
		c := &cat.Curricula[i]
		if _, dup := cat.byType[c.BMType]; dup {
			return nil, fmt.Errorf("lektionentafel: duplicate BM type %s", c.BMType)
		}
		c.Semesters = cat.Semesters
		c.index = make(map[string]int, len(c.Subjects))
		for j, s := range c.Subjects {
			if _, dup := c.index[s.Name]; dup {
				return nil, fmt.Errorf("lektionentafel: duplicate subject %q in %s", s.Name, c.BMType)
			}
			for _, sem := range s.Semesters {
				if sem < 1 || sem > cat.Semesters {
					return nil, fmt.Errorf("lektionentafel: %s/%s: semester %d out of range", c.BMType, s.Name, sem)
				}
			}
			c.index[s.Name] = j
		}
		cat.byType[c.BMType] = c
	}
	return &cat, nil
}

// MustLoad is Load for process start-up and tests.
func MustLoad() *Catalog {
	cat, err := Load()
	if err != nil {
		panic(err)
	}
	return cat
}

// Get returns the curriculum for bmType.
func (c *Catalog) Get(bmType BMType) (*Curriculum, error) {
	cur, ok := c.byType[bmType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBMType, bmType)
	}
	return cur, nil
}

// ValidSemester reports whether semester lies within the programme.
func (c *Catalog) ValidSemester(semester int) bool {
	return semester >= 1 && semester <= c.Semesters
}
