package standards

import (
	_ "embed"
	"fmt"

	"github.com/hyperengineering/fastplan/internal/types"
	"gopkg.in/yaml.v3"
)

// standardsYAML is the authoritative local reference table: Common Core
// for Mathematics and ELA, NGSS for Science, and the CA History-Social
// Science Framework, grades K-8 plus HS.
//
//go:embed standards.yaml
var standardsYAML []byte

// localTable maps subject -> grade band -> categories. Loaded once at
// package init and treated as immutable afterwards.
var localTable map[Subject]map[string][]types.StandardCategory

func init() {
	var raw struct {
		Mathematics map[string][]types.StandardCategory `yaml:"mathematics"`
		ELA         map[string][]types.StandardCategory `yaml:"ela"`
		Science     map[string][]types.StandardCategory `yaml:"science"`
		History     map[string][]types.StandardCategory `yaml:"history"`
	}
	if err := yaml.Unmarshal(standardsYAML, &raw); err != nil {
		panic(fmt.Sprintf("standards: parse embedded table: %v", err))
	}
	localTable = map[Subject]map[string][]types.StandardCategory{
		SubjectMathematics: raw.Mathematics,
		SubjectELA:         raw.ELA,
		SubjectScience:     raw.Science,
		SubjectHistory:     raw.History,
	}
}

// LocalLookup returns the static table entry for the given raw grade
// and subject, or nil when no local entry exists. Results are value
// copies; callers may not observe mutation by other callers.
func LocalLookup(gradeRaw, subjectRaw string) []types.StandardCategory {
	subject := NormalizeSubject(subjectRaw)
	grades, ok := localTable[subject]
	if !ok {
		return nil
	}
	cats := grades[NormalizeGrade(gradeRaw)]
	if len(cats) == 0 {
		return nil
	}
	out := make([]types.StandardCategory, len(cats))
	for i, c := range cats {
		opts := make([]types.StandardOption, len(c.Standards))
		copy(opts, c.Standards)
		out[i] = types.StandardCategory{Domain: c.Domain, Standards: opts}
	}
	return out
}
