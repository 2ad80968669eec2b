package export

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/c360studio/semrdf/graph"
	"github.com/c360studio/semrdf/vocabulary/rdf"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"
)

// Profile determines which upper-ontology type assertions are added on export.
type Profile string

const (
	// ProfileNone exports the graph unchanged.
	ProfileNone Profile = "none"

	// ProfileMinimal adds PROV-O type assertions.
	ProfileMinimal Profile = "minimal"

	// ProfileBFO adds BFO type assertions plus the minimal profile.
	ProfileBFO Profile = "bfo"

	// ProfileCCO adds CCO type assertions plus the BFO profile.
	ProfileCCO Profile = "cco"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludePROV indicates whether to include PROV-O type assertions.
	IncludePROV bool

	// IncludeBFO indicates whether to include BFO type assertions.
	IncludeBFO bool

	// IncludeCCO indicates whether to include CCO type assertions.
	IncludeCCO bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileNone: {
		Name:        ProfileNone,
		Description: "No alignment, classes as declared by the models",
	},
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "PROV-O type assertions",
		IncludePROV: true,
	},
	ProfileBFO: {
		Name:        ProfileBFO,
		Description: "BFO type assertions plus minimal profile",
		IncludePROV: true,
		IncludeBFO:  true,
	},
	ProfileCCO: {
		Name:        ProfileCCO,
		Description: "Full CCO/BFO/PROV-O alignment",
		IncludePROV: true,
		IncludeBFO:  true,
		IncludeCCO:  true,
	},
}

// ParseProfile parses a profile name. The empty string is ProfileNone.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return ProfileNone, nil
	}
	if _, ok := Profiles[p]; !ok {
		return "", fmt.Errorf("unknown export profile: %s", s)
	}
	return p, nil
}

// ProfileNames returns the profile names in sorted order.
func ProfileNames() []Profile {
	names := make([]Profile, 0, len(Profiles))
	for p := range Profiles {
		names = append(names, p)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// GetProfileConfig returns the configuration for a profile.
// Unknown profiles fall back to ProfileNone.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileNone]
}

// Alignment places a model class in the upper ontologies.
// Empty fields are not asserted.
type Alignment struct {
	PROV string
	BFO  string
	CCO  string
}

var (
	alignmentsMu sync.RWMutex
	alignments   = map[string]Alignment{
		rdf.FOAFPerson:       {PROV: vocabulary.ProvPerson, BFO: bfo.IndependentContinuant, CCO: cco.Person},
		rdf.SDONS + "Person": {PROV: vocabulary.ProvPerson, BFO: bfo.IndependentContinuant, CCO: cco.Person},
		rdf.FOAFNS + "Agent": {PROV: vocabulary.ProvAgent, BFO: bfo.IndependentContinuant},

		rdf.FOAFNS + "Document":     {PROV: vocabulary.ProvEntity, BFO: bfo.GenericallyDependentContinuant, CCO: cco.InformationContentEntity},
		rdf.SDONS + "CreativeWork":  {PROV: vocabulary.ProvEntity, BFO: bfo.GenericallyDependentContinuant, CCO: cco.InformationContentEntity},
		rdf.SDONS + "Book":          {PROV: vocabulary.ProvEntity, BFO: bfo.GenericallyDependentContinuant, CCO: cco.InformationContentEntity},
		rdf.SDONS + "SoftwareSourceCode": {
			PROV: vocabulary.ProvEntity, BFO: bfo.GenericallyDependentContinuant, CCO: cco.SoftwareCode,
		},

		rdf.PROVNS + "Activity": {PROV: vocabulary.ProvActivity, BFO: bfo.Process, CCO: cco.Act},
		rdf.SDONS + "Event":     {PROV: vocabulary.ProvActivity, BFO: bfo.Process, CCO: cco.Act},
		rdf.SDONS + "Action":    {PROV: vocabulary.ProvActivity, BFO: bfo.Process, CCO: cco.Act},
	}
)

// RegisterAlignment aligns a model class IRI. Registering a class again
// replaces its alignment.
func RegisterAlignment(class string, a Alignment) {
	alignmentsMu.Lock()
	defer alignmentsMu.Unlock()
	alignments[class] = a
}

// AlignmentFor returns the alignment registered for a class IRI.
func AlignmentFor(class string) (Alignment, bool) {
	alignmentsMu.RLock()
	defer alignmentsMu.RUnlock()
	a, ok := alignments[class]
	return a, ok
}

// TypeAsserter generates alignment type assertions based on a profile.
type TypeAsserter struct {
	profile ProfileConfig
}

// NewTypeAsserter creates a new type asserter for the given profile.
func NewTypeAsserter(profile Profile) *TypeAsserter {
	return &TypeAsserter{
		profile: GetProfileConfig(profile),
	}
}

// TypeIRIs returns the aligned type IRIs for a class under the profile.
func (t *TypeAsserter) TypeIRIs(class string) []string {
	a, ok := AlignmentFor(class)
	if !ok {
		return nil
	}

	types := make([]string, 0, 3)
	if t.profile.IncludePROV && a.PROV != "" {
		types = append(types, a.PROV)
	}
	if t.profile.IncludeBFO && a.BFO != "" {
		types = append(types, a.BFO)
	}
	if t.profile.IncludeCCO && a.CCO != "" {
		types = append(types, a.CCO)
	}
	return types
}

// Apply adds aligned rdf:type triples for every typed subject in g and
// returns the number of triples added.
func (t *TypeAsserter) Apply(g *graph.Graph) int {
	added := 0
	for _, typ := range g.Match(nil, graph.IRI(rdf.Type), nil) {
		class, ok := typ.Object.(graph.IRI)
		if !ok {
			continue
		}
		for _, iri := range t.TypeIRIs(string(class)) {
			if g.Add(graph.NewTriple(typ.Subject, graph.IRI(rdf.Type), graph.IRI(iri))) {
				added++
			}
		}
	}
	return added
}
