package ingest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dune-ce/cets/domain/hardware"
)

// TestIntent is a test record staged for insertion. The owner is named by
// natural key; the applier resolves it to a database ID inside the apply
// transaction, after any owner creation.
type TestIntent struct {
	Assembly       *hardware.AssemblyKey
	Component      *ComponentKey
	Timestamp      time.Time
	TestType       hardware.TestType
	TestEnv        hardware.TestEnv
	Site           string
	ReportFilename string
	Result         hardware.Result
}

// Mount stages the attachment of a component to an assembly at a position.
type Mount struct {
	Component ComponentKey
	Assembly  hardware.AssemblyKey
	Position  string
}

// ComponentUpdate stages a field update on an existing component.
type ComponentUpdate struct {
	Component hardware.Component
	// Fields names the columns to write, bulk-update style.
	Fields []string
}

// Skip records one input that was not ingested, with the reason shown to
// the operator. Skips never abort a run.
type Skip struct {
	Path   string
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s", s.Path, s.Reason)
}

// Plan is the output of the reconciliation planner: the disjoint sets of
// creates and updates for one run, plus every skip. Entity creates are
// deduplicated by natural key as they are added; last-observed values win
// for auxiliary fields.
type Plan struct {
	assemblies     map[hardware.AssemblyKey]hardware.Assembly
	assemblyOrder  []hardware.AssemblyKey
	components     map[ComponentKey]hardware.Component
	componentOrder []ComponentKey
	mounts         []Mount
	updates        []ComponentUpdate
	tests          []TestIntent
	skips          []Skip
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{
		assemblies: make(map[hardware.AssemblyKey]hardware.Assembly),
		components: make(map[ComponentKey]hardware.Component),
	}
}

// AddAssembly stages an assembly create, deduplicated by natural key.
func (p *Plan) AddAssembly(a hardware.Assembly) {
	key := a.Key()
	if _, seen := p.assemblies[key]; !seen {
		p.assemblyOrder = append(p.assemblyOrder, key)
	}
	p.assemblies[key] = a
}

// AddComponent stages a component create, deduplicated by natural key.
func (p *Plan) AddComponent(c hardware.Component) {
	key := ComponentKey{Kind: c.Kind(), SerialNumber: c.SerialNumber()}
	if _, seen := p.components[key]; !seen {
		p.componentOrder = append(p.componentOrder, key)
	}
	p.components[key] = c
}

// AddMount stages a component attachment.
func (p *Plan) AddMount(m Mount) {
	p.mounts = append(p.mounts, m)
}

// AddUpdate stages a field update on an existing component.
func (p *Plan) AddUpdate(u ComponentUpdate) {
	p.updates = append(p.updates, u)
}

// AddTest stages a test record insert.
func (p *Plan) AddTest(t TestIntent) {
	p.tests = append(p.tests, t)
}

// AddSkip records a skipped input with its reason.
func (p *Plan) AddSkip(path, reason string) {
	p.skips = append(p.skips, Skip{Path: path, Reason: reason})
}

// Assemblies returns staged assembly creates in first-seen order.
func (p *Plan) Assemblies() []hardware.Assembly {
	result := make([]hardware.Assembly, 0, len(p.assemblyOrder))
	for _, key := range p.assemblyOrder {
		result = append(result, p.assemblies[key])
	}
	return result
}

// Components returns staged component creates in first-seen order.
func (p *Plan) Components() []hardware.Component {
	result := make([]hardware.Component, 0, len(p.componentOrder))
	for _, key := range p.componentOrder {
		result = append(result, p.components[key])
	}
	return result
}

// Mounts returns staged attachments.
func (p *Plan) Mounts() []Mount {
	return p.mounts
}

// Updates returns staged component field updates.
func (p *Plan) Updates() []ComponentUpdate {
	return p.updates
}

// Tests returns staged test records ordered oldest-first, so consumers
// relying on monotonic append order see a consistent history.
func (p *Plan) Tests() []TestIntent {
	result := make([]TestIntent, len(p.tests))
	copy(result, p.tests)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result
}

// Skips returns every skipped input.
func (p *Plan) Skips() []Skip {
	return p.skips
}

// IsEmpty reports whether the plan stages no writes at all.
func (p *Plan) IsEmpty() bool {
	return len(p.assemblies) == 0 &&
		len(p.components) == 0 &&
		len(p.mounts) == 0 &&
		len(p.updates) == 0 &&
		len(p.tests) == 0
}

// Summary renders the operator-facing change summary shown before the
// confirmation prompt: counts per kind plus sample identifiers, and the
// reason for every skip.
func (p *Plan) Summary() string {
	var b strings.Builder
	b.WriteString("--- Summary of Changes ---\n")

	if assemblies := p.Assemblies(); len(assemblies) > 0 {
		fmt.Fprintf(&b, "\n%d new assemblies to be added:\n", len(assemblies))
		for _, a := range assemblies {
			fmt.Fprintf(&b, "  - version %s, serial %s\n", a.Version(), a.SerialNumber())
		}
	}

	if components := p.Components(); len(components) > 0 {
		fmt.Fprintf(&b, "\n%d new components to be added:\n", len(components))
		for kind, count := range countByKind(components) {
			fmt.Fprintf(&b, "  - %d %s\n", count, kind)
		}
	}

	if len(p.mounts) > 0 {
		fmt.Fprintf(&b, "\n%d components to be mounted:\n", len(p.mounts))
		for _, m := range p.mounts {
			fmt.Fprintf(&b, "  - %s %s -> %s/%s position %s\n",
				m.Component.Kind, m.Component.SerialNumber,
				m.Assembly.Version, m.Assembly.SerialNumber, m.Position)
		}
	}

	if len(p.updates) > 0 {
		fmt.Fprintf(&b, "\n%d components to be updated:\n", len(p.updates))
		for _, u := range p.updates {
			fmt.Fprintf(&b, "  - %s %s (%s)\n",
				u.Component.Kind(), u.Component.SerialNumber(), strings.Join(u.Fields, ", "))
		}
	}

	if tests := p.Tests(); len(tests) > 0 {
		fmt.Fprintf(&b, "\n%d new test records to be added:\n", len(tests))
		for _, t := range tests {
			fmt.Fprintf(&b, "  - %s, %s, %s, %s, result: %s\n",
				t.ownerLabel(), t.Timestamp.Format("2006-01-02 15:04:05"), t.TestType, t.TestEnv, t.Result)
		}
	}

	if len(p.skips) > 0 {
		fmt.Fprintf(&b, "\n%d inputs skipped:\n", len(p.skips))
		for _, s := range p.skips {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}

	return b.String()
}

func (t TestIntent) ownerLabel() string {
	if t.Assembly != nil {
		return fmt.Sprintf("%s/%s", t.Assembly.Version, t.Assembly.SerialNumber)
	}
	if t.Component != nil {
		return fmt.Sprintf("%s %s", t.Component.Kind, t.Component.SerialNumber)
	}
	return "?"
}

func countByKind(components []hardware.Component) map[hardware.Kind]int {
	counts := make(map[hardware.Kind]int)
	for _, c := range components {
		counts[c.Kind()]++
	}
	return counts
}
