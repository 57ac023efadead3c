// Package discovery orchestrates the Source Indexer and the Test Enumerator
// per project, correlates their results into a grouped test tree, and emits
// incremental events to the UI event loop (§4.4).
package discovery

import (
	"context"
	"sort"
	"sync"

	"github.com/gleladze/testament/internal/config"
	"github.com/gleladze/testament/internal/domain"
	"github.com/gleladze/testament/internal/enumerator"
	"github.com/gleladze/testament/internal/indexer"
)

// EventKind discriminates the Event union.
type EventKind int

const (
	EventProjectDiscovered EventKind = iota
	EventProjectError
	EventComplete
)

// Event is sent on the bounded discovery channel consumed by the UI event
// loop (§4.4, §5: capacity ~16).
type Event struct {
	Kind    EventKind
	Index   int
	Classes []*domain.TestClass // set on EventProjectDiscovered
	Message string               // set on EventProjectError
}

// EventChannelCapacity is the bounded discovery-channel size (§5).
const EventChannelCapacity = 16

// Coordinator fans Source Indexer and Test Enumerator work out across
// projects in parallel and correlates their results (§4.4). Grounded on the
// teacher's execution.WorkerPool fan-out-with-WaitGroup shape.
type Coordinator struct {
	cfg *config.Config
}

// New creates a Coordinator bound to cfg (for the test CLI binary name).
func New(cfg *config.Config) *Coordinator {
	return &Coordinator{cfg: cfg}
}

// Run discovers every project in parallel, sending one terminal event per
// project followed by a single EventComplete, then closes events. The
// caller must have already constructed projects in the Pending state (§4.4).
func (c *Coordinator) Run(ctx context.Context, projects []*domain.TestProject) <-chan Event {
	events := make(chan Event, EventChannelCapacity)

	go func() {
		defer close(events)

		var wg sync.WaitGroup
		for i, proj := range projects {
			wg.Add(1)
			go func(index int, project *domain.TestProject) {
				defer wg.Done()
				c.discoverOne(ctx, index, project, events)
			}(i, proj)
		}
		wg.Wait()

		events <- Event{Kind: EventComplete}
	}()

	return events
}

// discoverOne runs the per-project procedure of §4.4: fan out indexer and
// enumerator, join both, correlate, and emit the terminal event.
func (c *Coordinator) discoverOne(ctx context.Context, index int, project *domain.TestProject, events chan<- Event) {
	var (
		idx      *indexerResult
		names    []string
		idxErr   error
		namesErr error
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		result, err := indexer.IndexProject(project.Dir)
		idx = &indexerResult{index: result}
		idxErr = err
	}()
	go func() {
		defer wg.Done()
		e := enumerator.New(c.cfg)
		names, namesErr = e.Enumerate(ctx, project.ProjectFile)
	}()
	wg.Wait()

	if idxErr != nil {
		events <- Event{Kind: EventProjectError, Index: index, Message: idxErr.Error()}
		return
	}
	if namesErr != nil {
		events <- Event{Kind: EventProjectError, Index: index, Message: namesErr.Error()}
		return
	}

	classes := Correlate(names, idx.index)
	events <- Event{Kind: EventProjectDiscovered, Index: index, Classes: classes}
}

type indexerResult struct {
	index *indexer.Index
}

// Correlate joins the enumerator's flat test-name list with the indexer's
// method→class occurrence map, grouping into sorted TestClass buckets
// (§4.4 step 2-3).
func Correlate(names []string, idx *indexer.Index) []*domain.TestClass {
	classesByName := make(map[string]*domain.TestClass)
	var order []string
	cursor := make(map[string]int) // per-display-name consumption counter

	ensureClass := func(fullName string) *domain.TestClass {
		if c, ok := classesByName[fullName]; ok {
			return c
		}
		c := domain.NewTestClass(fullName)
		classesByName[fullName] = c
		order = append(order, fullName)
		return c
	}

	for _, name := range names {
		display := domain.DisplayNameOf(name)

		var classFullName string
		switch {
		case idx != nil && hasFullMatch(idx, name):
			// A precise namespace.class.method match needs no disambiguation.
			occ := idx.ByFullName[name]
			classFullName = qualifiedClassName(occ.Namespace, occ.ClassFullName)
		case idx != nil && len(idx.ByDisplayName[display]) > 0:
			occs := idx.ByDisplayName[display]
			n := cursor[display]
			if n >= len(occs) {
				n = len(occs) - 1
			}
			cursor[display] = n + 1
			classFullName = qualifiedClassName(occs[n].Namespace, occs[n].ClassFullName)
		default:
			classFullName = domain.UncategorizedClassName
		}

		class := ensureClass(classFullName)
		class.AddTest(domain.NewTest(name, display))
	}

	classes := make([]*domain.TestClass, 0, len(order))
	for _, fullName := range order {
		classes = append(classes, classesByName[fullName])
	}

	sortClasses(classes)
	return classes
}

// hasFullMatch reports whether the indexer has a precise occurrence for the
// fully-qualified name itself, not just its bare display name (§4.4 step 2).
func hasFullMatch(idx *indexer.Index, fullyQualifiedName string) bool {
	_, ok := idx.ByFullName[fullyQualifiedName]
	return ok
}

func qualifiedClassName(namespace, classFullName string) string {
	if namespace == "" {
		return classFullName
	}
	return namespace + "." + classFullName
}

func sortClasses(classes []*domain.TestClass) {
	sort.SliceStable(classes, func(i, j int) bool {
		return classes[i].FullNameLower() < classes[j].FullNameLower()
	})
}
