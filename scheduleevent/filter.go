package scheduleevent

import (
	"cmp"
	"slices"
	"time"
)

/***** FilterPredicate *****/

// FilterPredicateKind tags the variant of a FilterPredicate.
type FilterPredicateKind int

const (
	PredicateIDEquals FilterPredicateKind = iota + 1
	PredicateDueOnOrAfter
	PredicateDueOnOrBefore
	PredicateCompletedEquals
)

// String provides a string representation of FilterPredicateKind for logging and debugging.
func (k FilterPredicateKind) String() string {
	switch k {
	case PredicateIDEquals:
		return "id_equals"
	case PredicateDueOnOrAfter:
		return "due_on_or_after"
	case PredicateDueOnOrBefore:
		return "due_on_or_before"
	case PredicateCompletedEquals:
		return "completed_equals"
	default:
		return "unknown"
	}
}

// FilterPredicate is one condition over the fields of a ScheduleEvent.
//
// Only the value belonging to its kind is meaningful.
// It should only be constructed with the supplied factory functions:
//   - IDEquals
//   - DueOnOrAfter
//   - DueOnOrBefore
//   - CompletedEquals
type FilterPredicate struct {
	kind      FilterPredicateKind
	id        IDInt64
	dueDate   time.Time
	completed bool
}

func IDEquals(id IDInt64) FilterPredicate {
	return FilterPredicate{kind: PredicateIDEquals, id: id}
}

func DueOnOrAfter(dueDate time.Time) FilterPredicate {
	return FilterPredicate{kind: PredicateDueOnOrAfter, dueDate: dueDate}
}

func DueOnOrBefore(dueDate time.Time) FilterPredicate {
	return FilterPredicate{kind: PredicateDueOnOrBefore, dueDate: dueDate}
}

func CompletedEquals(isCompleted bool) FilterPredicate {
	return FilterPredicate{kind: PredicateCompletedEquals, completed: isCompleted}
}

func (fp FilterPredicate) Kind() FilterPredicateKind {
	return fp.kind
}

func (fp FilterPredicate) ID() IDInt64 {
	return fp.id
}

func (fp FilterPredicate) DueDate() time.Time {
	return fp.dueDate
}

func (fp FilterPredicate) Completed() bool {
	return fp.completed
}

// Matches evaluates the predicate in-process against the given event.
func (fp FilterPredicate) Matches(event ScheduleEvent) bool {
	switch fp.kind {
	case PredicateIDEquals:
		return event.ID == fp.id
	case PredicateDueOnOrAfter:
		return !event.DueDate.Before(fp.dueDate)
	case PredicateDueOnOrBefore:
		return !event.DueDate.After(fp.dueDate)
	case PredicateCompletedEquals:
		return event.IsCompleted == fp.completed
	default:
		return false
	}
}

// isUnbounded is true for a predicate that would not restrict anything, e.g. a zero due date bound.
func (fp FilterPredicate) isUnbounded() bool {
	switch fp.kind {
	case PredicateDueOnOrAfter, PredicateDueOnOrBefore:
		return fp.dueDate.IsZero()
	case PredicateIDEquals, PredicateCompletedEquals:
		return false
	default:
		return true
	}
}

func (fp FilterPredicate) equals(other FilterPredicate) bool {
	return fp.kind == other.kind &&
		fp.id == other.id &&
		fp.dueDate.Equal(other.dueDate) &&
		fp.completed == other.completed
}

/***** FilterItem *****/

// FilterItem is a conjunction: ALL of its predicates must match.
type FilterItem struct {
	predicates []FilterPredicate
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

// Matches evaluates the FilterItem in-process; an item without predicates matches any event.
func (fi FilterItem) Matches(event ScheduleEvent) bool {
	for _, predicate := range fi.predicates {
		if !predicate.Matches(event) {
			return false
		}
	}

	return true
}

/***** Filter *****/

// Filter is a disjunction: ANY of its items must match.
type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

// MatchesAnyScheduleEvent is true if the Filter does not restrict the result at all.
func (f Filter) MatchesAnyScheduleEvent() bool {
	if len(f.items) == 0 {
		return true
	}

	return slices.ContainsFunc(f.items, func(item FilterItem) bool {
		return len(item.predicates) == 0
	})
}

// Matches evaluates the Filter in-process with the same semantics the engines compile into SQL.
func (f Filter) Matches(event ScheduleEvent) bool {
	if f.MatchesAnyScheduleEvent() {
		return true
	}

	return slices.ContainsFunc(f.items, func(item FilterItem) bool {
		return item.Matches(event)
	})
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic schedule event filter to be used in DB type-specific engines to build queries for
// the specific query language, e.g.: Postgres, SQLite, ...
// It is designed with the idea to only allow "useful" filter combinations:
//
//   - empty filter
//   - (id)
//   - (dueDate BETWEEN from AND until)
//   - (isCompleted)
//   - (dueDate BETWEEN from AND until AND isCompleted)
//   - (predicate AND predicate...)
//   - (item) OR (item)... -> multiple FilterItem(s)
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyScheduleEvent directly creates an empty Filter.
	MatchingAnyScheduleEvent() Filter
}

type EmptyFilterItemBuilder interface {
	// WithID adds an ID equality predicate to the current FilterItem.
	WithID(id IDInt64) CompletedFilterItemBuilder

	// DueBetween adds an inclusive due date range to the current FilterItem.
	//
	// A zero from or until leaves that side of the range open.
	DueBetween(from time.Time, until time.Time) FilterItemBuilderLackingCompletion

	// Completed adds a predicate on the completion flag to the current FilterItem.
	Completed(isCompleted bool) FilterItemBuilderLackingDueDate

	// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem, ALL must match.
	//
	// It sanitizes the input:
	//	- removing unbounded FilterPredicate(s) (e.g. a zero due date)
	//	- sorting the FilterPredicate(s) by kind
	//	- removing duplicate FilterPredicate(s)
	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder
}

type FilterItemBuilderLackingCompletion interface {
	// AndCompleted adds a predicate on the completion flag to the current FilterItem.
	AndCompleted(isCompleted bool) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type FilterItemBuilderLackingDueDate interface {
	// AndDueBetween adds an inclusive due date range to the current FilterItem.
	AndDueBetween(from time.Time, until time.Time) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildScheduleEventFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyScheduleEvent().
func BuildScheduleEventFilter() FilterBuilder {
	return filterBuilder{}
}

// Matching starts a new FilterItem.
func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

// WithID adds an ID equality predicate to the current FilterItem.
func (fb filterBuilder) WithID(id IDInt64) CompletedFilterItemBuilder {
	fb.currentFilterItem.predicates = fb.withPredicates(IDEquals(id))

	return fb
}

// DueBetween adds an inclusive due date range to the current FilterItem.
func (fb filterBuilder) DueBetween(from time.Time, until time.Time) FilterItemBuilderLackingCompletion {
	fb.currentFilterItem.predicates = fb.withPredicates(DueOnOrAfter(from), DueOnOrBefore(until))

	return fb
}

// AndDueBetween adds an inclusive due date range to the current FilterItem.
func (fb filterBuilder) AndDueBetween(from time.Time, until time.Time) CompletedFilterItemBuilder {
	return fb.DueBetween(from, until)
}

// Completed adds a predicate on the completion flag to the current FilterItem.
func (fb filterBuilder) Completed(isCompleted bool) FilterItemBuilderLackingDueDate {
	fb.currentFilterItem.predicates = fb.withPredicates(CompletedEquals(isCompleted))

	return fb
}

// AndCompleted adds a predicate on the completion flag to the current FilterItem.
func (fb filterBuilder) AndCompleted(isCompleted bool) CompletedFilterItemBuilder {
	return fb.Completed(isCompleted)
}

// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ALL predicates to match.
func (fb filterBuilder) AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder {
	fb.currentFilterItem.predicates = fb.withPredicates(append([]FilterPredicate{predicate}, predicates...)...)

	return fb
}

// withPredicates returns a new sanitized slice, the builder is passed by value and must not share backing arrays.
func (fb filterBuilder) withPredicates(predicates ...FilterPredicate) []FilterPredicate {
	allPredicates := slices.Grow([]FilterPredicate(nil), len(fb.currentFilterItem.predicates)+len(predicates))
	allPredicates = append(allPredicates, fb.currentFilterItem.predicates...)
	allPredicates = append(allPredicates, predicates...)
	allPredicates = slices.DeleteFunc(allPredicates, func(p FilterPredicate) bool { return p.isUnbounded() })
	slices.SortStableFunc(allPredicates, func(a, b FilterPredicate) int {
		return cmp.Compare(a.kind, b.kind)
	})

	allPredicates = slices.CompactFunc(allPredicates, FilterPredicate.equals)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}

// OrMatching finalizes the current FilterItem and starts a new one.
func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

// MatchingAnyScheduleEvent directly creates an empty filter.
func (fb filterBuilder) MatchingAnyScheduleEvent() Filter {
	return fb.filter
}

// Finalize returns the Filter with the current FilterItem appended.
func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(slices.Clone(fb.filter.items), fb.currentFilterItem)

	return fb.filter
}
