package report

// Table identifies an expandable table in the analysis view
type Table int

const (
	PipetteTable Table = iota
	TipTable
	AuxTable
	ModuleTable
	AxisTable
)

func (t Table) String() string {
	switch t {
	case PipetteTable:
		return "pipettes"
	case TipTable:
		return "tips"
	case AuxTable:
		return "aux"
	case ModuleTable:
		return "modules"
	case AxisTable:
		return "axes"
	default:
		return "unknown"
	}
}

// ExpansionSet tracks which rows of one table are expanded, keyed by row index
type ExpansionSet struct {
	rows map[int]struct{}
}

// Toggle flips row i and leaves every other row untouched
func (s *ExpansionSet) Toggle(i int) {
	if s.rows == nil {
		s.rows = make(map[int]struct{})
	}
	if _, ok := s.rows[i]; ok {
		delete(s.rows, i)
		return
	}
	s.rows[i] = struct{}{}
}

// IsExpanded reports whether row i is expanded
func (s *ExpansionSet) IsExpanded(i int) bool {
	_, ok := s.rows[i]
	return ok
}

// Len returns the number of expanded rows
func (s *ExpansionSet) Len() int {
	return len(s.rows)
}

// Clear collapses every row
func (s *ExpansionSet) Clear() {
	s.rows = nil
}

// Expansions holds one independent ExpansionSet per table
type Expansions struct {
	sets [AxisTable + 1]ExpansionSet
}

// For returns the set for table t
func (e *Expansions) For(t Table) *ExpansionSet {
	return &e.sets[t]
}

// Reset collapses every row in every table. A new report resets expansion
// because row indices refer to the old rows.
func (e *Expansions) Reset() {
	for i := range e.sets {
		e.sets[i].Clear()
	}
}
