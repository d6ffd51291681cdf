package pattern

// SkipTable lists skipped tests from an audited run.
type SkipTable struct {
	Label string
	Rows  []SkipRow
}

// SkipRow is one skipped test.
type SkipRow struct {
	Package   string
	Test      string
	Reason    string
	Condition string // matched condition name; empty when unexplained
	Explained bool
}

func (s *SkipTable) Type() PatternType { return PatternTypeSkipTable }
