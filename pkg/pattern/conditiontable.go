package pattern

// ConditionTable lists skip conditions or rules with their verdicts on
// one platform.
type ConditionTable struct {
	Label string
	Rows  []ConditionRow
}

// ConditionRow is one condition (or rule) with its verdict.
type ConditionRow struct {
	Name    string // condition name
	Pattern string // rule pattern; empty for bare conditions
	Reason  string
	Skip    bool // verdict on the evaluated platform
}

func (c *ConditionTable) Type() PatternType { return PatternTypeConditionTable }
