package core

// Usage counts tokens for one model hop or an aggregate over several hops.
// The JSON keys match the debug trace wire format.
type Usage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// Add accumulates other into u. A nil other is a hop that reported no usage
// and contributes nothing.
func (u *Usage) Add(other *Usage) {
	if other == nil {
		return
	}
	u.Input += other.Input
	u.Output += other.Output
	u.Total += other.Total
}

// SumUsage returns a fresh aggregate of two optional usages. The result is
// never nil: hops without usage still produce a zero-valued aggregate.
func SumUsage(a, b *Usage) *Usage {
	total := &Usage{}
	total.Add(a)
	total.Add(b)
	return total
}
