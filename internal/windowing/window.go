package windowing

// Stats summarizes one Prepare call.
type Stats struct {
	Total            int // estimated cost of included messages
	Budget           int
	Limit            int
	Included         int
	Skipped          int
	OverBudgetNewest bool
}

// Prepare returns the longest suffix of msgs with at most limit messages
// whose estimated total stays within budget. limit <= 0 and budget <= 0 each
// disable their cap.
func Prepare(msgs []string, limit, budget int, c Counter) ([]string, Stats) {
	stats := Stats{Budget: budget, Limit: limit}
	if len(msgs) == 0 {
		return nil, stats
	}
	if c == nil {
		c = RuneCounter{}
	}

	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		if limit > 0 && len(msgs)-i > limit {
			break
		}
		cost := c.Count(msgs[i])
		if budget > 0 && stats.Total+cost > budget {
			if start == len(msgs) {
				stats.OverBudgetNewest = true
			}
			break
		}
		stats.Total += cost
		start = i
	}

	window := msgs[start:]
	stats.Included = len(window)
	stats.Skipped = len(msgs) - len(window)
	if len(window) == 0 {
		return nil, stats
	}
	return window, stats
}
