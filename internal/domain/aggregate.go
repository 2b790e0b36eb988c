package domain

// UsageTrend returns the percentage change from the first to the last
// point of the series. Fewer than two points, or a zero starting value,
// yields 0.
func UsageTrend(points []UsagePoint) float64 {
	if len(points) < 2 {
		return 0
	}
	start := points[0].Usage
	end := points[len(points)-1].Usage
	if start == 0 {
		return 0
	}
	return (end - start) / start * 100
}

// TotalUsage sums the usage series.
func TotalUsage(points []UsagePoint) float64 {
	var total float64
	for _, p := range points {
		total += p.Usage
	}
	return total
}

// TotalCost sums the cost series.
func TotalCost(points []CostPoint) float64 {
	var total float64
	for _, p := range points {
		total += p.Cost
	}
	return total
}

// UsageCost pairs a usage sample with the cost sample at the same position.
type UsageCost struct {
	Name  string
	Usage float64
	Cost  float64
}

// PairUsageCost zips the two series by position. Cost is 0 where the cost
// series is shorter than the usage series.
func PairUsageCost(usage []UsagePoint, cost []CostPoint) []UsageCost {
	out := make([]UsageCost, len(usage))
	for i, u := range usage {
		out[i] = UsageCost{Name: u.Name, Usage: u.Usage}
		if i < len(cost) {
			out[i].Cost = cost[i].Cost
		}
	}
	return out
}

// BillSummary is the header of the billing page.
type BillSummary struct {
	Total        int
	Paid         int
	Unpaid       int
	UnpaidAmount float64
	TotalUsage   float64
}

// SummarizeBills computes the billing header. Bills whose amount does not
// parse contribute nothing to UnpaidAmount.
func SummarizeBills(bills []Bill) BillSummary {
	s := BillSummary{Total: len(bills)}
	for _, b := range bills {
		s.TotalUsage += b.UsageKWh
		if b.IsPaid {
			s.Paid++
			continue
		}
		s.Unpaid++
		if v, err := b.AmountValue(); err == nil {
			s.UnpaidAmount += v
		}
	}
	return s
}

// StatusCounts tallies complaints per status.
type StatusCounts struct {
	Total         int
	Pending       int
	Investigating int
	Resolved      int
}

// CountByStatus tallies complaints per status. Unknown statuses only
// count toward Total.
func CountByStatus(complaints []Complaint) StatusCounts {
	c := StatusCounts{Total: len(complaints)}
	for _, cp := range complaints {
		switch cp.Status {
		case StatusPending:
			c.Pending++
		case StatusInvestigating:
			c.Investigating++
		case StatusResolved:
			c.Resolved++
		}
	}
	return c
}
