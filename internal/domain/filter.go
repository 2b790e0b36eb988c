package domain

import "fmt"

// StatusFilter selects complaints by status. The zero value and FilterAll
// match everything.
type StatusFilter string

const FilterAll StatusFilter = "all"

// ParseStatusFilter accepts "all" or any complaint status.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	for _, st := range Statuses {
		if s == string(st) {
			return StatusFilter(s), nil
		}
	}
	return "", fmt.Errorf("unknown status filter %q (use all, pending, investigating or resolved)", s)
}

// Next cycles all -> pending -> investigating -> resolved -> all.
func (f StatusFilter) Next() StatusFilter {
	if f == "" || f == FilterAll {
		return StatusFilter(Statuses[0])
	}
	for i, st := range Statuses {
		if string(st) == string(f) {
			if i == len(Statuses)-1 {
				return FilterAll
			}
			return StatusFilter(Statuses[i+1])
		}
	}
	return FilterAll
}

// FilterComplaints returns the complaints matching f, preserving order.
// The input slice is never modified.
func FilterComplaints(complaints []Complaint, f StatusFilter) []Complaint {
	if f == "" || f == FilterAll {
		return complaints
	}
	out := make([]Complaint, 0, len(complaints))
	for _, c := range complaints {
		if string(c.Status) == string(f) {
			out = append(out, c)
		}
	}
	return out
}
