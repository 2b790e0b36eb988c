package domain

import (
	"testing"
	"time"
)

func TestBill_AmountValue(t *testing.T) {
	b := Bill{ID: 7, Amount: "1234.56"}
	v, err := b.AmountValue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1234.56 {
		t.Errorf("got %f; want 1234.56", v)
	}

	b.Amount = ""
	if _, err := b.AmountValue(); err == nil {
		t.Error("expected error for empty amount")
	}
}

func TestBill_Date(t *testing.T) {
	b := Bill{BillingDate: "2026-03-01"}
	got, err := b.Date()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestActivity_Time(t *testing.T) {
	a := Activity{Date: "2026-03-01T10:30:00Z"}
	got, err := a.Time()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Errorf("got %v; want 10:30", got)
	}

	if _, err := (Activity{Date: "yesterday"}).Time(); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestComplaint_Timestamps(t *testing.T) {
	c := Complaint{CreatedAt: "2026-03-01T08:00:00.123456Z", UpdatedAt: "2026-03-02T09:15:00"}
	created, err := c.Created()
	if err != nil {
		t.Fatalf("Created: %v", err)
	}
	updated, err := c.Updated()
	if err != nil {
		t.Fatalf("Updated: %v", err)
	}
	if !updated.After(created) {
		t.Errorf("updated %v should be after created %v", updated, created)
	}
}

func TestTimeRange(t *testing.T) {
	if !RangeMonth.Valid() {
		t.Error("month should be valid")
	}
	if TimeRange("decade").Valid() {
		t.Error("decade should be invalid")
	}
	if RangeYear.Next() != RangeWeek {
		t.Errorf("year.Next() = %q, want week", RangeYear.Next())
	}
}

func TestPriority_Valid(t *testing.T) {
	for _, p := range Priorities {
		if !p.Valid() {
			t.Errorf("%q should be valid", p)
		}
	}
	if Priority("urgent").Valid() {
		t.Error("urgent should be invalid")
	}
}
