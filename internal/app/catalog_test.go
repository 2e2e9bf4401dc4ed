package app

import "testing"

func insurerNames(sortBy string) []string {
	list := Insurers(sortBy)
	names := make([]string, len(list))
	for i, ins := range list {
		names[i] = ins.Name
	}
	return names
}

func TestInsurersSortOrders(t *testing.T) {
	cases := []struct {
		sortBy string
		want   []string
	}{
		{"popular", []string{"Leadway Assurance", "AXA Mansard", "AIICO Insurance", "Mutual Benefits"}},
		{"", []string{"Leadway Assurance", "AXA Mansard", "AIICO Insurance", "Mutual Benefits"}},
		{"cheapest", []string{"Mutual Benefits", "AIICO Insurance", "Leadway Assurance", "AXA Mansard"}},
		{"rating", []string{"Leadway Assurance", "AXA Mansard", "AIICO Insurance", "Mutual Benefits"}},
		{"fastest", []string{"Leadway Assurance", "AXA Mansard", "AIICO Insurance", "Mutual Benefits"}},
	}
	for _, tc := range cases {
		got := insurerNames(tc.sortBy)
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("Insurers(%q)[%d] = %q, want %q", tc.sortBy, i, got[i], tc.want[i])
			}
		}
	}
}

func TestInsurersReturnsCopy(t *testing.T) {
	first := Insurers("popular")
	first[0].Name = "mutated"
	if again := Insurers("popular"); again[0].Name != "Leadway Assurance" {
		t.Errorf("catalog mutated through a returned slice: %q", again[0].Name)
	}
}

func TestPayoutHours(t *testing.T) {
	cases := []struct {
		speed string
		want  int
	}{
		{"24 Hours", 24},
		{"48 Hours", 48},
		{"3-5 Days", 72},
		{"5 Days", 120},
		{"instant", 1 << 30},
	}
	for _, tc := range cases {
		if got := payoutHours(tc.speed); got != tc.want {
			t.Errorf("payoutHours(%q) = %d, want %d", tc.speed, got, tc.want)
		}
	}
}

func TestPaymentPlans(t *testing.T) {
	plans := PaymentPlans()
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	if plans[0].Period != "daily" || plans[0].Price != "500" {
		t.Errorf("daily plan = %+v", plans[0])
	}
	if plans[2].Period != "monthly" || plans[2].Price != "12,500" {
		t.Errorf("monthly plan = %+v", plans[2])
	}
}
