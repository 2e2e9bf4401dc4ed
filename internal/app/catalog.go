package app

import (
	"sort"
	"strconv"
	"strings"

	"insuria/pkg/domain"
)

// insurers is the marketplace catalog. Order is the "popular" order.
var insurers = []domain.Insurer{
	{
		Name:        "Leadway Assurance",
		Price:       15000,
		Rating:      4.8,
		Reviews:     "2.4k",
		PayoutSpeed: "24 Hours",
		BestFor:     "Comprehensive Auto",
		Popular:     true,
		Link:        "https://www.leadway.com/",
	},
	{
		Name:        "AXA Mansard",
		Price:       18500,
		Rating:      4.7,
		Reviews:     "3.1k",
		PayoutSpeed: "48 Hours",
		BestFor:     "Health & Life",
		Link:        "https://www.axamansard.com/",
	},
	{
		Name:        "AIICO Insurance",
		Price:       12000,
		Rating:      4.5,
		Reviews:     "1.8k",
		PayoutSpeed: "3-5 Days",
		BestFor:     "Budget Options",
		Link:        "https://www.aiicoplc.com/",
	},
	{
		Name:        "Mutual Benefits",
		Price:       9500,
		Rating:      4.2,
		Reviews:     "950",
		PayoutSpeed: "5 Days",
		BestFor:     "Micro-Insurance",
		Link:        "https://www.mutualbenefitsassurance.com/",
	},
}

var paymentPlans = []domain.PaymentPlan{
	{Period: "daily", Price: "500"},
	{Period: "weekly", Price: "3,200"},
	{Period: "monthly", Price: "12,500"},
}

// Insurers returns the catalog sorted by the requested order: "cheapest"
// (price ascending), "rating" (rating descending), "fastest" (payout
// window ascending), anything else keeps the popular order.
func Insurers(sortBy string) []domain.Insurer {
	out := make([]domain.Insurer, len(insurers))
	copy(out, insurers)
	switch sortBy {
	case "cheapest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case "rating":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case "fastest":
		sort.SliceStable(out, func(i, j int) bool {
			return payoutHours(out[i].PayoutSpeed) < payoutHours(out[j].PayoutSpeed)
		})
	}
	return out
}

// PaymentPlans returns the premium cadence options.
func PaymentPlans() []domain.PaymentPlan {
	out := make([]domain.PaymentPlan, len(paymentPlans))
	copy(out, paymentPlans)
	return out
}

// payoutHours reads the leading number of a payout window like "24 Hours"
// or "3-5 Days" and normalizes it to hours. Unparseable windows sort last.
func payoutHours(speed string) int {
	fields := strings.Fields(speed)
	if len(fields) == 0 {
		return 1 << 30
	}
	first, _, _ := strings.Cut(fields[0], "-")
	n, err := strconv.Atoi(first)
	if err != nil {
		return 1 << 30
	}
	if len(fields) > 1 && strings.EqualFold(fields[1], "days") {
		return n * 24
	}
	return n
}
