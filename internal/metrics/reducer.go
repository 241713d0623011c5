package metrics

import "strings"

// NonQuotationWrapUps is the fixed set of wrap-up tags (lower-case) that mark a
// closed ticket as handled without a quotation.
var NonQuotationWrapUps = map[string]struct{}{
	"no stocks":                       {},
	"insufficient stocks":             {},
	"unable to contact":               {},
	"item not carried":                {},
	"waiting for client confirmation": {},
	"customer requested":              {},
	"cancellation":                    {},
	"accreditation/partnership":       {},
	"no response from client":         {},
	"assisted":                        {},
	"for site visit":                  {},
	"non standard item":               {},
	"po received":                     {},
	"for occular inspection":          {},
}

// IsNonQuotationWrapUp reports whether w belongs to NonQuotationWrapUps, ignoring case.
func IsNonQuotationWrapUp(w string) bool {
	_, ok := NonQuotationWrapUps[normalizeTag(w)]
	return ok
}

// CustomerStatus is one of the four customer lifecycle buckets.
type CustomerStatus int

const (
	NewClient CustomerStatus = iota
	NewNonBuying
	ExistingActive
	ExistingInactive

	customerStatusCount
)

var customerStatusNames = [customerStatusCount]string{
	NewClient:        "new client",
	NewNonBuying:     "new non-buying",
	ExistingActive:   "existing active",
	ExistingInactive: "existing inactive",
}

// CustomerStatuses lists the buckets in display order.
var CustomerStatuses = []CustomerStatus{NewClient, NewNonBuying, ExistingActive, ExistingInactive}

// String returns the canonical lower-case name.
func (c CustomerStatus) String() string {
	if c < 0 || c >= customerStatusCount {
		return ""
	}
	return customerStatusNames[c]
}

// Title returns the display name, e.g. "New Client".
func (c CustomerStatus) Title() string {
	switch c {
	case NewClient:
		return "New Client"
	case NewNonBuying:
		return "New Non-Buying"
	case ExistingActive:
		return "Existing Active"
	case ExistingInactive:
		return "Existing Inactive"
	}
	return ""
}

// ParseCustomerStatus matches s against the four buckets, ignoring case.
func ParseCustomerStatus(s string) (CustomerStatus, bool) {
	s = normalizeTag(s)
	for i, name := range customerStatusNames {
		if s == name {
			return CustomerStatus(i), true
		}
	}
	return 0, false
}

// DurationStat is a running total/count pair averaged on read.
type DurationStat struct {
	Total int64 `json:"total"`
	Count int   `json:"count"`
}

// Add records a positive duration; zero and negative values are not data points.
func (d *DurationStat) Add(minutes int64) {
	if minutes > 0 {
		d.Total += minutes
		d.Count++
	}
}

// Average returns the rounded mean, or the no-data sentinel when Count is 0.
func (d DurationStat) Average() Minutes {
	if d.Count == 0 {
		return Minutes{}
	}
	return MinutesOf(float64(d.Total) / float64(d.Count))
}

func (d *DurationStat) merge(o DurationStat) {
	d.Total += o.Total
	d.Count += o.Count
}

// GroupAccumulator holds the running totals of one group.
type GroupAccumulator struct {
	Key string `json:"key"`

	SalesCount     int `json:"salesCount"`
	NonSalesCount  int `json:"nonSalesCount"`
	ConvertedCount int `json:"convertedCount"`

	// Indexed by CustomerStatus.
	CustomerStatusCounts [customerStatusCount]int     `json:"customerStatusCounts"`
	ConvertedAmounts     [customerStatusCount]float64 `json:"convertedAmounts"`

	Amount  float64 `json:"amount"`
	QtySold float64 `json:"qtySold"`

	Ack          DurationStat `json:"ack"`
	Handling     DurationStat `json:"handling"`
	NonQuotation DurationStat `json:"nonQuotation"`
}

// Add folds one record into the accumulator. The conditionals are independent
// and evaluated in a fixed order; several may fire for the same record.
func (a *GroupAccumulator) Add(r ActivityRecord) {
	switch normalizeTag(r.Traffic) {
	case "sales":
		a.SalesCount++
	case "non-sales":
		a.NonSalesCount++
	}

	status := normalizeTag(r.Status)
	converted := status == "converted into sales"
	if converted {
		a.ConvertedCount++
	}

	cs, hasStatus := ParseCustomerStatus(r.CustomerStatus)
	if hasStatus {
		a.CustomerStatusCounts[cs]++
	}

	amount := ParseNumber(r.SOAmount)
	a.Amount += amount
	a.QtySold += ParseNumber(r.QtySold)

	if hasStatus && converted {
		a.ConvertedAmounts[cs] += amount
	}

	a.Ack.Add(MinutesBetween(r.TicketReceived, r.TicketEndorsed))

	if status == "closed" {
		handling := MinutesBetween(r.TicketReceived, r.DateUpdated)
		a.Handling.Add(handling)
		if IsNonQuotationWrapUp(r.WrapUp) {
			a.NonQuotation.Add(handling)
		}
	}
}

func (a *GroupAccumulator) merge(o GroupAccumulator) {
	a.SalesCount += o.SalesCount
	a.NonSalesCount += o.NonSalesCount
	a.ConvertedCount += o.ConvertedCount
	for i := range a.CustomerStatusCounts {
		a.CustomerStatusCounts[i] += o.CustomerStatusCounts[i]
		a.ConvertedAmounts[i] += o.ConvertedAmounts[i]
	}
	a.Amount += o.Amount
	a.QtySold += o.QtySold
	a.Ack.merge(o.Ack)
	a.Handling.merge(o.Handling)
	a.NonQuotation.merge(o.NonQuotation)
}

// KeyFunc extracts the grouping key of a record.
type KeyFunc func(r NormalizedRecord) string

// Groups is an insertion-ordered mapping of group key to accumulator.
type Groups struct {
	keys     []string
	byKey    map[string]*GroupAccumulator
	retained int
}

// NewGroups returns an empty group set.
func NewGroups() *Groups {
	return &Groups{byKey: make(map[string]*GroupAccumulator)}
}

// Len returns the number of groups.
func (g *Groups) Len() int { return len(g.keys) }

// Keys returns the group keys in first-seen order.
func (g *Groups) Keys() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)
	return out
}

// Get returns the accumulator for key.
func (g *Groups) Get(key string) (GroupAccumulator, bool) {
	acc, ok := g.byKey[key]
	if !ok {
		return GroupAccumulator{}, false
	}
	return *acc, true
}

// Retained is the number of records folded into any group.
func (g *Groups) Retained() int { return g.retained }

func (g *Groups) add(key string, r ActivityRecord) {
	acc, ok := g.byKey[key]
	if !ok {
		acc = &GroupAccumulator{Key: key}
		g.byKey[key] = acc
		g.keys = append(g.keys, key)
	}
	acc.Add(r)
	g.retained++
}

// GroupBy filters records with pred (nil keeps everything), drops records whose
// trimmed key is blank, and folds the rest into per-key accumulators.
func GroupBy(records []NormalizedRecord, key KeyFunc, pred Predicate) *Groups {
	groups := NewGroups()
	for _, r := range records {
		if pred != nil && !pred(r) {
			continue
		}
		k := strings.TrimSpace(key(r))
		if k == "" {
			continue
		}
		groups.add(k, r.ActivityRecord)
	}
	return groups
}
