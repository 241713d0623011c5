package metrics

// DefaultDateField is the timestamp the date-range filter applies to.
const DefaultDateField = "date_created"

// ReportOptions are the filter and presentation choices of one report.
// They are passed explicitly; nothing is read from shared state.
type ReportOptions struct {
	Dimension      Dimension  `json:"dimension"`
	Range          *DateRange `json:"range,omitempty"`
	DateField      string     `json:"dateField,omitempty"`
	Search         string     `json:"search,omitempty"`
	ExcludeRemarks []string   `json:"excludeRemarks,omitempty"`
	SortBy         SortKey    `json:"sortBy,omitempty"`
}

func (o ReportOptions) withDefaults() ReportOptions {
	if o.Dimension == "" {
		o.Dimension = DimensionAgent
	}
	if o.DateField == "" {
		o.DateField = DefaultDateField
	}
	if o.SortBy == "" {
		o.SortBy = SortByAmount
	}
	return o
}

// Predicate builds the record filter described by the options.
func (o ReportOptions) Predicate() Predicate {
	o = o.withDefaults()
	return All(
		DateRangePredicate(o.DateField, o.Range),
		ExcludeRemarks(o.ExcludeRemarks...),
		SearchPredicate(o.Search),
	)
}

// Report is the ranked output of one aggregation pass.
type Report struct {
	Dimension Dimension     `json:"dimension"`
	Options   ReportOptions `json:"options"`
	Rows      []Row         `json:"rows"`
	Totals    Row           `json:"totals"`
	// Records folded into a group (passed every filter and had a key).
	RecordCount int `json:"recordCount"`
}

// BuildReport runs normalize, filter, group, derive and rank/total over ds.
func BuildReport(ds Dataset, opts ReportOptions, norm NormalizeOptions) Report {
	return NewReportSession(ds, norm).Report(opts)
}

// FilterRecords returns the records accepted by pred, in input order.
func FilterRecords(records []NormalizedRecord, pred Predicate) []NormalizedRecord {
	out := make([]NormalizedRecord, 0, len(records))
	for _, r := range records {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}
