package metrics

// ReportSession serves several reports over one dataset.
// Records are normalized once, on first use, and reused by every view
// (agent, manager, channel...) derived from the same snapshot.
// A session is not safe for concurrent use.
type ReportSession struct {
	dataset Dataset
	norm    NormalizeOptions

	// Cached projection
	normalized   []NormalizedRecord
	isNormalized bool
}

// NewReportSession creates a session over ds.
func NewReportSession(ds Dataset, norm NormalizeOptions) *ReportSession {
	return &ReportSession{
		dataset: ds,
		norm:    norm,
	}
}

// Records returns the normalized records of the dataset.
func (s *ReportSession) Records() []NormalizedRecord {
	if !s.isNormalized {
		s.normalized = Normalize(s.dataset.Activities, s.dataset.Companies, s.dataset.Agents, s.norm)
		s.isNormalized = true
	}
	return s.normalized
}

// Filtered returns the raw records accepted by the options' filters.
// Unlike Report it keeps records whose grouping key is blank.
func (s *ReportSession) Filtered(opts ReportOptions) []NormalizedRecord {
	return FilterRecords(s.Records(), opts.Predicate())
}

// Report aggregates the dataset along opts.Dimension.
func (s *ReportSession) Report(opts ReportOptions) Report {
	opts = opts.withDefaults()
	records := s.Records()

	groups := GroupBy(records, opts.Dimension.KeyFunc(), opts.Predicate())
	rows, totals := RankAndTotal(groups, opts.SortBy, opts.Dimension.Labels(records))

	return Report{
		Dimension:   opts.Dimension,
		Options:     opts,
		Rows:        rows,
		Totals:      totals,
		RecordCount: groups.Retained(),
	}
}
