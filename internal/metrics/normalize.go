package metrics

import (
	"strings"

	"github.com/samber/lo"
)

// Name sentinels for unresolved joins.
const (
	UnknownCompany     = "Unknown Company"
	UnknownAgent       = "-"
	UnknownAgentExport = "(Unknown Agent)"
)

// NormalizeOptions controls how unresolved joins are rendered.
// One output must use a single UnknownAgent sentinel throughout.
type NormalizeOptions struct {
	UnknownAgent string
}

// Normalize joins activities with their company and agent/manager names.
// Lookups are indexed once up front; the first record wins on duplicate ids.
// Inputs are not modified.
func Normalize(records []ActivityRecord, companies []CompanyRecord, agents []AgentRecord, opts NormalizeOptions) []NormalizedRecord {
	unknownAgent := opts.UnknownAgent
	if unknownAgent == "" {
		unknownAgent = UnknownAgent
	}

	companyNames := lo.SliceToMap(
		lo.UniqBy(companies, func(c CompanyRecord) string { return strings.TrimSpace(c.AccountReferenceNumber) }),
		func(c CompanyRecord) (string, string) { return strings.TrimSpace(c.AccountReferenceNumber), c.CompanyName },
	)
	agentNames := lo.SliceToMap(
		lo.UniqBy(agents, func(a AgentRecord) string { return strings.TrimSpace(a.ReferenceID) }),
		func(a AgentRecord) (string, string) { return strings.TrimSpace(a.ReferenceID), a.FullName() },
	)

	resolve := func(names map[string]string, id, fallback string) string {
		id = strings.TrimSpace(id)
		if id == "" {
			return fallback
		}
		if name, ok := names[id]; ok && strings.TrimSpace(name) != "" {
			return name
		}
		return fallback
	}

	out := make([]NormalizedRecord, len(records))
	for i, r := range records {
		out[i] = NormalizedRecord{
			ActivityRecord: r,
			CompanyName:    resolve(companyNames, r.AccountReferenceNumber, UnknownCompany),
			AgentName:      resolve(agentNames, r.ReferenceID, unknownAgent),
			ManagerName:    resolve(agentNames, r.ManagerID(), unknownAgent),
		}
	}
	return out
}
