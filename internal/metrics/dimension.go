package metrics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDimension is returned by ParseDimension for unsupported dimensions.
var ErrUnknownDimension = errors.New("unknown dimension")

// Dimension is a grouping axis of a report.
type Dimension string

const (
	DimensionAgent        Dimension = "agent"
	DimensionManager      Dimension = "manager"
	DimensionChannel      Dimension = "channel"
	DimensionCustomerType Dimension = "customer_type"
	DimensionTicketGroup  Dimension = "ticket_group"
	DimensionCompany      Dimension = "company"
)

// Dimensions lists the supported dimensions in display order.
var Dimensions = []Dimension{
	DimensionAgent,
	DimensionManager,
	DimensionChannel,
	DimensionCustomerType,
	DimensionTicketGroup,
	DimensionCompany,
}

// ParseDimension resolves a user-supplied dimension. Blank means agent.
func ParseDimension(s string) (Dimension, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "" {
		return DimensionAgent, nil
	}
	switch s {
	case "tsm":
		return DimensionManager, nil
	case "csr":
		return DimensionAgent, nil
	}
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, s)
}

// Title is the column heading for the dimension.
func (d Dimension) Title() string {
	switch d {
	case DimensionAgent:
		return "Agent"
	case DimensionManager:
		return "Manager"
	case DimensionChannel:
		return "Channel"
	case DimensionCustomerType:
		return "Customer Type"
	case DimensionTicketGroup:
		return "Ticket Group"
	case DimensionCompany:
		return "Company"
	}
	return string(d)
}

// KeyFunc returns the grouping key extractor. Each dimension reads exactly one field.
func (d Dimension) KeyFunc() KeyFunc {
	switch d {
	case DimensionAgent:
		return func(r NormalizedRecord) string { return r.ReferenceID }
	case DimensionManager:
		return func(r NormalizedRecord) string { return r.ManagerID() }
	case DimensionChannel:
		return func(r NormalizedRecord) string { return r.Channel }
	case DimensionCustomerType:
		return func(r NormalizedRecord) string { return r.CustomerType }
	case DimensionTicketGroup:
		return func(r NormalizedRecord) string { return r.Source }
	case DimensionCompany:
		return func(r NormalizedRecord) string { return r.AccountReferenceNumber }
	}
	return func(NormalizedRecord) string { return "" }
}

// labelOf returns the display label carried by a normalized record for d.
func (d Dimension) labelOf(r NormalizedRecord) string {
	switch d {
	case DimensionAgent:
		return r.AgentName
	case DimensionManager:
		return r.ManagerName
	case DimensionCompany:
		return r.CompanyName
	}
	return ""
}

// Labels indexes the display label of every key of d found in records.
// Dimensions without a name lookup label groups by their key.
func (d Dimension) Labels(records []NormalizedRecord) LabelFunc {
	key := d.KeyFunc()
	labels := make(map[string]string)
	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" {
			continue
		}
		if _, seen := labels[k]; !seen {
			labels[k] = d.labelOf(r)
		}
	}
	return func(k string) string {
		return labels[k]
	}
}
