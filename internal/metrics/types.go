package metrics

import "strings"

// ActivityRecord is a single activity/ticket row as delivered by the CRM API.
// Every field is optional; the zero value means "absent".
type ActivityRecord struct {
	ReferenceID            string `json:"referenceid,omitempty"` // agent
	TSM                    string `json:"tsm,omitempty"`         // manager
	Manager                string `json:"manager,omitempty"`     // legacy manager field
	AccountReferenceNumber string `json:"account_reference_number,omitempty"`
	TicketReferenceNumber  string `json:"ticket_reference_number,omitempty"`

	Traffic        string `json:"traffic,omitempty"`
	Status         string `json:"status,omitempty"`
	CustomerStatus string `json:"customer_status,omitempty"`
	CustomerType   string `json:"customer_type,omitempty"`
	Channel        string `json:"channel,omitempty"`
	Remarks        string `json:"remarks,omitempty"`
	WrapUp         string `json:"wrap_up,omitempty"`
	CallType       string `json:"call_type,omitempty"`
	CallStatus     string `json:"call_status,omitempty"`
	Source         string `json:"source,omitempty"`
	TypeClient     string `json:"type_client,omitempty"`
	TypeActivity   string `json:"type_activity,omitempty"`

	SOAmount string `json:"so_amount,omitempty"`
	QtySold  string `json:"qty_sold,omitempty"`

	DateCreated    string `json:"date_created,omitempty"`
	DateUpdated    string `json:"date_updated,omitempty"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	TicketReceived string `json:"ticket_received,omitempty"`
	TicketEndorsed string `json:"ticket_endorsed,omitempty"`
}

// ManagerID returns the manager reference, preferring tsm over the legacy manager field.
func (r ActivityRecord) ManagerID() string {
	if id := strings.TrimSpace(r.TSM); id != "" {
		return id
	}
	return strings.TrimSpace(r.Manager)
}

// Field returns the value of a field by its API name.
func (r ActivityRecord) Field(name string) (string, bool) {
	switch name {
	case "referenceid":
		return r.ReferenceID, true
	case "tsm":
		return r.TSM, true
	case "manager":
		return r.Manager, true
	case "account_reference_number":
		return r.AccountReferenceNumber, true
	case "ticket_reference_number":
		return r.TicketReferenceNumber, true
	case "traffic":
		return r.Traffic, true
	case "status":
		return r.Status, true
	case "customer_status":
		return r.CustomerStatus, true
	case "customer_type":
		return r.CustomerType, true
	case "channel":
		return r.Channel, true
	case "remarks":
		return r.Remarks, true
	case "wrap_up":
		return r.WrapUp, true
	case "call_type":
		return r.CallType, true
	case "call_status":
		return r.CallStatus, true
	case "source":
		return r.Source, true
	case "type_client":
		return r.TypeClient, true
	case "type_activity":
		return r.TypeActivity, true
	case "so_amount":
		return r.SOAmount, true
	case "qty_sold":
		return r.QtySold, true
	case "date_created":
		return r.DateCreated, true
	case "date_updated":
		return r.DateUpdated, true
	case "start_date":
		return r.StartDate, true
	case "end_date":
		return r.EndDate, true
	case "ticket_received":
		return r.TicketReceived, true
	case "ticket_endorsed":
		return r.TicketEndorsed, true
	}
	return "", false
}

// CompanyRecord is a customer account. Joined to activities by account_reference_number.
type CompanyRecord struct {
	AccountReferenceNumber string `json:"account_reference_number"`
	CompanyName            string `json:"company_name"`
	ContactPerson          string `json:"contact_person,omitempty"`
	ContactNumber          string `json:"contact_number,omitempty"`
	EmailAddress           string `json:"email_address,omitempty"`
}

// AgentRecord is a user of the CRM. Joined to activities as agent (referenceid)
// and, independently, as manager (tsm).
type AgentRecord struct {
	ReferenceID string `json:"ReferenceID"`
	Firstname   string `json:"Firstname"`
	Lastname    string `json:"Lastname"`
}

// FullName returns "Firstname Lastname" with blank parts dropped.
func (a AgentRecord) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.Firstname) + " " + strings.TrimSpace(a.Lastname))
}

// NormalizedRecord is an activity joined with its company and agent/manager names.
type NormalizedRecord struct {
	ActivityRecord
	CompanyName string `json:"company_name"`
	AgentName   string `json:"agent_name"`
	ManagerName string `json:"manager_name"`
}

// Dataset is the immutable input of one derivation pass.
type Dataset struct {
	Activities []ActivityRecord `json:"activities"`
	Companies  []CompanyRecord  `json:"companies"`
	Agents     []AgentRecord    `json:"agents"`
}
