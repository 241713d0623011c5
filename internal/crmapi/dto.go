package crmapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// FlexString decodes a JSON string, number or boolean into its text form.
// null and nested values decode to "". The CRM sends amounts both as
// numbers and as strings depending on the endpoint.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '{', '[':
		*f = ""
	default:
		// number or boolean literal
		*f = FlexString(b)
	}
	return nil
}

// ActivityDTO is an activity row as returned by the activities endpoint.
type ActivityDTO struct {
	ReferenceID            FlexString `json:"referenceid"`
	TSM                    FlexString `json:"tsm"`
	Manager                FlexString `json:"manager"`
	AccountReferenceNumber FlexString `json:"account_reference_number"`
	TicketReferenceNumber  FlexString `json:"ticket_reference_number"`

	Traffic        FlexString `json:"traffic"`
	Status         FlexString `json:"status"`
	CustomerStatus FlexString `json:"customer_status"`
	CustomerType   FlexString `json:"customer_type"`
	Channel        FlexString `json:"channel"`
	Remarks        FlexString `json:"remarks"`
	WrapUp         FlexString `json:"wrap_up"`
	CallType       FlexString `json:"call_type"`
	CallStatus     FlexString `json:"call_status"`
	Source         FlexString `json:"source"`
	TypeClient     FlexString `json:"type_client"`
	TypeActivity   FlexString `json:"type_activity"`

	SOAmount FlexString `json:"so_amount"`
	QtySold  FlexString `json:"qty_sold"`

	DateCreated    FlexString `json:"date_created"`
	DateUpdated    FlexString `json:"date_updated"`
	StartDate      FlexString `json:"start_date"`
	EndDate        FlexString `json:"end_date"`
	TicketReceived FlexString `json:"ticket_received"`
	TicketEndorsed FlexString `json:"ticket_endorsed"`
}

// CompanyDTO is a row of the companies endpoint.
type CompanyDTO struct {
	AccountReferenceNumber FlexString `json:"account_reference_number"`
	CompanyName            FlexString `json:"company_name"`
	ContactPerson          FlexString `json:"contact_person"`
	ContactNumber          FlexString `json:"contact_number"`
	EmailAddress           FlexString `json:"email_address"`
}

// AgentDTO is a row of the agents (users) endpoint.
type AgentDTO struct {
	ReferenceID FlexString `json:"ReferenceID"`
	Firstname   FlexString `json:"Firstname"`
	Lastname    FlexString `json:"Lastname"`
}

// decodeList accepts either a bare JSON array or an envelope {"data": [...]}.
func decodeList[T any](r io.Reader) ([]T, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}

	switch body[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var envelope struct {
			Data  []T    `json:"data"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		if envelope.Error != "" {
			return nil, fmt.Errorf("CRM API error: %s", envelope.Error)
		}
		if envelope.Data == nil {
			return []T{}, nil
		}
		return envelope.Data, nil
	}
	return nil, fmt.Errorf("unexpected response body starting with %q", body[0])
}
