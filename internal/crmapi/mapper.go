package crmapi

import (
	"crm-metrics/internal/metrics"
)

// MapActivity converts an activity DTO into the engine's record type.
// Values are copied verbatim; the engine owns parsing and trimming.
func MapActivity(dto ActivityDTO) metrics.ActivityRecord {
	return metrics.ActivityRecord{
		ReferenceID:            string(dto.ReferenceID),
		TSM:                    string(dto.TSM),
		Manager:                string(dto.Manager),
		AccountReferenceNumber: string(dto.AccountReferenceNumber),
		TicketReferenceNumber:  string(dto.TicketReferenceNumber),
		Traffic:                string(dto.Traffic),
		Status:                 string(dto.Status),
		CustomerStatus:         string(dto.CustomerStatus),
		CustomerType:           string(dto.CustomerType),
		Channel:                string(dto.Channel),
		Remarks:                string(dto.Remarks),
		WrapUp:                 string(dto.WrapUp),
		CallType:               string(dto.CallType),
		CallStatus:             string(dto.CallStatus),
		Source:                 string(dto.Source),
		TypeClient:             string(dto.TypeClient),
		TypeActivity:           string(dto.TypeActivity),
		SOAmount:               string(dto.SOAmount),
		QtySold:                string(dto.QtySold),
		DateCreated:            string(dto.DateCreated),
		DateUpdated:            string(dto.DateUpdated),
		StartDate:              string(dto.StartDate),
		EndDate:                string(dto.EndDate),
		TicketReceived:         string(dto.TicketReceived),
		TicketEndorsed:         string(dto.TicketEndorsed),
	}
}

// MapCompany converts a company DTO.
func MapCompany(dto CompanyDTO) metrics.CompanyRecord {
	return metrics.CompanyRecord{
		AccountReferenceNumber: string(dto.AccountReferenceNumber),
		CompanyName:            string(dto.CompanyName),
		ContactPerson:          string(dto.ContactPerson),
		ContactNumber:          string(dto.ContactNumber),
		EmailAddress:           string(dto.EmailAddress),
	}
}

// MapAgent converts an agent DTO.
func MapAgent(dto AgentDTO) metrics.AgentRecord {
	return metrics.AgentRecord{
		ReferenceID: string(dto.ReferenceID),
		Firstname:   string(dto.Firstname),
		Lastname:    string(dto.Lastname),
	}
}
