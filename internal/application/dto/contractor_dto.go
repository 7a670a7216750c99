package dto

import "time"

// ContractorRequest entrada para crear o reemplazar un contratista.
// En PUT el NIC viene de la ruta y NICNumber se ignora (inmutable).
// HasSupporter acepta "yes"/"no" o booleano JSON.
type ContractorRequest struct {
	NICNumber          string       `json:"nic_number"`
	FullName           string       `json:"full_name"`
	ContactNumber      string       `json:"contact_number"`
	Address            string       `json:"address"`
	AgreementNumber    string       `json:"agreement_number"`
	AgreementStartDate *string      `json:"agreement_start_date"`
	AgreementEndDate   *string      `json:"agreement_end_date"`
	Active             FlexBool     `json:"active"`
	HasSupporter       FlexBool     `json:"has_supporter"`
	Supporter          *SupporterIn `json:"supporter,omitempty"`
}

// SupporterIn datos del supporter dentro de ContractorRequest.
type SupporterIn struct {
	NICNumber     string   `json:"nic_number"`
	Name          string   `json:"name"`
	ContactNumber string   `json:"contact_number"`
	Address       string   `json:"address"`
	Active        FlexBool `json:"active"`
}

// ContractorResponse vista unida contratista + supporter.
type ContractorResponse struct {
	ID                 string             `json:"id"`
	NICNumber          string             `json:"nic_number"`
	FullName           string             `json:"full_name"`
	ContactNumber      string             `json:"contact_number"`
	Address            string             `json:"address"`
	AgreementNumber    string             `json:"agreement_number"`
	AgreementStartDate *string            `json:"agreement_start_date"`
	AgreementEndDate   *string            `json:"agreement_end_date"`
	Active             bool               `json:"active"`
	HasSupporter       bool               `json:"has_supporter"`
	Supporter          *SupporterResponse `json:"supporter"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// SupporterResponse datos del supporter en la vista unida.
type SupporterResponse struct {
	ID            string `json:"id"`
	NICNumber     string `json:"nic_number"`
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
	Active        bool   `json:"active"`
}
