package entity

import "time"

// Contractor representa al proveedor (contratista) del programa de alimentación escolar.
// NICNumber es la identidad externa: única e inmutable una vez creado.
type Contractor struct {
	ID                 string
	NICNumber          string
	FullName           string
	ContactNumber      string
	Address            string
	AgreementNumber    string
	AgreementStartDate *time.Time
	AgreementEndDate   *time.Time
	Active             bool // como máximo un contratista activo en todo el sistema
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Supporter es el respaldo (cero o uno) de un contratista.
type Supporter struct {
	ID            string
	ContractorID  string
	NICNumber     string
	Name          string
	ContactNumber string
	Address       string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ContractorView es la lectura unida contratista + supporter (LEFT JOIN).
// HasSupporter se deriva de la existencia de la fila, no de los datos guardados.
type ContractorView struct {
	Contractor
	HasSupporter bool
	Supporter    *Supporter
}
