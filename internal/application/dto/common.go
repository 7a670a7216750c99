package dto

import "github.com/jhoicas/nutrition-program-api/internal/domain"

// SuccessResponse sobre de respuesta exitosa.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Success siempre es false.
// ActiveContractor solo se envía en conflictos de exclusividad para que el cliente
// pueda ofrecer "desactivar y reintentar".
type ErrorResponse struct {
	Success          bool                  `json:"success"`
	Code             string                `json:"code"`
	Message          string                `json:"message"`
	Errors           []string              `json:"errors,omitempty"`
	ActiveContractor *domain.ContractorRef `json:"activeContractor,omitempty"`
}

// OK construye un SuccessResponse con datos.
func OK(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

// Fail construye un ErrorResponse con código y mensaje.
func Fail(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Code: code, Message: message}
}
