package dto

// ListQuery parámetros de listado. Limit 0 aplica el valor por defecto del servicio.
type ListQuery struct {
	Limit int `query:"limit" validate:"min=0"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldError detalle de validación de un campo.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationErrorResponse cuerpo de error de validación estructural (400).
type ValidationErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}
