package dto

// CreateProductRequest entrada para crear un producto del catálogo.
type CreateProductRequest struct {
	Description string `json:"description" validate:"required,min=1,max=255"`
	OutputUnit  string `json:"output_unit" validate:"required,min=1,max=6"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	OutputUnit  string `json:"output_unit"`
}
