package request

// UpdateFieldsRequest sets one or more scalar draft fields.
type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required,min=1"`
}

// LineItemRequest replaces a line item. Price is kept as typed.
type LineItemRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type DownloadRequest struct {
	Format string `json:"format" binding:"omitempty,oneof=png jpg jpeg pdf PNG JPG JPEG PDF"`
}
