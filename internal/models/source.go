package models

type SourceTier string

const (
	TierPrimary   SourceTier = "primary"
	TierSecondary SourceTier = "secondary"
	TierMock      SourceTier = "mock"
)

// PayloadShape tells how a remote source encodes products.
type PayloadShape string

const (
	// ShapeCanonical payloads already match Product.
	ShapeCanonical PayloadShape = "canonical"
	// ShapeExternal payloads use the minimal {id,title,price,description,category,image} shape.
	ShapeExternal PayloadShape = "external"
)

// SourceConfig is the outcome of a connectivity probe. It is a value: the query path receives it
// as an argument and never reads shared selection state.
type SourceConfig struct {
	Tier         SourceTier   `json:"tier"`
	BaseURL      string       `json:"baseUrl,omitempty"`
	ProductsPath string       `json:"productsPath,omitempty"`
	Shape        PayloadShape `json:"shape,omitempty"`
}

func (c SourceConfig) UseMock() bool {
	return c.Tier == TierMock
}

func MockSource() SourceConfig {
	return SourceConfig{Tier: TierMock}
}

type ProbeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
