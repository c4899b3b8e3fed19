package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/titleorder/pkg/errors"
)

func TestDefault_NineJurisdictionsWithProducts(t *testing.T) {
	c := Default()
	withProducts := 0
	for _, info := range Jurisdictions() {
		if len(c.ProductsFor(info.Code)) > 0 {
			withProducts++
		}
	}
	assert.Equal(t, 9, withProducts)
	assert.Empty(t, c.ProductsFor(JurisdictionAll))
	assert.Empty(t, c.ProductsFor(Jurisdiction("XX")))
}

func TestDefault_ProductCount(t *testing.T) {
	assert.Len(t, Default().All(), 36)
}

func TestProductsFor_OrderAndDefaults(t *testing.T) {
	products := Default().ProductsFor(JurisdictionNSW)
	require.Len(t, products, 6)
	assert.Equal(t, ProductNSWTitle, products[0].Code)
	assert.Equal(t, ProductNSWDealing, products[5].Code)
	for _, p := range products {
		assert.Equal(t, JurisdictionNSW, p.Jurisdiction)
		assert.NotEmpty(t, p.Fulfilment)
		assert.NotEmpty(t, p.Notification)
		assert.NotEmpty(t, p.Fields)
	}
}

func TestProductsFor_ReturnsCopies(t *testing.T) {
	c := Default()
	first := c.ProductsFor(JurisdictionSA)
	first[0].Label = "mutated"
	first[0].Fields[0].Label = "mutated"

	again := c.ProductsFor(JurisdictionSA)
	assert.Equal(t, "Volume/Folio", again[0].Label)
	assert.Equal(t, FieldTitleReference, again[0].Fields[0].Label)
}

func TestUniqueKeys(t *testing.T) {
	codes := map[ProductCode]bool{}
	types := map[SearchTypeID]bool{}
	for _, p := range Default().All() {
		assert.False(t, codes[p.Code], "duplicate code %s", p.Code)
		assert.False(t, types[p.SearchTypeID], "duplicate search type %s", p.SearchTypeID)
		codes[p.Code] = true
		types[p.SearchTypeID] = true
	}
}

func TestProductLookups(t *testing.T) {
	c := Default()

	p, err := c.Product(ProductQLDTitle)
	require.NoError(t, err)
	assert.Equal(t, QLDTitleReference, p.SearchTypeID)
	assert.Equal(t, NotificationBlocking, p.Notification)

	p, err = c.ProductBySearchType(VICCouncil)
	require.NoError(t, err)
	assert.True(t, p.Unavailable)

	_, err = c.Product("NOPE")
	assert.True(t, errors.IsCode(err, errors.CodeUnknownProduct))
	_, err = c.ProductBySearchType("NOPE")
	assert.True(t, errors.IsCode(err, errors.CodeUnknownProduct))
}

func TestResolveChainProduct(t *testing.T) {
	c := Default()
	for _, info := range Jurisdictions() {
		if info.Code == JurisdictionAll {
			_, err := c.ResolveChainProduct(info.Code)
			assert.True(t, errors.IsNotFound(err))
			continue
		}
		chain, err := c.ResolveChainProduct(info.Code)
		require.NoError(t, err, info.Code)
		assert.Equal(t, info.Code, chain.Jurisdiction)
		assert.False(t, chain.Chained)
		assert.Len(t, chain.Fields, 1)
	}
}

func TestChainedProductsResolve(t *testing.T) {
	c := Default()
	for _, p := range c.All() {
		if !p.Chained {
			continue
		}
		_, err := c.ResolveChainProduct(p.Jurisdiction)
		assert.NoError(t, err, p.Code)
	}
}

func TestSearchProduct_Field(t *testing.T) {
	p, err := Default().Product(ProductSAAddress)
	require.NoError(t, err)

	f, ok := p.Field(FieldStreetName)
	assert.True(t, ok)
	assert.True(t, f.Required)
	_, ok = p.Field("Colour")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in      string
		want    Jurisdiction
		wantErr bool
	}{
		{"nsw", JurisdictionNSW, false},
		{" Victoria ", JurisdictionVIC, false},
		{"western australia", JurisdictionWA, false},
		{"ASIC", JurisdictionCTH, false},
		{"all", JurisdictionAll, false},
		{"NZ", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if tt.wantErr {
			assert.True(t, errors.IsValidation(err), tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestInfoAndAliases(t *testing.T) {
	info, ok := Info(JurisdictionTAS)
	require.True(t, ok)
	assert.Equal(t, "Tasmania", info.Name)
	_, ok = Info("XX")
	assert.False(t, ok)

	assert.Equal(t, []string{"ASIC", "COMMONWEALTH"}, Aliases(JurisdictionCTH))
	assert.Equal(t, JurisdictionAll, Jurisdictions()[len(Jurisdictions())-1].Code)
}
