package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersonName(t *testing.T) {
	tests := map[string]string{
		"O'Brien":     "",
		"Smith-Jones": "",
		"Zoë":         "",
		"SMI%":        "",
		"SMITH%":      "",
		"SM%":         MsgWildcardPrefix,
		"%SMITH":      MsgWildcardPrefix,
		"S M%":        MsgWildcardPrefix,
		"Smith2":      MsgNameCharacters,
		"Smith_":      MsgNameCharacters,
	}
	for in, want := range tests {
		assert.Equal(t, want, PersonName(in), in)
	}
}

func TestCompanyName(t *testing.T) {
	assert.Equal(t, "", CompanyName("Smith & Sons Pty. Ltd"))
	assert.Equal(t, "", CompanyName("ACM%"))
	assert.Equal(t, MsgWildcardPrefix, CompanyName("AC%"))
	assert.Equal(t, MsgCompanyCharacters, CompanyName("ACME#1"))
}

func TestNumericBucket(t *testing.T) {
	assert.Equal(t, "", Postcode("2000"))
	assert.Equal(t, MsgPostcode, Postcode("200"))
	assert.Equal(t, "", ACN("000 000 019"))
	assert.Equal(t, MsgACN, ACN("12345678"))
	assert.Equal(t, MsgACN, ACN("12345678A"))
	assert.Equal(t, "", CouncilNumber("12-34 56"))
	assert.Equal(t, MsgCouncilNumber, CouncilNumber("--"))
	assert.Equal(t, "", DealingNumber("1234567"))
	assert.Equal(t, MsgDealingNumber, DealingNumber("AB1234"))
}

func TestAddressBucket(t *testing.T) {
	assert.Equal(t, "", StreetNumber("12"))
	assert.Equal(t, "", StreetNumber("12a"))
	assert.Equal(t, "", StreetNumber("12-14"))
	assert.Equal(t, MsgStreetNumber, StreetNumber("twelve"))
	assert.Equal(t, "", UnitNumber("G01"))
	assert.Equal(t, MsgUnitNumber, UnitNumber("3/4"))
	assert.Equal(t, "", StreetName("St. George's Tce"))
	assert.Equal(t, MsgStreetNameCharacter, StreetName("Main St #2"))
	assert.Equal(t, "", Suburb("Glen Osmond"))
	assert.Equal(t, MsgSuburbCharacters, Suburb("Glen2"))
	assert.Equal(t, "", CouncilName("Port Phillip"))
	assert.Equal(t, MsgCouncilName, CouncilName("City of 3"))
}
