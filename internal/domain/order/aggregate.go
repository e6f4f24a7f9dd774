// Package order holds the purchase-order aggregate accepted at the API
// boundary and the relational rows it is persisted into.
package order

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Aggregate is one purchase order as submitted by a caller. It is never stored
// as-is; only its rendered XML and derived rows are persisted.
type Aggregate struct {
	Order                       Header              `json:"order"`
	Buyer                       Buyer               `json:"buyer"`
	Seller                      Seller              `json:"seller"`
	Delivery                    Delivery            `json:"delivery"`
	MonetaryTotal               MonetaryTotal       `json:"monetaryTotal"`
	OrderLines                  []Line              `json:"orderLines" validate:"required,min=1,dive"`
	AdditionalDocumentReference []DocumentReference `json:"additionalDocumentReference,omitempty" validate:"omitempty,dive"`
}

type Header struct {
	Note                          string `json:"note" validate:"required"`
	DocumentCurrencyCode          string `json:"documentCurrencyCode" validate:"required"`
	AccountingCostCode            string `json:"accountingCostCode" validate:"required"`
	ValidityEndDate               string `json:"validityEndDate" validate:"required,isodate"`
	QuotationDocumentReferenceID  string `json:"quotationDocumentReferenceId" validate:"required"`
	OrderDocumentReferenceID      string `json:"orderDocumentReferenceId" validate:"required"`
	OriginatorDocumentReferenceID string `json:"originatorDocumentReferenceId" validate:"required"`
	ContractType                  string `json:"contractType" validate:"required"`
	ContractID                    *int64 `json:"contractId" validate:"required"`
}

type Address struct {
	PostBox              string `json:"postBox" validate:"required"`
	StreetName           string `json:"streetName" validate:"required"`
	AdditionalStreetName string `json:"additionalStreetName,omitempty"`
	BuildingName         string `json:"buildingName,omitempty"`
	BuildingNumber       string `json:"buildingNumber" validate:"required"`
	Department           string `json:"department" validate:"required"`
	CityName             string `json:"cityName" validate:"required"`
	PostalZone           string `json:"postalZone" validate:"required"`
	CountrySubentity     string `json:"countrySubentity" validate:"required"`
	CountryCode          string `json:"countryCode" validate:"required,len=2"`
}

type Contact struct {
	Telephone string `json:"telephone" validate:"required"`
	Telefax   string `json:"telefax,omitempty"`
	Email     string `json:"email" validate:"required,email"`
}

type Person struct {
	FirstName  string `json:"firstName" validate:"required"`
	MiddleName string `json:"middleName,omitempty"`
	FamilyName string `json:"familyName" validate:"required"`
	JobTitle   string `json:"jobTitle" validate:"required"`
}

type DeliveryContact struct {
	Name      string `json:"name" validate:"required"`
	Telephone string `json:"telephone" validate:"required"`
	Telefax   string `json:"telefax,omitempty"`
	Email     string `json:"email" validate:"required,email"`
}

type Buyer struct {
	BuyerID         string          `json:"buyerId" validate:"required,len=13"`
	Name            string          `json:"name" validate:"required"`
	PostalAddress   Address         `json:"postalAddress"`
	TaxScheme       string          `json:"taxScheme" validate:"required,eq=VAT"`
	Contact         Contact         `json:"contact"`
	Person          Person          `json:"person"`
	DeliveryContact DeliveryContact `json:"deliveryContact"`
}

type Seller struct {
	SellerID      string  `json:"sellerId" validate:"required,len=13"`
	Name          string  `json:"name" validate:"required"`
	PostalAddress Address `json:"postalAddress"`
	Contact       Contact `json:"contact"`
	Person        Person  `json:"person"`
}

type Period struct {
	StartDate string `json:"startDate" validate:"required,isodate"`
	EndDate   string `json:"endDate" validate:"required,isodate"`
}

type DeliveryParty struct {
	DeliveryPartyID *int64 `json:"deliveryPartyId" validate:"required"`
	Name            string `json:"name" validate:"required"`
	Telephone       string `json:"telephone" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Telefax         string `json:"telefax,omitempty"`
}

type Delivery struct {
	DeliveryAddress         Address       `json:"deliveryAddress"`
	RequestedDeliveryPeriod Period        `json:"requestedDeliveryPeriod"`
	DeliveryParty           DeliveryParty `json:"deliveryParty"`
}

type MonetaryTotal struct {
	LineExtensionAmount decimal.Decimal   `json:"lineExtensionAmount"`
	TaxTotal            decimal.Decimal   `json:"taxTotal"`
	AllowanceCharge     []AllowanceCharge `json:"allowanceCharge" validate:"dive"`

	absent absentKeys
}

type AllowanceCharge struct {
	ChargeIndicator       ChargeIndicator `json:"chargeIndicator"`
	AllowanceChargeReason string          `json:"allowanceChargeReason" validate:"required"`
	Amount                decimal.Decimal `json:"amount"`

	absent absentKeys
}

type Line struct {
	Note     string   `json:"note" validate:"required"`
	LineItem LineItem `json:"lineItem"`
}

type LineItem struct {
	Quantity       decimal.Decimal `json:"quantity"`
	TotalTaxAmount decimal.Decimal `json:"totalTaxAmount"`
	Price          decimal.Decimal `json:"price"`
	BaseQuantity   BaseQuantity    `json:"baseQuantity"`
	Item           Item            `json:"item"`

	absent absentKeys
}

type BaseQuantity struct {
	Quantity decimal.Decimal `json:"quantity"`
	UnitCode string          `json:"unitCode" validate:"required"`

	absent absentKeys
}

type Item struct {
	ItemID      ItemID     `json:"itemId" validate:"required"`
	Description string     `json:"description" validate:"required"`
	Name        string     `json:"name" validate:"required"`
	Properties  Properties `json:"properties"`
}

type DocumentReference struct {
	DocumentType string      `json:"documentType" validate:"required"`
	Attachment   *Attachment `json:"attachment,omitempty"`
}

// Attachment carries either an external URI or an embedded base64 payload.
type Attachment struct {
	URI          string `json:"uri,omitempty" validate:"omitempty,uri"`
	BinaryObject string `json:"binaryObject,omitempty" validate:"omitempty,base64"`
	MimeCode     string `json:"mimeCode,omitempty"`
}

// ChargeIndicator is true for a charge and false for an allowance. JSON true
// and the string "true" decode to a charge; anything else is an allowance.
type ChargeIndicator bool

func (c *ChargeIndicator) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ChargeIndicator(s == "true")
		return nil
	}
	*c = ChargeIndicator(string(data) == "true")
	return nil
}

func (c ChargeIndicator) String() string {
	return strconv.FormatBool(bool(c))
}

// ItemID accepts both JSON numbers and strings; CSV input is always a string.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) String() string { return string(id) }
