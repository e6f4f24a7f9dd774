package document

import "encoding/xml"

const (
	nsOrder = "urn:oasis:names:specification:ubl:schema:xsd:Order-2"
	nsCAC   = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCBC   = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	ublVersion      = "2.1"
	customizationID = "urn:www.cenbii.eu:transaction:biicoretrdm001:ver1.0"
	profileID       = "urn:www.cenbii.eu:profile:BII01:ver1.0"
)

// Element names carry their literal cac/cbc prefixes; the namespaces are
// declared once on the root.

type orderDoc struct {
	XMLName  xml.Name `xml:"Order"`
	Xmlns    string   `xml:"xmlns,attr"`
	XmlnsCAC string   `xml:"xmlns:cac,attr"`
	XmlnsCBC string   `xml:"xmlns:cbc,attr"`

	UBLVersionID                string            `xml:"cbc:UBLVersionID"`
	CustomizationID             string            `xml:"cbc:CustomizationID"`
	ProfileID                   schemeText        `xml:"cbc:ProfileID"`
	ID                          int               `xml:"cbc:ID"`
	IssueDate                   string            `xml:"cbc:IssueDate"`
	IssueTime                   string            `xml:"cbc:IssueTime"`
	Note                        string            `xml:"cbc:Note"`
	DocumentCurrencyCode        string            `xml:"cbc:DocumentCurrencyCode"`
	AccountingCostCode          string            `xml:"cbc:AccountingCostCode"`
	ValidityPeriod              endDate           `xml:"cac:ValidityPeriod"`
	QuotationDocumentReference  idOnly            `xml:"cac:QuotationDocumentReference"`
	OrderDocumentReference      idOnly            `xml:"cac:OrderDocumentReference"`
	OriginatorDocumentReference idOnly            `xml:"cac:OriginatorDocumentReference"`
	AdditionalDocumentReference []docReference    `xml:"cac:AdditionalDocumentReference"`
	Contract                    contract          `xml:"cac:Contract"`
	BuyerCustomerParty          buyerParty        `xml:"cac:BuyerCustomerParty"`
	SellerSupplierParty         sellerParty       `xml:"cac:SellerSupplierParty"`
	OriginatorCustomerParty     originatorParty   `xml:"cac:OriginatorCustomerParty"`
	Delivery                    delivery          `xml:"cac:Delivery"`
	AllowanceCharge             []allowanceCharge `xml:"cac:AllowanceCharge"`
	TaxTotal                    taxTotal          `xml:"cac:TaxTotal"`
	AnticipatedMonetaryTotal    monetaryTotal     `xml:"cac:AnticipatedMonetaryTotal"`
	OrderLine                   []orderLine       `xml:"cac:OrderLine"`
}

// schemeText is a value qualified by schemeAgencyID then schemeID.
type schemeText struct {
	SchemeAgencyID string `xml:"schemeAgencyID,attr"`
	SchemeID       string `xml:"schemeID,attr"`
	Value          string `xml:",chardata"`
}

type amount struct {
	CurrencyID string `xml:"currencyID,attr"`
	Value      string `xml:",chardata"`
}

type quantity struct {
	UnitCode string `xml:"unitCode,attr"`
	Value    string `xml:",chardata"`
}

type idOnly struct {
	ID string `xml:"cbc:ID"`
}

type endDate struct {
	EndDate string `xml:"cbc:EndDate"`
}

type period struct {
	StartDate string `xml:"cbc:StartDate"`
	EndDate   string `xml:"cbc:EndDate"`
}

type docReference struct {
	ID           string      `xml:"cbc:ID"`
	DocumentType string      `xml:"cbc:DocumentType"`
	Attachment   *attachment `xml:"cac:Attachment,omitempty"`
}

type attachment struct {
	ExternalReference *externalReference `xml:"cac:ExternalReference,omitempty"`
	Embedded          *binaryObject      `xml:"cbc:EmbeddedDocumentBinaryObject,omitempty"`
}

type externalReference struct {
	URI string `xml:"cbc:URI"`
}

type binaryObject struct {
	MimeCode string `xml:"mimeCode,attr"`
	Value    string `xml:",chardata"`
}

type contract struct {
	ID           string `xml:"cbc:ID"`
	ContractType string `xml:"cbc:ContractType"`
}

type country struct {
	IdentificationCode string `xml:"cbc:IdentificationCode"`
}

type addressLines struct {
	Postbox              string `xml:"cbc:Postbox"`
	StreetName           string `xml:"cbc:StreetName"`
	AdditionalStreetName string `xml:"cbc:AdditionalStreetName"`
	BuildingNumber       string `xml:"cbc:BuildingNumber"`
	Department           string `xml:"cbc:Department"`
	CityName             string `xml:"cbc:CityName"`
	PostalZone           string `xml:"cbc:PostalZone"`
	CountrySubentity     string `xml:"cbc:CountrySubentity"`
}

// buyerPostalAddress keeps the buyer's country under the cbc prefix.
type buyerPostalAddress struct {
	addressLines
	Country country `xml:"cbc:Country"`
}

type postalAddress struct {
	addressLines
	Country country `xml:"cac:Country"`
}

type partyName struct {
	Name string `xml:"cbc:Name"`
}

type partyIdentification struct {
	ID schemeText `xml:"cbc:ID"`
}

type plainPartyIdentification struct {
	ID string `xml:"cbc:ID"`
}

type taxRegistrationAddress struct {
	CityName string  `xml:"cbc:CityName"`
	Country  country `xml:"cac:Country"`
}

type taxSchemeID struct {
	SchemeID       string `xml:"schemeID,attr"`
	SchemeAgencyID string `xml:"schemeAgencyID,attr"`
	ID             string `xml:"cbc:ID"`
}

type partyTaxScheme struct {
	RegistrationAddress taxRegistrationAddress `xml:"cac:RegistrationAddress"`
	TaxScheme           taxSchemeID            `xml:"cbc:TaxScheme"`
}

type companyID struct {
	SchemeID string `xml:"schemeID,attr"`
	Value    string `xml:",chardata"`
}

type legalRegistrationAddress struct {
	CityName         string  `xml:"cbc:CityName"`
	CountrySubentity string  `xml:"cbc:CountrySubentity"`
	Country          country `xml:"cac:Country"`
}

type partyLegalEntity struct {
	RegistrationName    string                   `xml:"cbc:RegistrationName"`
	CompanyID           companyID                `xml:"cbc:CompanyID"`
	RegistrationAddress legalRegistrationAddress `xml:"cac:RegistrationAddress"`
}

type contact struct {
	Telephone      string `xml:"cbc:Telephone"`
	Telefax        string `xml:"cbc:Telefax"`
	ElectronicMail string `xml:"cbc:ElectronicMail"`
}

type namedContact struct {
	Name           string `xml:"cbc:Name"`
	Telephone      string `xml:"cbc:Telephone"`
	Telefax        string `xml:"cbc:Telefax"`
	ElectronicMail string `xml:"cbc:ElectronicMail"`
}

type person struct {
	FirstName  string `xml:"cbc:FirstName"`
	FamilyName string `xml:"cbc:FamilyName"`
	MiddleName string `xml:"cbc:MiddleName"`
	JobTitle   string `xml:"cbc:JobTitle"`
}

// originatorPerson lists the middle name before the family name.
type originatorPerson struct {
	FirstName  string `xml:"cbc:FirstName"`
	MiddleName string `xml:"cbc:MiddleName"`
	FamilyName string `xml:"cbc:FamilyName"`
	JobTitle   string `xml:"cbc:JobTitle"`
}

type buyerParty struct {
	Party           buyerPartyDetail `xml:"cac:Party"`
	DeliveryContact namedContact     `xml:"cac:DeliveryContact"`
}

type buyerPartyDetail struct {
	EndpointID          schemeText          `xml:"cbc:EndpointID"`
	PartyIdentification partyIdentification `xml:"cac:PartyIdentification"`
	PartyName           partyName           `xml:"cac:PartyName"`
	PostalAddress       buyerPostalAddress  `xml:"cac:PostalAddress"`
	PartyTaxScheme      partyTaxScheme      `xml:"cac:PartyTaxScheme"`
	PartyLegalEntity    partyLegalEntity    `xml:"cac:PartyLegalEntity"`
	Contact             contact             `xml:"cac:Contact"`
	Person              person              `xml:"cac:Person"`
}

type sellerParty struct {
	Party sellerPartyDetail `xml:"cac:Party"`
}

type sellerPartyDetail struct {
	EndpointID          schemeText               `xml:"cbc:EndpointID"`
	PartyIdentification plainPartyIdentification `xml:"cac:PartyIdentification"`
	PartyName           partyName                `xml:"cac:PartyName"`
	PostalAddress       postalAddress            `xml:"cac:PostalAddress"`
	PartyLegalEntity    partyLegalEntity         `xml:"cac:PartyLegalEntity"`
	Contact             contact                  `xml:"cac:Contact"`
	Person              person                   `xml:"cac:Person"`
}

type originatorParty struct {
	Party originatorPartyDetail `xml:"cac:Party"`
}

type originatorPartyDetail struct {
	PartyIdentification partyIdentification `xml:"cac:PartyIdentification"`
	PartyName           partyName           `xml:"cac:PartyName"`
	Contact             contact             `xml:"cac:Contact"`
	Person              originatorPerson    `xml:"cac:Person"`
}

type deliveryLocation struct {
	Address postalAddress `xml:"cac:Address"`
}

type deliveryParty struct {
	PartyIdentification partyIdentification `xml:"cac:PartyIdentification"`
	PartyName           partyName           `xml:"cac:PartyName"`
	Contact             namedContact        `xml:"cac:Contact"`
}

type delivery struct {
	DeliveryLocation        deliveryLocation `xml:"cac:DeliveryLocation"`
	RequestedDeliveryPeriod period           `xml:"cac:RequestedDeliveryPeriod"`
	DeliveryParty           deliveryParty    `xml:"cac:DeliveryParty"`
}

type allowanceCharge struct {
	ChargeIndicator       string `xml:"cbc:ChargeIndicator"`
	AllowanceChargeReason string `xml:"cbc:AllowanceChargeReason"`
	Amount                amount `xml:"cbc:Amount"`
}

type taxTotal struct {
	TaxAmount amount `xml:"cbc:TaxAmount"`
}

type monetaryTotal struct {
	LineExtensionAmount  amount `xml:"cbc:LineExtensionAmount"`
	AllowanceTotalAmount amount `xml:"cbc:AllowanceTotalAmount"`
	ChargeTotalAmount    amount `xml:"cbc:ChargeTotalAmount"`
	PayableAmount        amount `xml:"cbc:PayableAmount"`
}

type orderLine struct {
	Note     string   `xml:"cbc:Note"`
	LineItem lineItem `xml:"cac:LineItem"`
}

type lineDelivery struct {
	RequestedDeliveryPeriod period `xml:"cbc:RequestedDeliveryPeriod"`
}

type price struct {
	PriceAmount  amount   `xml:"cbc:PriceAmount"`
	BaseQuantity quantity `xml:"cbc:BaseQuantity"`
}

type lineItem struct {
	ID                  int          `xml:"cbc:ID"`
	Quantity            quantity     `xml:"cbc:Quantity"`
	LineExtensionAmount amount       `xml:"cbc:LineExtensionAmount"`
	TotalTaxAmount      amount       `xml:"cbc:TotalTaxAmount"`
	Delivery            lineDelivery `xml:"cac:Delivery"`
	Price               price        `xml:"cbc:Price"`
	Item                item         `xml:"cac:Item"`
}

type item struct {
	Description               string         `xml:"cbc:Description"`
	Name                      string         `xml:"cbc:Name"`
	SellersItemIdentification idOnly         `xml:"cac:SellersItemIdentification"`
	AdditionalItemProperty    []itemProperty `xml:"cac:AdditionalItemProperty"`
}

type itemProperty struct {
	Name  string `xml:"cbc:Name"`
	Value string `xml:"cbc:Value"`
}
