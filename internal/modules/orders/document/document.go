// Package document renders an order aggregate into a UBL 2.1 Order document
// and computes its monetary totals.
//
// Build is pure: the issue timestamp is passed in and nothing is validated,
// so an incomplete aggregate renders with empty elements.
package document

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
)

const (
	glnAgency = "9"
	glnScheme = "GLN"
)

// Result is the rendered document and its totals.
type Result struct {
	XML            string
	AllowanceTotal decimal.Decimal
	ChargeTotal    decimal.Decimal
	// PayableAmount is lineExtensionAmount - allowances + charges.
	PayableAmount decimal.Decimal
	// TotalCost is PayableAmount + taxTotal.
	TotalCost decimal.Decimal
}

// Totals computes allowance, charge, payable and total cost without rendering.
func Totals(agg order.Aggregate) (allowance, charge, payable, total decimal.Decimal) {
	allowance, charge = decimal.Zero, decimal.Zero
	for _, ac := range agg.MonetaryTotal.AllowanceCharge {
		if ac.ChargeIndicator {
			charge = charge.Add(ac.Amount)
		} else {
			allowance = allowance.Add(ac.Amount)
		}
	}
	payable = agg.MonetaryTotal.LineExtensionAmount.Sub(allowance).Add(charge)
	total = payable.Add(agg.MonetaryTotal.TaxTotal)
	return allowance, charge, payable, total
}

// Build renders agg as order orderID issued at now.
func Build(agg order.Aggregate, orderID int, now time.Time) (Result, error) {
	allowance, charge, payable, total := Totals(agg)
	currency := agg.Order.DocumentCurrencyCode
	money := func(d decimal.Decimal) amount {
		return amount{CurrencyID: currency, Value: d.String()}
	}

	doc := orderDoc{
		Xmlns:                       nsOrder,
		XmlnsCAC:                    nsCAC,
		XmlnsCBC:                    nsCBC,
		UBLVersionID:                ublVersion,
		CustomizationID:             customizationID,
		ProfileID:                   schemeText{SchemeAgencyID: "BII", SchemeID: "Profile", Value: profileID},
		ID:                          orderID,
		IssueDate:                   now.UTC().Format("2006-01-02"),
		IssueTime:                   now.Format("15:04:05"),
		Note:                        agg.Order.Note,
		DocumentCurrencyCode:        currency,
		AccountingCostCode:          agg.Order.AccountingCostCode,
		ValidityPeriod:              endDate{EndDate: agg.Order.ValidityEndDate},
		QuotationDocumentReference:  idOnly{ID: agg.Order.QuotationDocumentReferenceID},
		OrderDocumentReference:      idOnly{ID: agg.Order.OrderDocumentReferenceID},
		OriginatorDocumentReference: idOnly{ID: agg.Order.OriginatorDocumentReferenceID},
		AdditionalDocumentReference: docReferences(agg.AdditionalDocumentReference),
		Contract: contract{
			ID:           optionalInt(agg.Order.ContractID),
			ContractType: agg.Order.ContractType,
		},
		BuyerCustomerParty:      buyer(agg.Buyer),
		SellerSupplierParty:     seller(agg.Seller),
		OriginatorCustomerParty: originator(agg.Seller),
		Delivery:                deliveryBlock(agg.Delivery),
		TaxTotal:                taxTotal{TaxAmount: money(agg.MonetaryTotal.TaxTotal)},
		AnticipatedMonetaryTotal: monetaryTotal{
			LineExtensionAmount:  money(agg.MonetaryTotal.LineExtensionAmount),
			AllowanceTotalAmount: money(allowance),
			ChargeTotalAmount:    money(charge),
			PayableAmount:        money(payable),
		},
	}

	for _, ac := range agg.MonetaryTotal.AllowanceCharge {
		doc.AllowanceCharge = append(doc.AllowanceCharge, allowanceCharge{
			ChargeIndicator:       ac.ChargeIndicator.String(),
			AllowanceChargeReason: ac.AllowanceChargeReason,
			Amount:                money(ac.Amount),
		})
	}

	requested := period{
		StartDate: agg.Delivery.RequestedDeliveryPeriod.StartDate,
		EndDate:   agg.Delivery.RequestedDeliveryPeriod.EndDate,
	}
	for i, line := range agg.OrderLines {
		li := line.LineItem
		unit := li.BaseQuantity.UnitCode
		ol := orderLine{
			Note: line.Note,
			LineItem: lineItem{
				ID:                  i + 1,
				Quantity:            quantity{UnitCode: unit, Value: li.Quantity.String()},
				LineExtensionAmount: money(li.Quantity.Mul(li.Price)),
				TotalTaxAmount:      money(li.TotalTaxAmount),
				Delivery:            lineDelivery{RequestedDeliveryPeriod: requested},
				Price: price{
					PriceAmount:  money(li.Price),
					BaseQuantity: quantity{UnitCode: unit, Value: li.BaseQuantity.Quantity.String()},
				},
				Item: item{
					Description:               li.Item.Description,
					Name:                      li.Item.Name,
					SellersItemIdentification: idOnly{ID: li.Item.ItemID.String()},
				},
			},
		}
		for _, p := range li.Item.Properties.Entries() {
			ol.LineItem.Item.AdditionalItemProperty = append(ol.LineItem.Item.AdditionalItemProperty, itemProperty{Name: p.Name, Value: p.Value})
		}
		doc.OrderLine = append(doc.OrderLine, ol)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal order %d: %w", orderID, err)
	}

	return Result{
		XML:            xml.Header + string(body),
		AllowanceTotal: allowance,
		ChargeTotal:    charge,
		PayableAmount:  payable,
		TotalCost:      total,
	}, nil
}

func optionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func gln(v string) schemeText {
	return schemeText{SchemeAgencyID: glnAgency, SchemeID: glnScheme, Value: v}
}

func docReferences(refs []order.DocumentReference) []docReference {
	if len(refs) == 0 {
		return nil
	}
	out := make([]docReference, 0, len(refs))
	for i, ref := range refs {
		dr := docReference{
			ID:           "doc" + strconv.Itoa(i+1),
			DocumentType: ref.DocumentType,
		}
		if a := ref.Attachment; a != nil {
			dr.Attachment = &attachment{}
			switch {
			case a.URI != "":
				dr.Attachment.ExternalReference = &externalReference{URI: a.URI}
			case a.BinaryObject != "" && a.MimeCode != "":
				dr.Attachment.Embedded = &binaryObject{MimeCode: a.MimeCode, Value: a.BinaryObject}
			}
		}
		out = append(out, dr)
	}
	return out
}

func lines(a order.Address) addressLines {
	return addressLines{
		Postbox:              a.PostBox,
		StreetName:           a.StreetName,
		AdditionalStreetName: a.AdditionalStreetName,
		BuildingNumber:       a.BuildingNumber,
		Department:           a.Department,
		CityName:             a.CityName,
		PostalZone:           a.PostalZone,
		CountrySubentity:     a.CountrySubentity,
	}
}

func legalEntity(name, id string, a order.Address) partyLegalEntity {
	return partyLegalEntity{
		RegistrationName: name,
		CompanyID:        companyID{SchemeID: "SE:ORGNR", Value: id},
		RegistrationAddress: legalRegistrationAddress{
			CityName:         a.CityName,
			CountrySubentity: a.CountrySubentity,
			Country:          country{IdentificationCode: a.CountryCode},
		},
	}
}

func contactOf(c order.Contact) contact {
	return contact{Telephone: c.Telephone, Telefax: c.Telefax, ElectronicMail: c.Email}
}

func personOf(p order.Person) person {
	return person{FirstName: p.FirstName, FamilyName: p.FamilyName, MiddleName: p.MiddleName, JobTitle: p.JobTitle}
}

func buyer(b order.Buyer) buyerParty {
	return buyerParty{
		Party: buyerPartyDetail{
			EndpointID:          gln(b.BuyerID),
			PartyIdentification: partyIdentification{ID: gln(b.BuyerID)},
			PartyName:           partyName{Name: b.Name},
			PostalAddress: buyerPostalAddress{
				addressLines: lines(b.PostalAddress),
				Country:      country{IdentificationCode: b.PostalAddress.CountryCode},
			},
			PartyTaxScheme: partyTaxScheme{
				RegistrationAddress: taxRegistrationAddress{
					CityName: b.PostalAddress.CityName,
					Country:  country{IdentificationCode: b.PostalAddress.CountryCode},
				},
				TaxScheme: taxSchemeID{SchemeID: "UN/ECE 515", SchemeAgencyID: "6", ID: b.TaxScheme},
			},
			PartyLegalEntity: legalEntity(b.Name, b.BuyerID, b.PostalAddress),
			Contact:          contactOf(b.Contact),
			Person:           personOf(b.Person),
		},
		DeliveryContact: namedContact{
			Name:           b.DeliveryContact.Name,
			Telephone:      b.DeliveryContact.Telephone,
			Telefax:        b.DeliveryContact.Telefax,
			ElectronicMail: b.DeliveryContact.Email,
		},
	}
}

func seller(s order.Seller) sellerParty {
	return sellerParty{
		Party: sellerPartyDetail{
			EndpointID:          gln(s.SellerID),
			PartyIdentification: plainPartyIdentification{ID: s.SellerID},
			PartyName:           partyName{Name: s.Name},
			PostalAddress: postalAddress{
				addressLines: lines(s.PostalAddress),
				Country:      country{IdentificationCode: s.PostalAddress.CountryCode},
			},
			PartyLegalEntity: legalEntity(s.Name, s.SellerID, s.PostalAddress),
			Contact:          contactOf(s.Contact),
			Person:           personOf(s.Person),
		},
	}
}

// originator describes the originating customer from the seller's details.
func originator(s order.Seller) originatorParty {
	return originatorParty{
		Party: originatorPartyDetail{
			PartyIdentification: partyIdentification{ID: gln(s.SellerID)},
			PartyName:           partyName{Name: s.Name},
			Contact:             contactOf(s.Contact),
			Person: originatorPerson{
				FirstName:  s.Person.FirstName,
				MiddleName: s.Person.MiddleName,
				FamilyName: s.Person.FamilyName,
				JobTitle:   s.Person.JobTitle,
			},
		},
	}
}

func deliveryBlock(d order.Delivery) delivery {
	dp := d.DeliveryParty
	return delivery{
		DeliveryLocation: deliveryLocation{
			Address: postalAddress{
				addressLines: lines(d.DeliveryAddress),
				Country:      country{IdentificationCode: d.DeliveryAddress.CountryCode},
			},
		},
		RequestedDeliveryPeriod: period{
			StartDate: d.RequestedDeliveryPeriod.StartDate,
			EndDate:   d.RequestedDeliveryPeriod.EndDate,
		},
		DeliveryParty: deliveryParty{
			// The party is identified by name; deliveryPartyId is not rendered.
			PartyIdentification: partyIdentification{ID: gln(dp.Name)},
			PartyName:           partyName{Name: dp.Name},
			Contact: namedContact{
				Name:           dp.Name,
				Telephone:      dp.Telephone,
				Telefax:        dp.Telefax,
				ElectronicMail: dp.Email,
			},
		},
	}
}
