// Package ordertest builds valid order aggregates for tests.
package ordertest

import (
	"github.com/shopspring/decimal"

	"github.com/yungbote/orderdoc-backend/internal/domain/order"
)

func int64p(v int64) *int64 { return &v }

func address(street string) order.Address {
	return order.Address{
		PostBox:          "PO 12",
		StreetName:       street,
		BuildingNumber:   "7",
		Department:       "Purchasing",
		CityName:         "Sydney",
		PostalZone:       "2000",
		CountrySubentity: "NSW",
		CountryCode:      "AU",
	}
}

// Sample returns a valid aggregate with a single line (itemId "1001", quantity 2, price 50).
func Sample() order.Aggregate {
	return order.Aggregate{
		Order: order.Header{
			Note:                          "Deliver before noon",
			DocumentCurrencyCode:          "AUD",
			AccountingCostCode:            "ACC-1",
			ValidityEndDate:               "2026-12-31",
			QuotationDocumentReferenceID:  "Q-1",
			OrderDocumentReferenceID:      "O-1",
			OriginatorDocumentReferenceID: "OR-1",
			ContractType:                  "Framework",
			ContractID:                    int64p(34322),
		},
		Buyer: order.Buyer{
			BuyerID:       "7300070011115",
			Name:          "Buyer Pty Ltd",
			PostalAddress: address("George St"),
			TaxScheme:     "VAT",
			Contact:       order.Contact{Telephone: "0400000001", Email: "buyer@example.com"},
			Person:        order.Person{FirstName: "Ada", FamilyName: "Lovelace", JobTitle: "Buyer"},
			DeliveryContact: order.DeliveryContact{
				Name:      "Dock",
				Telephone: "0400000002",
				Email:     "dock@example.com",
			},
		},
		Seller: order.Seller{
			SellerID:      "7302347231110",
			Name:          "Seller Pty Ltd",
			PostalAddress: address("Pitt St"),
			Contact:       order.Contact{Telephone: "0400000003", Email: "seller@example.com"},
			Person:        order.Person{FirstName: "Alan", FamilyName: "Turing", JobTitle: "Sales"},
		},
		Delivery: order.Delivery{
			DeliveryAddress: address("Harbour Rd"),
			RequestedDeliveryPeriod: order.Period{
				StartDate: "2026-11-01",
				EndDate:   "2026-11-08",
			},
			DeliveryParty: order.DeliveryParty{
				DeliveryPartyID: int64p(67654328394567),
				Name:            "Courier",
				Telephone:       "0400000004",
				Email:           "courier@example.com",
			},
		},
		MonetaryTotal: order.MonetaryTotal{
			LineExtensionAmount: decimal.NewFromInt(100),
			TaxTotal:            decimal.NewFromInt(10),
		},
		OrderLines: []order.Line{Line("1001", 2, 50)},
	}
}

// Line builds an order line for the given item, quantity and unit price.
func Line(itemID string, quantity, price int64) order.Line {
	return order.Line{
		Note: "line " + itemID,
		LineItem: order.LineItem{
			Quantity:       decimal.NewFromInt(quantity),
			TotalTaxAmount: decimal.NewFromInt(0),
			Price:          decimal.NewFromInt(price),
			BaseQuantity:   order.BaseQuantity{Quantity: decimal.NewFromInt(1), UnitCode: "EA"},
			Item: order.Item{
				ItemID:      order.ItemID(itemID),
				Description: "item " + itemID,
				Name:        "Item " + itemID,
				Properties:  order.NewProperties(order.Property{Name: "Colour", Value: "Black"}),
			},
		},
	}
}
