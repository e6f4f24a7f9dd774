package order

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Monetary and quantity fields decode into decimal.Decimal, whose zero value
// cannot tell an absent key from 0. The decoders below remember which keys
// were absent or null so Validate can report them as required.

type absentKeys []string

func (a *absentKeys) take(dst *decimal.Decimal, src *decimal.Decimal, key string) {
	if src == nil {
		*a = append(*a, key)
		return
	}
	*dst = *src
}

func (mt *MonetaryTotal) UnmarshalJSON(data []byte) error {
	type plain MonetaryTotal
	aux := struct {
		*plain
		LineExtensionAmount *decimal.Decimal `json:"lineExtensionAmount"`
		TaxTotal            *decimal.Decimal `json:"taxTotal"`
	}{plain: (*plain)(mt)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var absent absentKeys
	absent.take(&mt.LineExtensionAmount, aux.LineExtensionAmount, "lineExtensionAmount")
	absent.take(&mt.TaxTotal, aux.TaxTotal, "taxTotal")
	mt.absent = absent
	return nil
}

func (ac *AllowanceCharge) UnmarshalJSON(data []byte) error {
	type plain AllowanceCharge
	aux := struct {
		*plain
		Amount *decimal.Decimal `json:"amount"`
	}{plain: (*plain)(ac)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var absent absentKeys
	absent.take(&ac.Amount, aux.Amount, "amount")
	ac.absent = absent
	return nil
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	aux := struct {
		*plain
		Quantity       *decimal.Decimal `json:"quantity"`
		TotalTaxAmount *decimal.Decimal `json:"totalTaxAmount"`
		Price          *decimal.Decimal `json:"price"`
	}{plain: (*plain)(li)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var absent absentKeys
	absent.take(&li.Quantity, aux.Quantity, "quantity")
	absent.take(&li.TotalTaxAmount, aux.TotalTaxAmount, "totalTaxAmount")
	absent.take(&li.Price, aux.Price, "price")
	li.absent = absent
	return nil
}

func (bq *BaseQuantity) UnmarshalJSON(data []byte) error {
	type plain BaseQuantity
	aux := struct {
		*plain
		Quantity *decimal.Decimal `json:"quantity"`
	}{plain: (*plain)(bq)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var absent absentKeys
	absent.take(&bq.Quantity, aux.Quantity, "quantity")
	bq.absent = absent
	return nil
}

func registerAmountRules(v *validator.Validate) {
	report := func(sl validator.StructLevel, absent absentKeys) {
		for _, key := range absent {
			sl.ReportError(nil, key, key, "required", "")
		}
	}
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		report(sl, sl.Current().Interface().(MonetaryTotal).absent)
	}, MonetaryTotal{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		report(sl, sl.Current().Interface().(AllowanceCharge).absent)
	}, AllowanceCharge{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		report(sl, sl.Current().Interface().(LineItem).absent)
	}, LineItem{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		report(sl, sl.Current().Interface().(BaseQuantity).absent)
	}, BaseQuantity{})
}
