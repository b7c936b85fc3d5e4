package model

import (
	"github.com/shopspring/decimal"
)

// InvoiceRecord is one supplier invoice as produced by the extraction stage.
// Charge amounts are optional; absent values stay nil and never participate
// in match decisions, only in downstream reporting.
type InvoiceRecord struct {
	InvoiceNumber    string           `json:"invoice_number,omitempty"`
	InvoiceDate      string           `json:"invoice_date,omitempty"`
	DeliveryNote     string           `json:"delivery_note,omitempty"`
	SupplierName     string           `json:"supplier_name"`
	SupplierAddress  string           `json:"supplier_address"`
	ConsigneeName    string           `json:"consignee_name"`
	ConsigneeAddress string           `json:"consignee_add"`
	Pieces           int              `json:"no_pieces,omitempty"`
	GrossWeight      WeightString     `json:"gross_weight,omitempty"`
	ContainerNumber  string           `json:"container_number,omitempty"`
	OrderNo          string           `json:"order_no,omitempty"`
	VIN              string           `json:"vin_no,omitempty"`
	Currency         string           `json:"currency,omitempty"`
	Subtotal         *decimal.Decimal `json:"subtotal,omitempty"`
	Packing          *decimal.Decimal `json:"packing,omitempty"`
	ExFactory        *decimal.Decimal `json:"ex_factory,omitempty"`
	FreightCharges   *decimal.Decimal `json:"air_or_sea_freight_charges,omitempty"`
	FCACharges       *decimal.Decimal `json:"fca_charges,omitempty"`
	DGRFee           *decimal.Decimal `json:"dgr_fee,omitempty"`
	LoadingCharges   *decimal.Decimal `json:"loading_charges,omitempty"`
	ValueCFR         *decimal.Decimal `json:"value_cfr,omitempty"`
	Insurance        *decimal.Decimal `json:"transport_insurance,omitempty"`
	ValueAddedTax    *decimal.Decimal `json:"value_added_tax,omitempty"`
	TotalPrice       *decimal.Decimal `json:"total_price,omitempty"`
	OtherFields      map[string]any   `json:"other_fields,omitempty"`
}

// IsZero reports whether the record carries no usable invoice data. The
// reconciliation engine probes matchers with a zero record to resolve scope.
func (i *InvoiceRecord) IsZero() bool {
	return i == nil || (i.InvoiceNumber == "" && i.SupplierName == "" &&
		i.ConsigneeName == "" && i.Pieces == 0 && i.GrossWeight == "")
}
