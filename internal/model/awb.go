// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"strings"
)

// AirwayBillRecord is one shipment manifest as produced by the extraction
// stage. Field names mirror the extraction schema; numeric-looking fields may
// arrive as strings and are normalized on use, not on decode.
type AirwayBillRecord struct {
	ShipperName           string                `json:"shipper_name"`
	ShipperAddress        string                `json:"shipper_add"`
	ConsigneeName         string                `json:"consignee_name"`
	ConsigneeAddress      string                `json:"consignee_add"`
	MAWB                  string                `json:"mawb,omitempty"`
	HAWB                  string                `json:"hawb,omitempty"`
	ShipmentID            string                `json:"shipment_id,omitempty"`
	TrackingNo            string                `json:"tracking_no,omitempty"`
	ContainerNumber       string                `json:"container_number,omitempty"`
	InvoiceNumbers        []string              `json:"invoice_numbers,omitempty"`
	OriginAirport         string                `json:"origin_airport"`
	DestinationAirport    string                `json:"destination_airport"`
	Pieces                int                   `json:"no_pieces"`
	GrossWeight           WeightString          `json:"gross_weight"`
	GoodsName             string                `json:"goods_name,omitempty"`
	OrderNo               string                `json:"order_no,omitempty"`
	VIN                   string                `json:"vin_no,omitempty"`
	OtherReferenceNumbers []string              `json:"other_reference_numbers,omitempty"`
	Classification        *ClassificationResult `json:"classification,omitempty"`
}

// Identifier returns the most specific shipment reference available,
// falling back through MAWB, HAWB, shipment ID and tracking number.
func (a *AirwayBillRecord) Identifier() string {
	for _, id := range []string{a.MAWB, a.HAWB, a.ShipmentID, a.TrackingNo} {
		if s := strings.TrimSpace(id); s != "" {
			return s
		}
	}
	return "unknown"
}

// FirstInvoiceNumber returns the leading entry of the AWB invoice-number
// list, or "" when the list is empty. Classification keys off this value.
func (a *AirwayBillRecord) FirstInvoiceNumber() string {
	if len(a.InvoiceNumbers) == 0 {
		return ""
	}
	return a.InvoiceNumbers[0]
}

// WeightString holds a raw weight field that extraction may emit as either a
// JSON string ("28.877,56 KG") or a bare number.
type WeightString string

// UnmarshalJSON accepts string, number and null forms of a weight field.
func (w *WeightString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*w = WeightString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*w = WeightString(n.String())
	return nil
}

// MarshalJSON writes the weight back out as the original string form.
func (w WeightString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(w))
}

func (w WeightString) String() string { return string(w) }
