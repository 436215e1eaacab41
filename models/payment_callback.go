package models

import "encoding/json"

// PaymentCallback mirrors the M-Pesa STK push result payload delivered by
// the payment confirmation channel.
type PaymentCallback struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []CallbackMetadataItem `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type CallbackMetadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// MetadataString returns the named metadata item as a string. Numeric
// values (amounts, phone numbers) are returned in their literal form.
func (c *PaymentCallback) MetadataString(name string) string {
	for _, item := range c.Body.StkCallback.CallbackMetadata.Item {
		if item.Name != name {
			continue
		}
		var s string
		if err := json.Unmarshal(item.Value, &s); err == nil {
			return s
		}
		return string(item.Value)
	}
	return ""
}
