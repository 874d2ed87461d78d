package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/cost"
	"github.com/airenas/go-app/pkg/goapp"
)

const extractPrompt = `You are a data extraction specialist. Extract purchase order information from voice transcriptions.

Extract these 4 fields:
1. Description: What part/item is being picked up (e.g., "LA Pump", "Hose", "Bolts")
2. Unit Number: The equipment unit number (e.g., "4555", "3232", "24333")
3. Customer: The company/customer name (e.g., "Halliburton", "Nextier", "Liberty")
4. Vendor/Supplier: Where they're picking up the part (e.g., "Hydroquip", "Diamond Hydraulics", "Basin Supply")

Return ONLY a JSON object with these exact keys: "description", "unit_number", "customer", "vendor_supplier".
If any field cannot be determined, use null for that field.
Be concise - extract key terms, not full sentences.

Examples:
Input: "I need a P.O. for an LA Pump for the Halliburton Unit 4555, I will be heading to Hydroquip to pick up part"
Output: {"description": "LA Pump", "unit_number": "4555", "customer": "Halliburton", "vendor_supplier": "Hydroquip"}

Input: "I need a purchase order so I can buy a hose from diamond hydraulics. I am working on the Nextier Unit 3232"
Output: {"description": "Hose", "unit_number": "3232", "customer": "Nextier", "vendor_supplier": "Diamond Hydraulics"}`

// Fields are the purchase order fields found in a memo
type Fields struct {
	Description    *string `json:"description"`
	UnitNumber     *string `json:"unit_number"`
	Customer       *string `json:"customer"`
	VendorSupplier *string `json:"vendor_supplier"`
}

// Extraction is the extractor's result
type Extraction struct {
	Fields Fields
	// Tokens is the estimated usage for cost calculation
	Tokens int
}

// Extractor finds purchase order fields in text
type Extractor struct {
	chat chat
}

// NewExtractor creates the extractor
func NewExtractor(client ChatCompleter, model string, timeout time.Duration) (*Extractor, error) {
	c, err := newChat(client, model, timeout)
	if err != nil {
		return nil, err
	}
	return &Extractor{chat: c}, nil
}

// Extract never fails, on any problem fields are left empty
func (e *Extractor) Extract(ctx context.Context, text string) *Extraction {
	defer goapp.Estimate("extract")()
	raw, err := e.chat.complete(ctx, extractPrompt, text, 200)
	if err != nil {
		goapp.Log.Error().Err(err).Msg("data extraction failed")
		return &Extraction{}
	}
	res := &Extraction{Tokens: cost.EstimateTokens(text + raw)}
	fields, err := parseFields(raw)
	if err != nil {
		goapp.Log.Error().Err(err).Str("raw", goapp.Sanitize(raw)).Msg("can't parse extraction JSON")
		return res
	}
	res.Fields = *fields
	return res
}

func parseFields(raw string) (*Fields, error) {
	d := json.NewDecoder(bytes.NewBufferString(raw))
	d.UseNumber()
	var m map[string]interface{}
	if err := d.Decode(&m); err != nil {
		return nil, fmt.Errorf("can't decode: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("not an object")
	}
	if _, err := d.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after object")
	}
	return &Fields{
		Description:    toValue(m["description"]),
		UnitNumber:     toValue(m["unit_number"]),
		Customer:       toValue(m["customer"]),
		VendorSupplier: toValue(m["vendor_supplier"]),
	}, nil
}

// toValue drops empty values and renders the rest as text
func toValue(v interface{}) *string {
	var res string
	switch tv := v.(type) {
	case nil:
		return nil
	case string:
		res = tv
	case json.Number:
		if f, err := tv.Float64(); err == nil && f == 0 {
			return nil
		}
		res = tv.String()
	case bool:
		if !tv {
			return nil
		}
		res = strconv.FormatBool(tv)
	default:
		b, err := json.Marshal(tv)
		if err != nil {
			return nil
		}
		res = string(b)
	}
	if res == "" {
		return nil
	}
	return &res
}
