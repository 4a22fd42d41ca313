package pkg

import (
	"fmt"
	"regexp"
	"strings"
)

// orderCodePattern matches the human-readable order code embedded in
// payment-gateway free text, e.g. "Payment for ORD1001 completed".
var orderCodePattern = regexp.MustCompile(`ORD\d+`)

// FormatOrderCode renders a sequence number as an order code.
func FormatOrderCode(seq int64) string {
	return fmt.Sprintf("ORD%d", seq)
}

// ExtractOrderCode returns the first order code found in s, or "" if none.
func ExtractOrderCode(s string) string {
	return orderCodePattern.FindString(s)
}

// EnsureOrderCode makes sure description carries the order code so the
// free-text fallback extraction keeps working for legacy gateway payloads.
func EnsureOrderCode(description, code string) string {
	if strings.Contains(description, code) {
		return description
	}
	if IsEmptyString(description) {
		return code
	}
	return description + " " + code
}

// ExtractOrderCodeFromPayload searches a decoded gateway payload for an order
// code. Explicit order-code fields win over free text, so a customer-written
// description quoting someone else's code cannot redirect the payment. Known
// description fields come next, then every string value in the payload
// depth-first. Gateways disagree on where they put the order reference, so
// the scan is deliberately permissive.
func ExtractOrderCodeFromPayload(payload map[string]interface{}) string {
	for _, key := range []string{"orderCode", "order_code", "orderRef"} {
		if s, ok := payload[key].(string); ok {
			if code := ExtractOrderCode(s); code != "" {
				return code
			}
		}
	}
	for _, key := range []string{"description", "content", "orderInfo", "message"} {
		if s, ok := payload[key].(string); ok {
			if code := ExtractOrderCode(s); code != "" {
				return code
			}
		}
	}
	for _, key := range []string{"data", "payment", "transaction"} {
		if nested, ok := payload[key].(map[string]interface{}); ok {
			if code := ExtractOrderCodeFromPayload(nested); code != "" {
				return code
			}
		}
	}
	return scanStrings(payload)
}

func scanStrings(v interface{}) string {
	switch val := v.(type) {
	case string:
		return ExtractOrderCode(val)
	case map[string]interface{}:
		for _, item := range val {
			if code := scanStrings(item); code != "" {
				return code
			}
		}
	case []interface{}:
		for _, item := range val {
			if code := scanStrings(item); code != "" {
				return code
			}
		}
	}
	return ""
}

// IsEmptyString checks if a string is empty after trimming whitespace.
func IsEmptyString(s string) bool {
	return strings.TrimSpace(s) == ""
}
