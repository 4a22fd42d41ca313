package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderCode(t *testing.T) {
	assert.Equal(t, "ORD1001", FormatOrderCode(1001))
	assert.Equal(t, "ORD1", FormatOrderCode(1))
}

func TestExtractOrderCode(t *testing.T) {
	assert.Equal(t, "ORD1001", ExtractOrderCode("Payment for ORD1001 completed"))
	assert.Equal(t, "ORD42", ExtractOrderCode("ORD42"))
	// First match wins when multiple codes are present.
	assert.Equal(t, "ORD1", ExtractOrderCode("ORD1 then ORD2"))
	assert.Empty(t, ExtractOrderCode("no code here"))
	assert.Empty(t, ExtractOrderCode("ORD without digits"))
}

func TestEnsureOrderCode(t *testing.T) {
	// Already present: untouched.
	assert.Equal(t, "pay ORD1001 now", EnsureOrderCode("pay ORD1001 now", "ORD1001"))
	// Empty description becomes the code itself.
	assert.Equal(t, "ORD1001", EnsureOrderCode("", "ORD1001"))
	assert.Equal(t, "ORD1001", EnsureOrderCode("   ", "ORD1001"))
	// Otherwise appended.
	assert.Equal(t, "two shirts ORD1001", EnsureOrderCode("two shirts", "ORD1001"))
}

func TestExtractOrderCodeFromPayload_KnownFields(t *testing.T) {
	payload := map[string]interface{}{
		"description": "Thanh toan ORD1001",
		"amount":      float64(100000),
	}
	assert.Equal(t, "ORD1001", ExtractOrderCodeFromPayload(payload))

	payload = map[string]interface{}{
		"content": "order ORD77 paid",
	}
	assert.Equal(t, "ORD77", ExtractOrderCodeFromPayload(payload))
}

func TestExtractOrderCodeFromPayload_ExplicitKeyWinsOverFreeText(t *testing.T) {
	// A customer-written description quoting another order's code must not
	// redirect the payment when the gateway echoes the real code explicitly.
	payload := map[string]interface{}{
		"orderCode":   "ORD1001",
		"description": "please apply to ORD9999 instead",
	}
	assert.Equal(t, "ORD1001", ExtractOrderCodeFromPayload(payload))

	payload = map[string]interface{}{
		"order_code":  "ORD42",
		"description": "ORD9999",
	}
	assert.Equal(t, "ORD42", ExtractOrderCodeFromPayload(payload))
}

func TestExtractOrderCodeFromPayload_Nested(t *testing.T) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"description": "ORD2002 confirmed",
		},
	}
	assert.Equal(t, "ORD2002", ExtractOrderCodeFromPayload(payload))
}

func TestExtractOrderCodeFromPayload_DeepScanFallback(t *testing.T) {
	payload := map[string]interface{}{
		"meta": map[string]interface{}{
			"lines": []interface{}{
				map[string]interface{}{"note": "ref ORD3003"},
			},
		},
	}
	assert.Equal(t, "ORD3003", ExtractOrderCodeFromPayload(payload))
}

func TestExtractOrderCodeFromPayload_NoCode(t *testing.T) {
	payload := map[string]interface{}{
		"description": "thanks for your purchase",
		"amount":      float64(5),
	}
	assert.Empty(t, ExtractOrderCodeFromPayload(payload))
	assert.Empty(t, ExtractOrderCodeFromPayload(map[string]interface{}{}))
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus("PENDING"))
	assert.True(t, ValidOrderStatus("SUCCESS"))
	assert.True(t, ValidOrderStatus("FAIL"))
	assert.False(t, ValidOrderStatus("success"))
	assert.False(t, ValidOrderStatus("SHIPPED"))
	assert.False(t, ValidOrderStatus(""))
}
