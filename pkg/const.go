package pkg

const (
	HeaderTraceId   string = "X-Trace-Id"
	HeaderRequestId string = "X-Request-Id"
	HeaderSignature string = "X-Webhook-Signature"
)

const (
	TraceId   string = "trace_id"
	RequestId string = "request_id"
	OrderCode string = "order_code"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusSuccess OrderStatus = "SUCCESS"
	OrderStatusFail    OrderStatus = "FAIL"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusSuccess, OrderStatusFail:
		return true
	}
	return false
}
