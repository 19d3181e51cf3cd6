package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewUniqueID builds the correlation id for a payment attempt. The format
// {orderID}_{unixSeconds} is the provider wire contract: webhooks carry it
// back and the order is recovered by decoding the prefix, so no lookup
// table is needed. Two attempts for the same order within the same second
// produce the same id.
func NewUniqueID(orderID int64, at time.Time) string {
	return strconv.FormatInt(orderID, 10) + "_" + strconv.FormatInt(at.Unix(), 10)
}

// DecodeUniqueID recovers the order identifier from a correlation id. Only
// the prefix before the first underscore is significant.
func DecodeUniqueID(uniqueID string) (int64, error) {
	prefix, _, found := strings.Cut(uniqueID, "_")
	if !found {
		return 0, fmt.Errorf("unique id %q has no separator", uniqueID)
	}
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unique id %q has non-numeric order prefix", uniqueID)
	}
	if id <= 0 {
		return 0, fmt.Errorf("unique id %q decodes to invalid order id %d", uniqueID, id)
	}
	return id, nil
}
