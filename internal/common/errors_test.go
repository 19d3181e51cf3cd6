package common_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fenanpay-bridge/internal/common"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("row not found")
	ae := common.NewAppError("ORDER_NOT_FOUND", "order not found", http.StatusNotFound, cause)

	require.Equal(t, "row not found", ae.Error())
	require.ErrorIs(t, ae, cause)
	require.True(t, common.IsAppError(ae))
	require.True(t, common.IsAppError(fmt.Errorf("lookup: %w", ae)))
	require.False(t, common.IsAppError(cause))
}

func TestAppErrorMessageFallback(t *testing.T) {
	ae := common.NewAppError("BAD_REQUEST", "orderId is required", http.StatusBadRequest, nil)
	require.Equal(t, "orderId is required", ae.Error())
}
