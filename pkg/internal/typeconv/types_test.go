package typeconv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderValue(t *testing.T) {
	ts := time.Date(2024, 8, 22, 10, 0, 0, 0, time.UTC)

	require.Equal(t, "NULL", RenderValue(nil))
	require.Equal(t, "Shiv", RenderValue([]byte("Shiv")))
	require.Equal(t, "42", RenderValue(int64(42)))
	require.Equal(t, "2.5", RenderValue(2.5))
	require.Equal(t, "true", RenderValue(true))
	require.Equal(t, "2024-08-22T10:00:00Z", RenderValue(ts))
	require.Equal(t, "7", RenderValue(int32(7)))
}

func TestRenderRow(t *testing.T) {
	require.Equal(t, []string{"1", "Dev", "NULL"}, RenderRow([]interface{}{int64(1), "Dev", nil}))
}
