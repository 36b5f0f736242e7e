package database

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTimestamptzIn(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	m := pgtype.NewMap()
	ScanTimestamptzIn(m, jakarta)

	instant := time.Date(2024, 3, 4, 2, 30, 0, 0, time.UTC)
	for _, format := range []int16{pgtype.BinaryFormatCode, pgtype.TextFormatCode} {
		buf, err := m.Encode(pgtype.TimestamptzOID, format, instant, nil)
		require.NoError(t, err)

		var got time.Time
		require.NoError(t, m.Scan(pgtype.TimestamptzOID, format, buf, &got))
		assert.True(t, instant.Equal(got))
		assert.Equal(t, jakarta, got.Location())
		assert.Equal(t, "2024-03-04 09:30:00", got.Format("2006-01-02 15:04:05"))

		var approvedAt *time.Time
		require.NoError(t, m.Scan(pgtype.TimestamptzOID, format, buf, &approvedAt))
		require.NotNil(t, approvedAt)
		assert.Equal(t, jakarta, approvedAt.Location())
	}
}
