package statement

import (
	"context"
	"strings"
	"testing"

	"github.com/fleetops/fuelflow/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHeader = "Transaction ID,Date,Employee,Vehicle Identifier,Gallons,Cost Per Gallon,Total Cost,Odometer,Merchant"

func TestParseFile_ValidStatement(t *testing.T) {
	input := validHeader + "\n" +
		"TX1001,01/15/2025,Jane Driver,TRUCK-7,25.5,3.499,89.22,50000,Pilot #442\n" +
		"TX1002,01/16/2025,Sam Hauler,VAN-12,18.0,3.55,63.90,31250,Loves #18\n"

	p := NewParser()
	rows, rowErrs, err := p.ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "TX1001", first.SourceID)
	assert.Equal(t, "TRUCK-7", first.RawIdentifier)
	assert.Equal(t, "Jane Driver", first.Employee)
	assert.Equal(t, "Pilot #442", first.Merchant)
	assert.Equal(t, int64(50000), first.Odometer)
	assert.Equal(t, 2, first.Line)
	assert.True(t, first.Gallons.Equal(decimal.RequireFromString("25.5")))
	assert.True(t, first.TotalCost.Equal(decimal.RequireFromString("89.22")))
	assert.Equal(t, "2025-01-15", first.Date.Format("2006-01-02"))
}

func TestParseFile_BadRowDoesNotBlockGoodRows(t *testing.T) {
	input := validHeader + "\n" +
		"TX1,01/15/2025,Jane,TRUCK-7,25.5,3.49,89.00,50000,Pilot\n" +
		"TX2,01/16/2025,Sam,VAN-12,not-a-number,3.55,63.90,31250,Loves\n" +
		"TX3,bad-date,Sam,VAN-12,18.0,3.55,63.90,31250,Loves\n" +
		"TX4,01/17/2025,Ann,T104,12.2,3.60,43.92,18000,Casey's\n"

	p := NewParser()
	rows, rowErrs, err := p.ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Len(t, rowErrs, 2)

	assert.Equal(t, "TX1", rows[0].SourceID)
	assert.Equal(t, "TX4", rows[1].SourceID)
	assert.Equal(t, 3, rowErrs[0].Line)
	assert.Equal(t, 4, rowErrs[1].Line)
	assert.Contains(t, rowErrs[0].Error(), "gallons")
	assert.Contains(t, rowErrs[1].Error(), "date")
}

func TestParseFile_MissingColumn(t *testing.T) {
	input := "Date,Employee,Gallons,Cost Per Gallon,Total Cost,Odometer,Merchant\n" +
		"01/15/2025,Jane,25.5,3.49,89.00,50000,Pilot\n"

	p := NewParser()
	_, _, err := p.ParseFile(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
	assert.Contains(t, err.Error(), "vehicle identifier")
}

func TestParseFile_ZeroValidRows(t *testing.T) {
	input := validHeader + "\n" +
		"TX1,nope,Jane,TRUCK-7,x,y,z,q,Pilot\n"

	p := NewParser()
	rows, rowErrs, err := p.ParseFile(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptyStatement)
	assert.Empty(t, rows)
	assert.Len(t, rowErrs, 1)
}

func TestParseFile_EmptyFile(t *testing.T) {
	p := NewParser()
	_, _, err := p.ParseFile(context.Background(), strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedHeader)
}

func TestParseFile_HeaderAliasesAndFormatting(t *testing.T) {
	input := "Transaction Date,Driver,Unit,Qty,Price Per Gallon,Amount,Odometer Reading,Site Name\n" +
		"2025-01-15,Jane,TRUCK-7,\"1,025.5\",$3.49,\"$3,578.99\",\"52,000\",Pilot\n"

	p := NewParser()
	rows, rowErrs, err := p.ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.True(t, row.Gallons.Equal(decimal.RequireFromString("1025.5")))
	assert.True(t, row.TotalCost.Equal(decimal.RequireFromString("3578.99")))
	assert.Equal(t, int64(52000), row.Odometer)
}

func TestParseFile_SynthesizesMissingSourceID(t *testing.T) {
	input := "Date,Employee,Vehicle Identifier,Gallons,Cost Per Gallon,Total Cost,Odometer,Merchant\n" +
		"01/15/2025,Jane,TRUCK-7,25.5,3.49,89.00,50000,Pilot\n"

	p := NewParser()
	rows, _, err := p.ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "20250115-TRUCK-7-89.00", rows[0].SourceID)
}

func TestTupleKey(t *testing.T) {
	p := NewParser()
	input := validHeader + "\n" +
		"TX1,01/15/2025,Jane,TRUCK-7,25.5,3.49,89.00,50000,Pilot\n"

	rows, _, err := p.ParseFile(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15|TRUCK-7|89.00", rows[0].TupleKey())
}
