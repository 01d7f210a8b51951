package detail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fjacquet/donation-docs/internal/models"
)

func holder(product, customer, share string) models.HoldingRecord {
	rec := models.HoldingRecord{ProductName: product, CustomerName: customer}
	if share != "" {
		d, _ := decimal.NewFromString(share)
		rec.Share = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	return rec
}

func amounts(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i], _ = decimal.NewFromString(v)
	}
	return out
}

func TestBuild(t *testing.T) {
	holders := []models.HoldingRecord{
		holder("产品A", "张三", "1"),
		holder("产品A", "李四", "1"),
		holder("产品A", "王五", "1"),
	}

	rows := Build(holders, amounts("33.33", "33.33", "33.34"))
	require.Len(t, rows, 4)

	assert.Equal(t, Row{Seq: "1", Payer: "张三", Amount: "33.33"}, rows[0])
	assert.Equal(t, Row{Seq: "2", Payer: "李四", Amount: "33.33"}, rows[1])
	assert.Equal(t, Row{Seq: "3", Payer: "王五", Amount: "33.34"}, rows[2])
	assert.Equal(t, Row{Seq: "合计", Payer: "", Amount: "100.00"}, rows[3])
}

func TestBuildEmpty(t *testing.T) {
	rows := Build(nil, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, "合计", rows[0].Seq)
	assert.Equal(t, "0.00", rows[0].Amount)
}

func TestBuildFormatsThousands(t *testing.T) {
	rows := Build(
		[]models.HoldingRecord{holder("产品A", "张三", "1")},
		amounts("1234567.80"),
	)
	assert.Equal(t, "1,234,567.80", rows[0].Amount)
	assert.Equal(t, "1,234,567.80", rows[1].Amount)
}

func TestCells(t *testing.T) {
	rows := []Row{
		{Seq: "1", Payer: "张三", Amount: "10.00"},
		{Seq: "合计", Payer: "", Amount: "10.00"},
	}
	assert.Equal(t, [][]string{
		{"1", "张三", "10.00"},
		{"合计", "", "10.00"},
	}, Cells(rows))
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "票据明细_产品A.xlsx")

	rows := Build(
		[]models.HoldingRecord{holder("产品A", "张三", "1"), holder("产品A", "李四", "2")},
		amounts("33.33", "66.67"),
	)
	require.NoError(t, WriteXLSX(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = f.Close()
	}()

	got, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, SpreadsheetHeaders, got[0])
	assert.Equal(t, []string{"1", "张三", "33.33"}, got[1])
	assert.Equal(t, []string{"2", "李四", "66.67"}, got[2])
	assert.Equal(t, "合计", got[3][0])
	assert.Equal(t, "100.00", got[3][2])
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "票据明细_产品A.csv")

	rows := Build(
		[]models.HoldingRecord{holder("产品A", "张三", "1")},
		amounts("10.00"),
	)
	require.NoError(t, WriteCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "序号")
	assert.Contains(t, content, "张三")
	assert.Contains(t, content, "10.00")
	assert.Contains(t, content, "合计")
}
