package document

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/donation-docs/internal/logging"
)

const templateText = `代捐说明

产品：#产品名称#
对手方：#对手方#
金额：#发生金额#元

明细如下：
#明细表#
`

func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "template.txt")
	require.NoError(t, os.WriteFile(path, []byte(templateText), 0644))
	return path
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir)
	out := filepath.Join(dir, "docs", "notice.txt")

	err := Render(tmpl, out, map[string]string{
		PlaceholderProduct:      "鼎盛一号集合计划",
		PlaceholderCounterparty: "某基金会",
		PlaceholderAmount:       "1,234.50",
	}, &logging.MockLogger{})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "产品：鼎盛一号集合计划")
	assert.Contains(t, content, "对手方：某基金会")
	assert.Contains(t, content, "金额：1,234.50元")
	assert.NotContains(t, content, "#产品名称#")
	// The detail placeholder survives rendering; attachment fills it later.
	assert.Contains(t, content, PlaceholderDetailTable)
}

func TestRenderMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	err := Render(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "out.txt"), nil, &logging.MockLogger{})
	assert.Error(t, err)
}

func TestAttachDetailTableAtPlaceholder(t *testing.T) {
	dir := t.TempDir()
	tmpl := writeTemplate(t, dir)
	out := filepath.Join(dir, "notice.txt")
	require.NoError(t, Render(tmpl, out, map[string]string{PlaceholderProduct: "产品A"}, &logging.MockLogger{}))

	headers := []string{"序号", "票据抬头\n（实际捐赠人姓名）", "票据金额\n（实际捐赠金额（元））"}
	rows := [][]string{
		{"1", "张三", "33.33"},
		{"2", "李四", "66.67"},
		{"合计", "", "100.00"},
	}

	logger := &logging.MockLogger{}
	require.NoError(t, AttachDetailTable(out, PlaceholderDetailTable, headers, rows, logger))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)

	assert.NotContains(t, content, PlaceholderDetailTable)
	assert.Contains(t, content, "张三")
	assert.Contains(t, content, "100.00")
	// Wrapped header lines collapse to one line in the text rendition.
	assert.Contains(t, content, "票据抬头 （实际捐赠人姓名）")
	// Date signature line.
	assert.Contains(t, content, time.Now().Format("2006年01月02日"))
	assert.False(t, logger.HasMessage("detail table placeholder not found, appending table to end of document"))
}

func TestAttachDetailTableMissingPlaceholder(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "notice.txt")
	require.NoError(t, os.WriteFile(out, []byte("无占位符的文档"), 0644))

	logger := &logging.MockLogger{}
	err := AttachDetailTable(out, PlaceholderDetailTable,
		[]string{"序号", "姓名", "金额"},
		[][]string{{"1", "张三", "10.00"}}, logger)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "无占位符的文档")
	assert.Contains(t, content, "张三")
	assert.True(t, logger.HasMessage("detail table placeholder not found, appending table to end of document"))
}
