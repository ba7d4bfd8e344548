package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"c8ymcp/internal/c8y"
)

func TestPaginated(t *testing.T) {
	t.Parallel()

	page := c8y.Page{
		Items: []map[string]any{
			{"id": "1", "name": "pump", "type": "c8y_Device"},
			{"id": "2", "name": "valve", "type": "c8y_Device"},
		},
		Statistics: c8y.Statistics{CurrentPage: 1, PageSize: 2, TotalPages: 4},
	}

	out, err := paginated("Inventory", page, "Refine query if too many results", "")
	require.NoError(t, err)
	assert.Equal(t, "# Inventory: Page 1/4 (more available)\n"+
		"# Refine query if too many results\n"+
		"\n"+
		"- id: \"1\"\n  name: pump\n  type: c8y_Device\n"+
		"- id: \"2\"\n  name: valve\n  type: c8y_Device\n", out)
}

func TestPaginated_UnknownTotalAndSelect(t *testing.T) {
	t.Parallel()

	page := c8y.Page{Items: []map[string]any{{"id": "1", "name": "pump"}, {"id": "2", "name": "valve"}}}
	out, err := paginated("Children of 7", page, "", "[].name")
	require.NoError(t, err)
	assert.Equal(t, "# Children of 7: Page 1/?\n\n- pump\n- valve\n", out)

	_, err = paginated("x", page, "", "[.name")
	assert.ErrorContains(t, err, "invalid select expression")
}

func TestObject(t *testing.T) {
	t.Parallel()

	out, err := object("Object 7", map[string]any{"id": "7", "c8y_IsDevice": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, "# Object 7\nc8y_IsDevice: {}\nid: \"7\"\n", out)
}

func TestErrorText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Error getting object 7: boom", errorText("getting object 7", errors.New("boom")))
}
