package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_QuotedFieldsKeepDelimiter(t *testing.T) {
	rows, err := parseCSV("a,\"b,c\", d\n\n , \n\"x\"\"y\",z")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"a", "b,c", "d"},
		{`x"y`, "z"},
	}, rows)
}

func TestSplitNaive_IgnoresQuoting(t *testing.T) {
	rows := splitNaive("a,\"b,c\"\r\n\n\"d\",e")
	assert.Equal(t, [][]string{
		{"a", "b", "c"},
		{"d", "e"},
	}, rows)
}

func TestParseVisualization(t *testing.T) {
	t.Run("missing envelope", func(t *testing.T) {
		_, err := parseVisualization("nothing here")
		assert.Error(t, err)
	})
	t.Run("no table", func(t *testing.T) {
		_, err := parseVisualization(`x({"status":"ok"})`)
		assert.Error(t, err)
	})
	t.Run("no rows yields header only", func(t *testing.T) {
		grid, err := parseVisualization(`x({"table":{"rows":[]}})`)
		require.NoError(t, err)
		require.Len(t, grid, 1)
		assert.Equal(t, "Name", grid[0][0])
	})
	t.Run("flattens cells behind a synthetic header", func(t *testing.T) {
		grid, err := parseVisualization(`x({"table":{"rows":[{"c":[{"v":"Jo"},null,{"v":3},{"v":true},{"v":false}]}]}})`)
		require.NoError(t, err)
		require.Len(t, grid, 2)
		assert.Equal(t, "Name", grid[0][0])
		assert.Equal(t, []string{"Jo", "", "3", "true", ""}, grid[1])
	})
}

func TestCheckMarkers(t *testing.T) {
	assert.NoError(t, checkMarkers("Name,Dept\nA,B"))
	assert.ErrorIs(t, checkMarkers(" \n\t"), errEmptyBody)
	assert.Error(t, checkMarkers("<p>You need permission</p>"))
	assert.Error(t, checkMarkers("Sorry, the file you have requested does not exist."))
}

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{"edit url", "https://docs.google.com/spreadsheets/d/" + testSheetID + "/edit?usp=sharing", testSheetID, false},
		{"bare id", "  " + testSheetID + " ", testSheetID, false},
		{"empty", "   ", "", true},
		{"other url", "https://example.com/sheet", "", true},
		{"short token", "abc", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSpreadsheetID(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSource_DefaultsSheetName(t *testing.T) {
	src, err := NewSource(testSheetID, " ")
	require.NoError(t, err)
	assert.Equal(t, DefaultSheetName, src.SheetName)
	assert.NoError(t, src.Validate())
	assert.ErrorIs(t, Source{}.Validate(), ErrInvalidSource)
}
