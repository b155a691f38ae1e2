package buffer

import (
	"errors"
	"testing"

	"github.com/NikitaCOEUR/restql-assist/internal/derrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("from hero\r\nas h\n")

	assert.Equal(t, 3, doc.LineCount())
	assert.Equal(t, "from hero", doc.Line(0))
	assert.Equal(t, "as h", doc.Line(1))
	assert.Equal(t, "", doc.Line(2))
	assert.Equal(t, "from hero\nas h\n", doc.Text())
}

func TestNewDocument_Empty(t *testing.T) {
	doc := NewDocument("")

	assert.Equal(t, 0, doc.LineCount())
	assert.Equal(t, "", doc.Line(0))
	assert.Equal(t, Position{}, doc.EndPosition())
}

func TestDocument_LineOutOfRange(t *testing.T) {
	doc := FromLines([]string{"a"})

	assert.Equal(t, "", doc.Line(-1))
	assert.Equal(t, "", doc.Line(5))
}

func TestFromLines_Copies(t *testing.T) {
	lines := []string{"from hero"}
	doc := FromLines(lines)
	lines[0] = "changed"

	assert.Equal(t, "from hero", doc.Line(0))

	out := doc.Lines()
	out[0] = "changed"
	assert.Equal(t, "from hero", doc.Line(0))
}

func TestDocument_WithCursor(t *testing.T) {
	doc := FromLines([]string{"from hero"})
	moved := doc.WithCursor(Position{Line: 0, Column: 4})

	assert.Equal(t, Position{}, doc.Cursor())
	assert.Equal(t, Position{Line: 0, Column: 4}, moved.Cursor())
	assert.Equal(t, doc.Line(0), moved.Line(0))
}

func TestDocument_EndPosition(t *testing.T) {
	doc := NewDocument("from hero\nas héro")

	assert.Equal(t, Position{Line: 1, Column: 7}, doc.EndPosition())
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Position
		wantErr bool
	}{
		{name: "valid", input: "3:14", want: Position{Line: 3, Column: 14}},
		{name: "spaces", input: " 0:0 ", want: Position{}},
		{name: "missing colon", input: "3", wantErr: true},
		{name: "bad line", input: "x:1", wantErr: true},
		{name: "bad column", input: "1:y", wantErr: true},
		{name: "negative", input: "-1:2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePosition(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var posErr *derrors.PositionError
				assert.True(t, errors.As(err, &posErr))
				assert.Equal(t, "POSITION_ERROR", posErr.Code())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "2:5", Position{Line: 2, Column: 5}.String())
}

func TestRange_Empty(t *testing.T) {
	p := Position{Line: 1, Column: 2}
	assert.True(t, Range{From: p, To: p}.Empty())
	assert.False(t, Range{From: p, To: Position{Line: 1, Column: 3}}.Empty())
}
