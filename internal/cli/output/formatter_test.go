package output

import (
	"bytes"
	"strings"
	"testing"
)

type screenRow struct {
	ID    string `json:"id" yaml:"id"`
	Route string `json:"route" yaml:"route"`
}

type screenList []screenRow

func (l screenList) Table(wide bool) *Table {
	t := &Table{Headers: []string{"ID"}}
	if wide {
		t.Headers = append(t.Headers, "ROUTE")
	}
	for _, r := range l {
		row := []string{r.ID}
		if wide {
			row = append(row, r.Route)
		}
		t.AddRow(row...)
	}
	return t
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format Format
		wide   bool
	}{
		{FormatJSON, false},
		{FormatYAML, false},
		{FormatTable, false},
		{FormatTable, true},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			f := NewFormatter(tt.format, tt.wide)
			switch tt.format {
			case FormatJSON:
				if _, ok := f.(*JSONFormatter); !ok {
					t.Errorf("NewFormatter(%q) = %T, want *JSONFormatter", tt.format, f)
				}
			case FormatYAML:
				if _, ok := f.(*YAMLFormatter); !ok {
					t.Errorf("NewFormatter(%q) = %T, want *YAMLFormatter", tt.format, f)
				}
			default:
				tf, ok := f.(*TableFormatter)
				if !ok {
					t.Fatalf("NewFormatter(%q) = %T, want *TableFormatter", tt.format, f)
				}
				if tf.Wide != tt.wide {
					t.Errorf("Wide = %v, want %v", tf.Wide, tt.wide)
				}
			}
		})
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, screenRow{ID: "a", Route: "10.0.0.1:24800"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"route": "10.0.0.1:24800"`) {
		t.Errorf("Format() = %q", buf.String())
	}
}

func TestJSONFormatter_Compact(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{Compact: true}
	for _, r := range []screenRow{{ID: "a", Route: "r1"}, {ID: "<b>", Route: "r2"}} {
		if err := f.Format(&buf, r); err != nil {
			t.Fatalf("Format() error = %v", err)
		}
	}
	want := `{"id":"a","route":"r1"}` + "\n" + `{"id":"<b>","route":"r2"}` + "\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	data := []screenRow{{ID: "a", Route: "r1"}, {ID: "b", Route: "r2"}}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "- id: a\n  route: r1\n- id: b\n  route: r2\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestTableFormatter_Format(t *testing.T) {
	rows := screenList{{ID: "a", Route: "r1"}, {ID: "b", Route: ""}}

	tests := []struct {
		name      string
		f         TableFormatter
		data      any
		contains  []string
		forbidden []string
	}{
		{
			name:      "tabler narrow",
			data:      rows,
			contains:  []string{"ID", "a", "b"},
			forbidden: []string{"ROUTE", "r1"},
		},
		{
			name:     "tabler wide",
			f:        TableFormatter{Wide: true},
			data:     rows,
			contains: []string{"ROUTE", "r1", "-"},
		},
		{
			name:      "table without headers",
			f:         TableFormatter{NoHeaders: true},
			data:      &Table{Headers: []string{"COL"}, Rows: [][]string{{"data"}}},
			contains:  []string{"data"},
			forbidden: []string{"COL"},
		},
		{
			name:     "table value",
			data:     Table{Headers: []string{"COL"}, Rows: [][]string{{"data"}}},
			contains: []string{"COL", "data"},
		},
		{
			name:     "json fallback",
			data:     map[string]int{"screens": 2},
			contains: []string{`"screens": 2`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.f.Format(&buf, tt.data); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.forbidden {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestTable_RenderAligned(t *testing.T) {
	var tbl Table
	tbl.SetHeaders("ID", "ROUTE")
	tbl.AddRow("left", "10.0.0.1:24800")
	tbl.AddRow("r", "10.0.0.2:24800")

	var buf bytes.Buffer
	if err := tbl.Render(&buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	col := strings.Index(lines[0], "ROUTE")
	for _, l := range lines[1:] {
		if strings.Index(l, "10.0.0.") != col {
			t.Errorf("column not aligned: %q", l)
		}
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatalf("Format(nil) error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format(nil) wrote %q", buf.String())
	}
}
