package validation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

func TestLoadVendorList(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		want    []string
		wantErr bool
	}{
		{
			name: "missing file falls back to defaults",
			path: filepath.Join(dir, "absent.json"),
			want: constants.DefaultVendors,
		},
		{
			name: "vendors key",
			path: write("ok.json", `{"vendors": ["Acme Ltd", "Globex Corp"]}`),
			want: []string{"Acme Ltd", "Globex Corp"},
		},
		{
			name: "no vendors key",
			path: write("nokey.json", `{"suppliers": ["Acme"]}`),
			want: []string{},
		},
		{
			name:    "malformed json",
			path:    write("bad.json", `{"vendors": [`),
			wantErr: true,
		},
		{
			name:    "vendors not a list",
			path:    write("wrongtype.json", `{"vendors": "Acme"}`),
			wantErr: true,
		},
		{
			name:    "vendor not a string",
			path:    write("wrongitem.json", `{"vendors": ["Acme", 7]}`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadVendorList(tt.path, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadVendorList() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadVendorList() = %v, want %v", got, tt.want)
			}
		})
	}
}
