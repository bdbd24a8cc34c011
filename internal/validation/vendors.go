package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/invoices-tracker/constants"
)

// vendorMasterSchema describes the vendor master file: {"vendors": ["..."]}.
const vendorMasterSchema = `{
	"type": "object",
	"properties": {
		"vendors": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

var compiledVendorSchema = mustCompileSchema("vendor_master.json", vendorMasterSchema)

func mustCompileSchema(name, src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	return compiler.MustCompile(name)
}

type vendorMaster struct {
	Vendors []string `json:"vendors"`
}

// LoadVendorList reads the approved vendor list from a vendor master file.
// A missing file yields the built-in default list; a file without the
// "vendors" key yields an empty list.
func LoadVendorList(path string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("vendor master not found, using defaults", "path", path, "vendors", len(constants.DefaultVendors))
		return append([]string(nil), constants.DefaultVendors...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read vendor master: %w", err)
	}

	vendors, err := ParseVendorList(b)
	if err != nil {
		logger.Error("invalid vendor master", "path", path, "error", err)
		return nil, err
	}
	logger.Info("vendor master loaded", "path", path, "vendors", len(vendors))
	return vendors, nil
}

// ParseVendorList validates a vendor master document and returns its vendors.
func ParseVendorList(doc []byte) ([]string, error) {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("unmarshal vendor master: %w", err)
	}
	if err := compiledVendorSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("vendor master does not match schema: %w", err)
	}
	var m vendorMaster
	if err := json.NewDecoder(bytes.NewReader(doc)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode vendor master: %w", err)
	}
	if m.Vendors == nil {
		return []string{}, nil
	}
	return m.Vendors, nil
}
