package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"jewel-pricing/core/pricing"
	"jewel-pricing/internal/errors"
)

// LoadAdminSettings reads an admin settings file. JSON files use the
// camelCase admin-settings shape; HCL files use snake_case attributes
// with pricing and wholesale blocks:
//
//	pricing {
//	  wage            = 55
//	  material_markup = 2.2
//
//	  wholesale {
//	    type       = "percentage_of_retail"
//	    percentage = 0.55
//	  }
//	}
//
//	metal_complexity_multipliers = {
//	  platinum = 1.35
//	}
//
// An empty path returns nil, which the engine treats as all defaults.
// The returned settings are validated before they are handed back.
func LoadAdminSettings(path string) (*pricing.AdminSettings, error) {
	if path == "" {
		return nil, nil
	}

	var settings *pricing.AdminSettings
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		settings = &pricing.AdminSettings{}
		if err := hclsimple.DecodeFile(path, nil, settings); err != nil {
			return nil, errors.Config("decode settings "+path, err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Config("read settings "+path, err)
		}
		if settings, err = pricing.DecodeSettings(data); err != nil {
			return nil, errors.Wrapf(errors.TypeConfig, err, "decode settings %s", path)
		}
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported settings file extension %q (want .json or .hcl)", ext)
	}

	if _, err := settings.Resolve(); err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "invalid settings in %s", path)
	}
	return settings, nil
}
