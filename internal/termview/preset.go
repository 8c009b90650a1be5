package termview

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/odyssey-erp/catalogview/internal/table"
)

// Preset is a saved set of table inputs, e.g.
//
//	page_size = 10
//	page = 2
//	sort = "price"
//	direction = "desc"
//	search = "Red"
//
//	[filters]
//	category = "beauty"
type Preset struct {
	PageSize  int               `toml:"page_size"`
	Page      int               `toml:"page"`
	Sort      string            `toml:"sort"`
	Direction string            `toml:"direction"`
	Search    string            `toml:"search"`
	Filters   map[string]string `toml:"filters"`
}

// LoadPreset decodes a TOML preset file. Unknown keys are rejected so typos
// are not silently ignored.
func LoadPreset(path string) (Preset, error) {
	var preset Preset
	meta, err := toml.DecodeFile(path, &preset)
	if err != nil {
		return Preset{}, fmt.Errorf("termview: decode preset %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return Preset{}, fmt.Errorf("termview: preset %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return preset, nil
}

// Params converts the preset into table inputs. Page is 1-based in the file.
// A sort without a direction sorts ascending.
func (p Preset) Params() table.Params {
	params := table.Params{
		PageSize: p.PageSize,
		Global:   p.Search,
	}
	if p.Page > 0 {
		params.PageIndex = p.Page - 1
	}
	if p.Sort != "" {
		dir := table.SortDirection(strings.ToLower(strings.TrimSpace(p.Direction)))
		if dir == table.SortNone {
			dir = table.SortAsc
		}
		params.Sort = table.SortSpec{Column: table.ColumnKey(p.Sort), Direction: dir}
	}
	if len(p.Filters) > 0 {
		params.Filters = make(map[table.ColumnKey]string, len(p.Filters))
		for key, pattern := range p.Filters {
			params.Filters[table.ColumnKey(key)] = pattern
		}
	}
	return params
}
