// Package preset bundles named default fit parameters so common jobs
// don't need six flags. Explicit flags always override preset values.
package preset

// Preset is a named set of fit defaults.
type Preset struct {
	Name               string
	Format             string // output format ("jpeg", "webp", "png")
	MinQuality         int
	MaxQuality         int
	MaxDownscaleRounds int
	Level              int // lossless compression effort 0-9
}

// Built-in presets.
var presets = map[string]Preset{
	"default": {
		Name:               "default",
		Format:             "webp",
		MinQuality:         30,
		MaxQuality:         95,
		MaxDownscaleRounds: 10,
		Level:              6,
	},
	"thumbnail": {
		Name:               "thumbnail",
		Format:             "jpeg",
		MinQuality:         40,
		MaxQuality:         85,
		MaxDownscaleRounds: 12,
		Level:              6,
	},
	"archive": {
		Name:               "archive",
		Format:             "png",
		MinQuality:         30,
		MaxQuality:         95,
		MaxDownscaleRounds: 4,
		Level:              9,
	},
}

// Get returns a preset by name. Unknown names fall back to "default"
// with the requested name preserved.
func Get(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	p := presets["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in preset names.
func Names() []string {
	return []string{"default", "thumbnail", "archive"}
}
