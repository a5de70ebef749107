package config

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "ESTIMMO"

// DefaultConfigFile is the default location of the optional YAML config.
const DefaultConfigFile = "estimmo.yml"

// Model bundle file names inside the models directory.
const (
	BundleFileName   = "bundle.gob"
	MetadataFileName = "metadata.json"
)

// Cleaned CSV column order. The trainer treats a header that does not match
// this list as a fatal configuration error.
var CleanColumns = []string{
	"price",
	"surface",
	"rooms",
	"land",
	"sale_date",
	"property_type",
	"postal_code",
	"postal_prefix",
	"department",
	"year",
	"month",
	"season",
	"recent",
}
