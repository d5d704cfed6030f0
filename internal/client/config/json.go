package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/werkstatt/internal/flagx"
	"github.com/dmitrijs2005/werkstatt/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "1s" or as integer nanoseconds, and on pointers so absent
// keys leave the current value untouched. After parsing, values are copied
// into the runtime Config.
type JsonConfig struct {
	DatabaseDSN     *string         `json:"database_dsn"`
	ServiceKey      *string         `json:"service_key"`
	S3BaseEndpoint  *string         `json:"s3_base_endpoint"`
	S3Region        *string         `json:"s3_region"`
	S3Bucket        *string         `json:"s3_bucket"`
	S3AccessKey     *string         `json:"s3_access_key"`
	S3SecretKey     *string         `json:"s3_secret_key"`
	RequireOdometer *bool           `json:"require_odometer"`
	TickInterval    *timex.Duration `json:"tick_interval"`
	AppTitle        *string         `json:"app_title"`
	CompanyName     *string         `json:"company_name"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies the keys present in the file into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.ServiceKey != nil {
		cfg.ServiceKey = *jc.ServiceKey
	}
	if jc.S3BaseEndpoint != nil {
		cfg.S3BaseEndpoint = *jc.S3BaseEndpoint
	}
	if jc.S3Region != nil {
		cfg.S3Region = *jc.S3Region
	}
	if jc.S3Bucket != nil {
		cfg.S3Bucket = *jc.S3Bucket
	}
	if jc.S3AccessKey != nil {
		cfg.S3AccessKey = *jc.S3AccessKey
	}
	if jc.S3SecretKey != nil {
		cfg.S3SecretKey = *jc.S3SecretKey
	}
	if jc.RequireOdometer != nil {
		cfg.RequireOdometer = *jc.RequireOdometer
	}
	if jc.TickInterval != nil {
		cfg.TickInterval = time.Duration(jc.TickInterval.Duration)
	}
	if jc.AppTitle != nil {
		cfg.AppTitle = *jc.AppTitle
	}
	if jc.CompanyName != nil {
		cfg.CompanyName = *jc.CompanyName
	}
}
