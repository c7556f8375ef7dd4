package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	"golang.org/x/net/html/charset"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cssc/props"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	EngineConfig struct {
		DPI               float64  `yaml:"dpi" validate:"gt=0,lte=2400"`
		FontSize          float64  `yaml:"font_size" validate:"gt=0,lte=256"`
		Color             string   `yaml:"color" validate:"required"`
		Media             []string `yaml:"media" validate:"min=1,dive,required"`
		Quotes            []string `yaml:"quotes" validate:"dive,required"`
		FontFamilies      []string `yaml:"font_families" validate:"dive,required"`
		FontDirs          []string `yaml:"font_dirs" validate:"dive,required"`
		Charset           string   `yaml:"charset"`
		DefaultStylesheet bool     `yaml:"default_stylesheet"`
		StylesheetPath    string   `yaml:"stylesheet_path" sanitize:"assure_file_access"`
		UserStylesheets   []string `yaml:"user_stylesheets" validate:"dive,required"`
	}

	OutputConfig struct {
		Format                string `yaml:"format" validate:"oneof=text sqlite"`
		NameTemplate          string `yaml:"name_template"`
		FileNameTransliterate bool   `yaml:"file_name_transliterate"`
		PseudoElements        bool   `yaml:"pseudo_elements"`
		PreviewSize           int    `yaml:"preview_size" validate:"min=16,max=2048"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Engine    EngineConfig   `yaml:"engine"`
		Output    OutputConfig   `yaml:"output"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	NameTemplateFieldName TemplateFieldName = "name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(NameTemplateFieldName)),
)

// engineChecks validates what tags cannot express.
func engineChecks(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}
	if len(cfg.Engine.Quotes)%2 != 0 {
		sl.ReportError(cfg.Engine.Quotes, "Quotes", "quotes", "pairs", "")
	}
	if c, ok := props.ParseColor(cfg.Engine.Color); !ok || c.A == 0 {
		sl.ReportError(cfg.Engine.Color, "Color", "color", "csscolor", "")
	}
	if cfg.Engine.Charset != "" {
		if enc, _ := charset.Lookup(cfg.Engine.Charset); enc == nil {
			sl.ReportError(cfg.Engine.Charset, "Charset", "charset", "charset", "")
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(engineChecks)); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
