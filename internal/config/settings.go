package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/gqlpick/internal/fsops"
)

const (
	// DefaultDebounce is the quiet window before an edited endpoint is probed.
	DefaultDebounce = 500 * time.Millisecond

	// DefaultPlaygroundURL is where `gqlpick open` sends the browser.
	DefaultPlaygroundURL = "http://localhost:3000/?endpoint={{endpoint}}&subscription={{subscription}}"

	// DefaultListenAddr is the address `gqlpick serve` binds to.
	DefaultListenAddr = "127.0.0.1:7070"
)

// Duration is a time.Duration that reads from YAML as "500ms", "2s", etc.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("line %d: duration must be a string like \"500ms\": %w", value.Line, err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Settings is the user configuration read from config.yaml.
type Settings struct {
	// Debounce is the quiet window for reachability checks while typing
	Debounce Duration `yaml:"debounce" validate:"min=0"`

	// ProbeTimeout bounds a single probe; zero leaves it to the transport
	ProbeTimeout Duration `yaml:"probe_timeout" validate:"min=0"`

	// Headers are passed through on every probe request
	Headers map[string]string `yaml:"headers,omitempty"`

	// PlaygroundURL is a template with {{endpoint}} and {{subscription}} tags
	PlaygroundURL string `yaml:"playground_url" validate:"required,playground_template"`

	// LogLevel is one of trace, debug, info, warn, error, off
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error off"`

	// ListenAddr is the HTTP API bind address
	ListenAddr string `yaml:"listen_addr" validate:"required,hostname_port"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() *Settings {
	return &Settings{
		Debounce:      Duration(DefaultDebounce),
		PlaygroundURL: DefaultPlaygroundURL,
		LogLevel:      "warn",
		ListenAddr:    DefaultListenAddr,
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	if err := validate.RegisterValidation("playground_template", validatePlaygroundTemplate); err != nil {
		panic(err)
	}
}

func validatePlaygroundTemplate(fl validator.FieldLevel) bool {
	return strings.Contains(fl.Field().String(), "{{endpoint}}")
}

// LoadSettings reads settings from path on fs. A missing file yields
// defaults. Keys absent from the file keep their default values.
func LoadSettings(fs fsops.FS, path string) (*Settings, error) {
	settings := DefaultSettings()

	exists, err := fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		return settings, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return settings, nil
}

// Validate checks every field and reports all failures at once.
func (s *Settings) Validate() error {
	var result *multierror.Error

	if err := validate.Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			result = multierror.Append(result, errors.New(validationMessage(fe)))
		}
	}

	for name := range s.Headers {
		if strings.TrimSpace(name) == "" {
			result = multierror.Append(result,
				errors.New("headers must not contain an empty header name"))
			break
		}
	}

	if result != nil {
		result.ErrorFormat = joinErrors
	}
	return result.ErrorOrNil()
}

func joinErrors(errs []error) string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must not be negative", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "hostname_port":
		return fmt.Sprintf("%s must be host:port", field)
	case "playground_template":
		return fmt.Sprintf("%s must contain {{endpoint}}", field)
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
