package types

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds backend selection and container policy.
type Config struct {
	Backend       string   `json:"backend" yaml:"backend" mapstructure:"backend" validate:"required,oneof=memory sqlite"`
	DataDir       string   `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	ReservedNames []string `json:"reserved_names,omitempty" yaml:"reserved_names,omitempty" mapstructure:"reserved_names" validate:"dive,required,excludes=/"`
	Precondition  string   `json:"precondition,omitempty" yaml:"precondition,omitempty" mapstructure:"precondition"`
	LogLevel      string   `json:"log_level,omitempty" yaml:"log_level,omitempty" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrReservedName    = errors.New("reserved names must be non-empty and must not contain '/'")
	ErrLogLevelUnknown = errors.New("unknown log level")
)

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the Config is well-formed and returns one of the
// sentinel errors above on failure.
func (c Config) Validate() error {
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.StructField()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	switch field {
	case "Backend":
		if fe.Tag() == "required" {
			return ErrBackendEmpty
		}
		return ErrBackendUnknown
	case "ReservedNames":
		return ErrReservedName
	case "LogLevel":
		return ErrLogLevelUnknown
	}
	return err
}
