// Package validation checks configuration structs with go-playground/validator.
//
// Field names in messages follow the mapstructure (then json) tag, so a
// failure reads the same way as the configuration key that caused it:
//
//	type Server struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(srv) // INVALID_CONFIG: base_url: must be an absolute URL
//
// The custom `http_method` tag accepts upper-case method tokens.
package validation
