package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/picsearch/logger"
)

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	knownEngines             map[string]struct{}
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           error
}

// New returns a validator that accepts the given engine names, ignoring case.
func New(logger logger.Logger, knownEngines ...string) (*Validator, error) {
	validator := &Validator{validator: validator.New(), logger: logger, knownEngines: map[string]struct{}{}}
	for _, name := range knownEngines {
		validator.knownEngines[strings.ToLower(name)] = struct{}{}
	}
	validator.validator.RegisterTagNameFunc(useJSONFieldNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *Validator) Validate(i any) error {

	if err := v.validator.Struct(i); err != nil {
		v.logger.Warn("validation failed", "err", err.Error())
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {

			tagValidationDetails, ok := v.getTagValidationDetails()[validationErrs[0].Tag()]
			if ok {
				return fmt.Errorf("%w: '%v'", tagValidationDetails.err, validationErrs[0].Value())
			}

			switch validationErrs[0].Tag() {
			case "required":
				return fmt.Errorf("missing required field '%s'", validationErrs[0].Field())

			case "min", "max", "gte", "lte":
				return fmt.Errorf("value or length of field '%s' is not in the expected range", validationErrs[0].Field())

			}
		}
		return err
	}
	return nil
}

func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"valid_engine":    {validatorFunc: v.isValidEngine, err: errors.New("unknown engine")},
			"valid_image_url": {validatorFunc: v.isValidImageURL, err: errors.New("invalid image url")},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register customer validator function", "err", err.Error())
			return err
		}
	}
	return nil
}

func useJSONFieldNames(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" {
		tag = fld.Tag.Get("form")
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func (v *Validator) isValidEngine(fl validator.FieldLevel) bool {
	name := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	if _, ok := v.knownEngines[name]; !ok {
		v.logger.Warn("engine is not known", "engine", fl.Field().String())
		return false
	}
	return true
}

// isValidImageURL accepts empty values so it can sit next to other inputs.
func (v *Validator) isValidImageURL(fl validator.FieldLevel) bool {
	rawURL := fl.Field().String()
	if len(rawURL) == 0 {
		return true
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		v.logger.Warn("image url could not be parsed", "url", rawURL, "err", err.Error())
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		v.logger.Warn("image url scheme is not http(s)", "url", rawURL)
		return false
	}
	if parsed.Host == "" {
		v.logger.Warn("image url has no host", "url", rawURL)
		return false
	}

	return true
}
