package reconciler

import (
	"golang.org/x/text/language"

	"github.com/pricemap-tw/pricemap/pkg/errors"
)

type options struct {
	locale        language.Tag
	searchAddress bool
}

func defaultOptions() *options {
	return &options{
		locale:        language.TraditionalChinese,
		searchAddress: false,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithLocale sets the collation used for name tie-breaks and unknown cities.
func WithLocale(tag language.Tag) Option {
	return func(o *options) error {
		if tag == language.Und {
			return &errors.ValidationError{
				Field:   "locale",
				Message: "cannot be undetermined",
			}
		}
		o.locale = tag
		return nil
	}
}

// WithAddressSearch controls whether the keyword also matches the address.
// By default only the district and the name are searched.
func WithAddressSearch(enabled bool) Option {
	return func(o *options) error {
		o.searchAddress = enabled
		return nil
	}
}
